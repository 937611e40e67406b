package domain

import (
	"fmt"
	"strings"
)

// ServiceKind identifies the OGC protocol spoken by a service endpoint.
type ServiceKind string

const (
	KindWMS ServiceKind = "wms"
	KindWFS ServiceKind = "wfs"
	KindWCS ServiceKind = "wcs"
)

// ParseServiceKind validates a raw kind string from the registry file.
func ParseServiceKind(s string) (ServiceKind, error) {
	switch ServiceKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindWMS:
		return KindWMS, nil
	case KindWFS:
		return KindWFS, nil
	case KindWCS:
		return KindWCS, nil
	default:
		return "", fmt.Errorf("unknown service kind %q", s)
	}
}

// Param returns the value used for the SERVICE request parameter.
func (k ServiceKind) Param() string {
	return strings.ToUpper(string(k))
}

// ServiceDescriptor describes one known OGC endpoint from the registry.
// Descriptors are read-only after loading.
type ServiceDescriptor struct {
	Key     string
	Label   string
	Kind    ServiceKind
	BaseURL string
	Group   string
}
