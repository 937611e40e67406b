// Package registry holds the static catalog of known OGC service
// endpoints. Descriptors are loaded once at startup and read-only
// afterwards; the pipeline resolves service keys against it.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/data-tales/datasources/internal/domain"
)

// Registry is the validated, immutable set of service descriptors.
type Registry struct {
	byKey  map[string]domain.ServiceDescriptor
	groups []Group
}

// Group pairs a display group name with its descriptors, in file order.
type Group struct {
	Name     string
	Services []domain.ServiceDescriptor
}

// Build validates a parsed registry file. Keys must be unique, kinds
// known and base URLs https.
func Build(file *File) (*Registry, error) {
	reg := &Registry{byKey: make(map[string]domain.ServiceDescriptor)}

	for _, groupCfg := range file.Groups {
		group := Group{Name: groupCfg.Name}
		for _, svc := range groupCfg.Services {
			key := strings.TrimSpace(svc.Key)
			if key == "" {
				return nil, fmt.Errorf("group %q: service with empty key", groupCfg.Name)
			}
			if _, exists := reg.byKey[key]; exists {
				return nil, fmt.Errorf("duplicate service key %q", key)
			}
			kind, err := domain.ParseServiceKind(svc.Kind)
			if err != nil {
				return nil, fmt.Errorf("service %q: %w", key, err)
			}
			if !strings.HasPrefix(strings.ToLower(svc.URL), "https://") {
				return nil, fmt.Errorf("service %q: url must be https", key)
			}

			desc := domain.ServiceDescriptor{
				Key:     key,
				Label:   svc.Label,
				Kind:    kind,
				BaseURL: svc.URL,
				Group:   groupCfg.Name,
			}
			reg.byKey[key] = desc
			group.Services = append(group.Services, desc)
		}
		reg.groups = append(reg.groups, group)
	}

	if len(reg.byKey) == 0 {
		return nil, fmt.Errorf("registry contains no services")
	}
	return reg, nil
}

// Load is the one-call path: read, parse, validate.
func Load(filePath string) (*Registry, error) {
	file, err := NewLoader(filePath).Load()
	if err != nil {
		return nil, err
	}
	return Build(file)
}

// Get returns the descriptor for a service key.
func (r *Registry) Get(key string) (domain.ServiceDescriptor, bool) {
	desc, ok := r.byKey[key]
	return desc, ok
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	return len(r.byKey)
}

// Keys returns all service keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for key := range r.byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Grouped returns the display grouping in file order.
func (r *Registry) Grouped() []Group {
	return r.groups
}
