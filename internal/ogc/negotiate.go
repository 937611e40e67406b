package ogc

import (
	"context"
	"time"

	"github.com/data-tales/datasources/internal/domain"
	"github.com/data-tales/datasources/internal/logger"
)

// Candidate protocol versions per service kind, most modern first. The
// trailing empty string is the "unspecified" sentinel: some servers
// reject explicit but unsupported version strings yet answer an
// unqualified GetCapabilities.
var versionCandidates = map[domain.ServiceKind][]string{
	domain.KindWMS: {"1.3.0", "1.1.1", ""},
	domain.KindWFS: {"2.0.0", "1.1.0", "1.0.0", ""},
	domain.KindWCS: {"2.0.1", "2.0.0", "1.0.0", ""},
}

// maxErrorDetail caps the last-error description carried by a
// CapabilitiesUnavailable failure.
const maxErrorDetail = 220

// Capabilities is the negotiated outcome of a successful fetch+parse.
type Capabilities struct {
	Items           []domain.CatalogItem
	Version         string
	CapabilitiesURL string
	OutputFormats   []string
	FetchDuration   time.Duration
}

// Negotiator probes a service's version candidates strictly in order
// and returns the first one that both fetches and parses. Per-version
// failures are expected probing noise; only the last one survives,
// truncated, if every candidate fails.
type Negotiator struct {
	transport *Transport
	maxURLLen int
	log       logger.Logger
}

func NewNegotiator(transport *Transport, maxURLLen int, log logger.Logger) *Negotiator {
	return &Negotiator{transport: transport, maxURLLen: maxURLLen, log: log}
}

func (n *Negotiator) Fetch(ctx context.Context, svc domain.ServiceDescriptor) (*Capabilities, error) {
	candidates, ok := versionCandidates[svc.Kind]
	if !ok {
		return nil, &Error{Kind: KindInvalidEndpoint, Msg: "unsupported service kind " + string(svc.Kind)}
	}

	var lastErr error
	for _, version := range candidates {
		caps, err := n.attempt(ctx, svc, version)
		if err == nil {
			n.log.Debug("capabilities negotiated",
				logger.String("service", svc.Key),
				logger.String("version", caps.Version),
				logger.Int("items", len(caps.Items)))
			return caps, nil
		}
		if KindOf(err) == KindInvalidEndpoint {
			// The base URL is broken; later candidates cannot fix it.
			return nil, err
		}
		lastErr = err
		n.log.Debug("capabilities attempt failed",
			logger.String("service", svc.Key),
			logger.String("version", displayVersion(version)),
			logger.Error(err))
	}

	msg := "all version candidates failed"
	if lastErr != nil {
		msg = truncate(lastErr.Error(), maxErrorDetail)
	}
	return nil, &Error{Kind: KindCapabilitiesUnavailable, Msg: msg, Err: lastErr}
}

// attempt runs one full build-fetch-parse cycle for a single version
// candidate and returns either a complete outcome or a typed failure.
func (n *Negotiator) attempt(ctx context.Context, svc domain.ServiceDescriptor, version string) (*Capabilities, error) {
	overrides := map[string]string{
		"service": svc.Kind.Param(),
		"request": "GetCapabilities",
	}
	if version != "" {
		overrides["version"] = version
	}

	capURL, err := BuildEndpoint(svc.BaseURL, n.maxURLLen, overrides)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := n.transport.Fetch(ctx, capURL)
	if err != nil {
		return nil, err
	}

	caps, err := parseCapabilities(svc.Kind, data)
	if err != nil {
		return nil, err
	}

	negotiated := caps.Version
	if negotiated == "" {
		negotiated = version
	}
	return &Capabilities{
		Items:           caps.Items,
		Version:         negotiated,
		CapabilitiesURL: capURL,
		OutputFormats:   caps.OutputFormats,
		FetchDuration:   time.Since(start),
	}, nil
}

func parseCapabilities(kind domain.ServiceKind, data []byte) (*capabilities, error) {
	switch kind {
	case domain.KindWMS:
		return parseWMS(data)
	case domain.KindWFS:
		return parseWFS(data)
	case domain.KindWCS:
		return parseWCS(data)
	default:
		return nil, &Error{Kind: KindInvalidEndpoint, Msg: "unsupported service kind " + string(kind)}
	}
}

func displayVersion(v string) string {
	if v == "" {
		return "unspecified"
	}
	return v
}
