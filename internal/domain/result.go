package domain

// ServiceInfo echoes the negotiated connection details of a fetch.
type ServiceInfo struct {
	Key             string      `json:"key"`
	Label           string      `json:"label"`
	Kind            ServiceKind `json:"kind"`
	URL             string      `json:"url"`
	CapabilitiesURL string      `json:"capabilities_url"`
	Version         string      `json:"version,omitempty"`
	OutputFormats   []string    `json:"output_formats,omitempty"`
}

// Counts holds aggregate numbers over the item list.
// Styles is only set for WMS results.
type Counts struct {
	Items  int  `json:"items"`
	Styles *int `json:"styles,omitempty"`
}

// ServiceResult is the pipeline output for one successful capabilities
// fetch. It is constructed once and treated as immutable afterwards;
// the caches hand out the same value to every reader.
type ServiceResult struct {
	Service         ServiceInfo   `json:"service"`
	Counts          Counts        `json:"counts"`
	Items           []CatalogItem `json:"items"`
	FetchedAt       int64         `json:"fetched_at"`
	FetchDurationMs int64         `json:"fetch_duration_ms"`
}
