package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/data-tales/datasources/internal/domain"
)

func writeServicesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing services file: %v", err)
	}
	return path
}

const validYAML = `
groups:
  - name: "Wetter"
    services:
      - key: dwd_wms
        label: "DWD GeoServer (WMS)"
        kind: wms
        url: "https://maps.dwd.de/geoserver/wms?SERVICE=WMS"
      - key: dwd_wfs
        label: "DWD GeoServer (WFS)"
        kind: wfs
        url: "https://maps.dwd.de/geoserver/wfs"
  - name: "Europa"
    services:
      - key: emodnet_wcs
        label: "EMODnet Bathymetry (WCS)"
        kind: wcs
        url: "https://ows.emodnet-bathymetry.eu/wcs"
`

func TestLoadValidFile(t *testing.T) {
	reg, err := Load(writeServicesFile(t, validYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}

	svc, ok := reg.Get("dwd_wms")
	if !ok {
		t.Fatal("Get(dwd_wms) = not found")
	}
	if svc.Kind != domain.KindWMS {
		t.Errorf("Kind = %q, want %q", svc.Kind, domain.KindWMS)
	}
	if svc.Group != "Wetter" {
		t.Errorf("Group = %q, want Wetter", svc.Group)
	}

	keys := reg.Keys()
	want := []string{"dwd_wfs", "dwd_wms", "emodnet_wcs"}
	for i, key := range want {
		if keys[i] != key {
			t.Errorf("Keys()[%d] = %q, want %q (sorted)", i, keys[i], key)
		}
	}

	groups := reg.Grouped()
	if len(groups) != 2 || groups[0].Name != "Wetter" || groups[1].Name != "Europa" {
		t.Errorf("Grouped() = %+v, want file order preserved", groups)
	}
}

func TestLoadRejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate key",
			yaml: `
groups:
  - name: "G"
    services:
      - {key: a, label: A, kind: wms, url: "https://example.com/a"}
      - {key: a, label: B, kind: wfs, url: "https://example.com/b"}
`,
		},
		{
			name: "unknown kind",
			yaml: `
groups:
  - name: "G"
    services:
      - {key: a, label: A, kind: csw, url: "https://example.com/a"}
`,
		},
		{
			name: "non-https url",
			yaml: `
groups:
  - name: "G"
    services:
      - {key: a, label: A, kind: wms, url: "http://example.com/a"}
`,
		},
		{
			name: "empty key",
			yaml: `
groups:
  - name: "G"
    services:
      - {key: "", label: A, kind: wms, url: "https://example.com/a"}
`,
		},
		{
			name: "no groups",
			yaml: `groups: []`,
		},
		{
			name: "unnamed group",
			yaml: `
groups:
  - name: ""
    services:
      - {key: a, label: A, kind: wms, url: "https://example.com/a"}
`,
		},
		{
			name: "not yaml",
			yaml: `{{{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeServicesFile(t, tt.yaml)); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for a missing file")
	}
}
