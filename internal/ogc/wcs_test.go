package ogc

import (
	"testing"

	"github.com/data-tales/datasources/internal/domain"
)

func TestParseWCSModernDialect(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<wcs:Capabilities version="2.0.1"
    xmlns:wcs="http://www.opengis.net/wcs/2.0"
    xmlns:ows="http://www.opengis.net/ows/2.0">
  <wcs:Contents>
    <wcs:CoverageSummary>
      <wcs:CoverageId>eoc:srtm_dem</wcs:CoverageId>
      <ows:Title>SRTM Digital Elevation Model</ows:Title>
      <ows:WGS84BoundingBox>
        <ows:LowerCorner>-180 -56</ows:LowerCorner>
        <ows:UpperCorner>180 60</ows:UpperCorner>
      </ows:WGS84BoundingBox>
    </wcs:CoverageSummary>
    <wcs:CoverageSummary>
      <ows:Title>Nameless, must be skipped</ows:Title>
    </wcs:CoverageSummary>
  </wcs:Contents>
</wcs:Capabilities>`

	caps, err := parseWCS([]byte(doc))
	if err != nil {
		t.Fatalf("parseWCS() error = %v", err)
	}

	if caps.Version != "2.0.1" {
		t.Errorf("Version = %q, want 2.0.1", caps.Version)
	}
	if len(caps.Items) != 1 {
		t.Fatalf("parsed %d items, want 1", len(caps.Items))
	}

	dem := caps.Items[0]
	if dem.Type != domain.TypeWCSCoverage {
		t.Errorf("Type = %q, want %q", dem.Type, domain.TypeWCSCoverage)
	}
	if dem.Name != "eoc:srtm_dem" || dem.Prefix != "eoc" || dem.LocalName != "srtm_dem" {
		t.Errorf("name split = (%q, %q, %q)", dem.Name, dem.Prefix, dem.LocalName)
	}
	if dem.Title != "SRTM Digital Elevation Model" {
		t.Errorf("Title = %q", dem.Title)
	}
	if dem.BBoxWGS84 == nil {
		t.Fatal("BBoxWGS84 = nil, want parsed corner pair")
	}
	want := domain.BoundingBox{MinX: -180, MinY: -56, MaxX: 180, MaxY: 60, CRS: "EPSG:4326"}
	if *dem.BBoxWGS84 != want {
		t.Errorf("BBoxWGS84 = %+v, want %+v", *dem.BBoxWGS84, want)
	}
}

func TestParseWCSLegacyIdentifierAndLabel(t *testing.T) {
	doc := `<?xml version="1.0"?>
<Capabilities version="1.0.0">
  <Contents>
    <CoverageSummary>
      <Identifier>bathymetry</Identifier>
      <label>Mean depth</label>
    </CoverageSummary>
  </Contents>
</Capabilities>`

	caps, err := parseWCS([]byte(doc))
	if err != nil {
		t.Fatalf("parseWCS() error = %v", err)
	}
	if len(caps.Items) != 1 {
		t.Fatalf("parsed %d items, want 1", len(caps.Items))
	}
	cov := caps.Items[0]
	if cov.Name != "bathymetry" {
		t.Errorf("Name = %q, want bathymetry via Identifier fallback", cov.Name)
	}
	if cov.Title != "Mean depth" {
		t.Errorf("Title = %q, want Mean depth via label fallback", cov.Title)
	}
}

func TestParseWCSEmptyContents(t *testing.T) {
	caps, err := parseWCS([]byte(`<?xml version="1.0"?><Capabilities version="2.0.1"/>`))
	if err != nil {
		t.Fatalf("parseWCS() error = %v", err)
	}
	if len(caps.Items) != 0 {
		t.Errorf("parsed %d items, want 0", len(caps.Items))
	}
}
