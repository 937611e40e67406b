package ogc

import (
	"github.com/data-tales/datasources/internal/domain"
)

// parseWCS iterates the coverage summaries of a WCS capabilities
// document. The identifier element is CoverageId in 2.x and Identifier
// in 1.x; titles fall back to the 1.0 label element. A corner-pair
// WGS84 extent is taken when declared; per-coverage CRS lists are not
// extracted for this dialect.
func parseWCS(data []byte) (*capabilities, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}

	caps := &capabilities{Version: documentVersion(root)}

	for _, summary := range root.findAll("CoverageSummary") {
		name := summary.childText("CoverageId")
		if name == "" {
			name = summary.childText("Identifier")
		}
		if name == "" {
			continue
		}
		title := summary.childText("Title")
		if title == "" {
			title = summary.childText("label")
		}
		prefix, local := domain.SplitQualifiedName(name)
		caps.Items = append(caps.Items, domain.CatalogItem{
			Type:      domain.TypeWCSCoverage,
			Name:      name,
			Prefix:    prefix,
			LocalName: local,
			Title:     title,
			Abstract:  summary.childText("Abstract"),
			BBoxWGS84: cornerBoundingBox(summary),
		})
	}

	return caps, nil
}
