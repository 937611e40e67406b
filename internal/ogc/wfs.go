package ogc

import (
	"strings"

	"github.com/data-tales/datasources/internal/domain"
)

// parseWFS extracts the feature type list and the GetFeature output
// formats from a WFS capabilities document.
func parseWFS(data []byte) (*capabilities, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}

	caps := &capabilities{
		Version:       documentVersion(root),
		OutputFormats: getFeatureOutputFormats(root),
	}

	var featureTypes []*xmlNode
	if list := root.findFirst("FeatureTypeList"); list != nil {
		featureTypes = list.children("FeatureType")
	} else {
		featureTypes = root.findAll("FeatureType")
	}

	for _, ft := range featureTypes {
		name := ft.childText("Name")
		if name == "" {
			continue
		}
		prefix, local := domain.SplitQualifiedName(name)
		defaultCRS := ft.childText("DefaultCRS")
		if defaultCRS == "" {
			defaultCRS = ft.childText("DefaultSRS")
		}
		caps.Items = append(caps.Items, domain.CatalogItem{
			Type:       domain.TypeWFSFeatureType,
			Name:       name,
			Prefix:     prefix,
			LocalName:  local,
			Title:      ft.childText("Title"),
			Abstract:   ft.childText("Abstract"),
			DefaultCRS: defaultCRS,
			BBoxWGS84:  cornerBoundingBox(ft),
		})
	}

	return caps, nil
}

// cornerBoundingBox parses a WGS84BoundingBox in the OWS corner-pair
// form: LowerCorner "minx miny", UpperCorner "maxx maxy".
func cornerBoundingBox(n *xmlNode) *domain.BoundingBox {
	box := firstChild(n, "WGS84BoundingBox")
	if box == nil {
		return nil
	}
	lower := strings.Fields(box.childText("LowerCorner"))
	upper := strings.Fields(box.childText("UpperCorner"))
	if len(lower) < 2 || len(upper) < 2 {
		return nil
	}
	minx, errA := parseFloat(lower[0])
	miny, errB := parseFloat(lower[1])
	maxx, errC := parseFloat(upper[0])
	maxy, errD := parseFloat(upper[1])
	if errA != nil || errB != nil || errC != nil || errD != nil {
		return nil
	}
	return &domain.BoundingBox{MinX: minx, MinY: miny, MaxX: maxx, MaxY: maxy, CRS: "EPSG:4326"}
}

// getFeatureOutputFormats scans OperationsMetadata for the GetFeature
// operation's outputFormat parameter values, de-duplicated in document
// order.
func getFeatureOutputFormats(root *xmlNode) []string {
	ops := root.findFirst("OperationsMetadata")
	if ops == nil {
		return nil
	}

	var formats []string
	seen := make(map[string]bool)
	for _, op := range ops.findAll("Operation") {
		if op.attr("name") != "GetFeature" {
			continue
		}
		for _, param := range op.findAll("Parameter") {
			if param.attr("name") != "outputFormat" {
				continue
			}
			for _, val := range param.findAll("Value") {
				format := strings.TrimSpace(val.Content)
				if format == "" || seen[format] {
					continue
				}
				seen[format] = true
				formats = append(formats, format)
			}
		}
	}
	return formats
}
