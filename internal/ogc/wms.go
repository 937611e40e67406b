package ogc

import (
	"strconv"
	"strings"

	"github.com/data-tales/datasources/internal/domain"
)

// capabilities is the raw outcome of one dialect parse: items in
// document order plus the protocol metadata declared by the document.
type capabilities struct {
	Items         []domain.CatalogItem
	Version       string
	OutputFormats []string
}

// layerContext carries the values a WMS child layer inherits from its
// ancestors: the nearest ancestor title and the effective CRS list.
type layerContext struct {
	title string
	crs   []string
}

// parseWMS walks the layer tree of a WMS capabilities document.
//
// Title and CRS inherit downward. A layer's own CRS declarations
// replace the inherited list; declaring none means inheriting all of
// the parent's. Nameless grouping layers are traversed for their
// children but never emitted themselves.
func parseWMS(data []byte) (*capabilities, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}

	caps := &capabilities{Version: documentVersion(root)}

	scope := root.findFirst("Capability")
	if scope == nil {
		scope = root
	}
	top := scope.findFirst("Layer")
	if top == nil {
		return caps, nil
	}

	walkWMSLayer(top, layerContext{}, caps)
	return caps, nil
}

func walkWMSLayer(layer *xmlNode, inherited layerContext, caps *capabilities) {
	name := layer.childText("Name")
	title := layer.childText("Title")
	if title == "" {
		title = inherited.title
	}

	crs := ownCRSList(layer)
	if len(crs) == 0 {
		crs = inherited.crs
	}

	if name != "" {
		prefix, local := domain.SplitQualifiedName(name)
		item := domain.CatalogItem{
			Type:      domain.TypeWMSLayer,
			Name:      name,
			Prefix:    prefix,
			LocalName: local,
			Title:     title,
			Abstract:  layer.childText("Abstract"),
			Queryable: layer.attr("queryable"),
			CRS:       crs,
			BBoxWGS84: wmsBoundingBox(layer),
			Styles:    layerStyles(layer),
		}
		caps.Items = append(caps.Items, item)
	}

	next := layerContext{title: title, crs: crs}
	for _, child := range layer.children("Layer") {
		walkWMSLayer(child, next, caps)
	}
}

// ownCRSList collects the CRS declared on the layer itself. 1.3.0 uses
// CRS elements, 1.1.x uses SRS; old servers pack several codes into one
// whitespace-separated element.
func ownCRSList(layer *xmlNode) []string {
	var out []string
	for _, tag := range []string{"CRS", "SRS"} {
		for _, c := range layer.children(tag) {
			for _, code := range strings.Fields(c.Content) {
				out = append(out, code)
			}
		}
	}
	return out
}

func layerStyles(layer *xmlNode) []domain.Style {
	var styles []domain.Style
	for _, s := range layer.children("Style") {
		name := s.childText("Name")
		title := s.childText("Title")
		if name != "" || title != "" {
			styles = append(styles, domain.Style{Name: name, Title: title})
		}
	}
	return styles
}

// wmsBoundingBox reads the WGS84 extent from either the 1.3.0
// EX_GeographicBoundingBox corner elements or the legacy 1.1.x
// LatLonBoundingBox attribute form. Unparsable values yield nil, never
// an error.
func wmsBoundingBox(layer *xmlNode) *domain.BoundingBox {
	if geo := firstChild(layer, "EX_GeographicBoundingBox"); geo != nil {
		west, errW := parseFloat(geo.childText("westBoundLongitude"))
		east, errE := parseFloat(geo.childText("eastBoundLongitude"))
		south, errS := parseFloat(geo.childText("southBoundLatitude"))
		north, errN := parseFloat(geo.childText("northBoundLatitude"))
		if errW == nil && errE == nil && errS == nil && errN == nil {
			return &domain.BoundingBox{MinX: west, MinY: south, MaxX: east, MaxY: north, CRS: "EPSG:4326"}
		}
		return nil
	}

	if legacy := firstChild(layer, "LatLonBoundingBox"); legacy != nil {
		minx, errA := parseFloat(legacy.attr("minx"))
		miny, errB := parseFloat(legacy.attr("miny"))
		maxx, errC := parseFloat(legacy.attr("maxx"))
		maxy, errD := parseFloat(legacy.attr("maxy"))
		if errA == nil && errB == nil && errC == nil && errD == nil {
			return &domain.BoundingBox{MinX: minx, MinY: miny, MaxX: maxx, MaxY: maxy, CRS: "EPSG:4326"}
		}
	}
	return nil
}

func firstChild(n *xmlNode, local string) *xmlNode {
	if children := n.children(local); len(children) > 0 {
		return children[0]
	}
	return nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func documentVersion(root *xmlNode) string {
	return root.attr("version")
}
