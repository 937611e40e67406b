package domain

import (
	"sort"
	"strings"
)

// ItemType classifies a catalog item by the dialect it came from.
type ItemType string

const (
	TypeWMSLayer       ItemType = "wms_layer"
	TypeWFSFeatureType ItemType = "wfs_feature_type"
	TypeWCSCoverage    ItemType = "wcs_coverage"
)

// Style is a named WMS rendering style attached to a layer.
type Style struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// BoundingBox is a WGS84 extent in decimal degrees.
type BoundingBox struct {
	MinX float64 `json:"minx"`
	MinY float64 `json:"miny"`
	MaxX float64 `json:"maxx"`
	MaxY float64 `json:"maxy"`
	CRS  string  `json:"crs"`
}

// CatalogItem is one normalized layer, feature type or coverage.
// Name is always non-empty; nameless source nodes are never emitted.
type CatalogItem struct {
	Type       ItemType     `json:"type"`
	Name       string       `json:"name"`
	Prefix     string       `json:"prefix"`
	LocalName  string       `json:"local_name"`
	Title      string       `json:"title,omitempty"`
	Abstract   string       `json:"abstract,omitempty"`
	Queryable  string       `json:"queryable,omitempty"`
	CRS        []string     `json:"crs,omitempty"`
	DefaultCRS string       `json:"default_crs,omitempty"`
	BBoxWGS84  *BoundingBox `json:"bbox_wgs84,omitempty"`
	Styles     []Style      `json:"styles,omitempty"`
}

// SplitQualifiedName splits a qualified identifier on its first colon.
// "ws:roads" -> ("ws", "roads"); "roads" -> ("", "roads").
func SplitQualifiedName(name string) (prefix, local string) {
	if i := strings.Index(name, ":"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// SortItems orders items by (prefix, localName, name) ascending,
// case-sensitive, so results are deterministic and diffable no matter
// which dialect produced them.
func SortItems(items []CatalogItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Prefix != b.Prefix {
			return a.Prefix < b.Prefix
		}
		if a.LocalName != b.LocalName {
			return a.LocalName < b.LocalName
		}
		return a.Name < b.Name
	})
}
