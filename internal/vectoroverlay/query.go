package vectoroverlay

import "strings"

const bboxPlaceholder = "{{bbox}}"

// BuildQuery substitutes bboxPlaceholder in layer.Query with bboxParam
// (an Overpass "south,west,north,east" string). The envelope itself
// ([out:json][timeout:N];...out geom;) is added by internal/overpass.Client,
// not here, so this only ever returns a bare Overpass QL body.
func BuildQuery(layer Layer, bboxParam string) string {
	if strings.Contains(layer.Query, bboxPlaceholder) {
		return strings.ReplaceAll(layer.Query, bboxPlaceholder, bboxParam)
	}
	return layer.Query
}
