package overpass

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/agentstation/souqmap/pkg/rules"
)

// CasablancaBound is the search area covering the greater Casablanca region.
var CasablancaBound = orb.Bound{
	Min: orb.Point{-7.9, 33.4},
	Max: orb.Point{-7.3, 33.7},
}

// Tag is an OSM key=value filter.
type Tag struct {
	Key   string
	Value string
}

// String returns the tag as key=value.
func (t Tag) String() string {
	return t.Key + "=" + t.Value
}

// TagsFromRules returns a filter for every shop and amenity value the rules
// know how to classify, shop tags first, each group sorted.
func TagsFromRules(r *rules.Rules) []Tag {
	var tags []Tag
	for _, group := range []struct {
		key   string
		table map[string]rules.CategoryRule
	}{{"shop", r.Shop}, {"amenity", r.Amenity}} {
		values := make([]string, 0, len(group.table))
		for v := range group.table {
			values = append(values, v)
		}
		slices.Sort(values)
		for _, v := range values {
			tags = append(tags, Tag{Key: group.key, Value: v})
		}
	}
	return tags
}

// BBox formats a bound in Overpass order: south, west, north, east.
func BBox(b orb.Bound) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return strings.Join([]string{f(b.Min[1]), f(b.Min[0]), f(b.Max[1]), f(b.Max[0])}, ",")
}

// BuildQuery returns an Overpass QL query selecting nodes, ways and relations
// carrying any of the tags inside the bound. Ways and relations are returned
// with their center point.
func BuildQuery(b orb.Bound, tags []Tag, timeout time.Duration) string {
	bbox := BBox(b)
	var sb strings.Builder
	fmt.Fprintf(&sb, "[out:json][timeout:%d];\n(\n", int(timeout.Seconds()))
	for _, t := range tags {
		for _, kind := range []string{"node", "way", "relation"} {
			fmt.Fprintf(&sb, "  %s[%q=%q](%s);\n", kind, t.Key, t.Value, bbox)
		}
	}
	sb.WriteString(");\nout center;\n")
	return sb.String()
}
