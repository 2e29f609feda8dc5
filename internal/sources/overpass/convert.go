package overpass

import (
	"strconv"

	"github.com/agentstation/souqmap/pkg/tabular"
)

// tagColumns are the OSM tags copied into the raw table.
var tagColumns = []string{"name", "brand", "shop", "amenity", "addr:full", "addr:street", "addr:city"}

// Columns of the raw map API table.
var Columns = append([]string{"osm_type", "osm_id", "lat", "lon"}, tagColumns...)

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *point            `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// position returns the element coordinates. Nodes carry their own; ways and
// relations carry a center when queried with "out center".
func (e element) position() (lat, lon float64, ok bool) {
	switch e.Type {
	case "node":
		if e.Lat == nil || e.Lon == nil {
			return 0, 0, false
		}
		lat, lon = *e.Lat, *e.Lon
	case "way", "relation":
		if e.Center == nil {
			return 0, 0, false
		}
		lat, lon = e.Center.Lat, e.Center.Lon
	default:
		return 0, 0, false
	}
	return lat, lon, lat != 0 && lon != 0
}

func (e element) key() string {
	return e.Type + "/" + strconv.FormatInt(e.ID, 10)
}

// appendElements adds the usable elements to the table, skipping untagged
// elements, elements without coordinates, and elements already present.
func appendElements(t *tabular.Table, elements []element, seen map[string]bool) (added, skipped int) {
	for _, e := range elements {
		if len(e.Tags) == 0 || seen[e.key()] {
			skipped++
			continue
		}
		lat, lon, ok := e.position()
		if !ok {
			skipped++
			continue
		}
		seen[e.key()] = true

		row := tabular.Row{
			"osm_type": e.Type,
			"osm_id":   strconv.FormatInt(e.ID, 10),
			"lat":      strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":      strconv.FormatFloat(lon, 'f', -1, 64),
		}
		for _, col := range tagColumns {
			if v, ok := e.Tags[col]; ok {
				row[col] = v
			}
		}
		t.Append(row)
		added++
	}
	return added, skipped
}
