// Package zones assigns points to named city zones by bounding-box
// containment. Boxes are scanned in declaration order and the first box that
// contains the point wins, so overlapping boxes resolve by position in the
// rule list rather than by size or distance.
package zones

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/rules"
)

// Zone is a named box.
type Zone struct {
	Name  string
	Bound orb.Bound
}

// Assigner maps coordinates to zone names.
type Assigner struct {
	zones       []Zone
	defaultZone string
}

// New builds an assigner from the zone rules. Points outside every box, and
// points with missing coordinates, are assigned defaultZone.
func New(zoneRules []rules.ZoneRule, defaultZone string) (*Assigner, error) {
	if defaultZone == "" {
		return nil, &errors.ValidationError{Field: "defaultZone", Message: "default zone cannot be empty"}
	}
	a := &Assigner{
		zones:       make([]Zone, 0, len(zoneRules)),
		defaultZone: defaultZone,
	}
	for _, z := range zoneRules {
		a.zones = append(a.zones, Zone{
			Name: z.Name,
			// orb points are (lon, lat).
			Bound: orb.Bound{
				Min: orb.Point{z.LonMin, z.LatMin},
				Max: orb.Point{z.LonMax, z.LatMax},
			},
		})
	}
	return a, nil
}

// FromRules builds an assigner from a complete rule set.
func FromRules(r *rules.Rules) (*Assigner, error) {
	if r == nil {
		return nil, &errors.ValidationError{Field: "rules", Message: "rules cannot be nil"}
	}
	return New(r.Zones, r.Defaults.Zone)
}

// Assign returns the zone containing (lat, lon). Bounds are inclusive.
func (a *Assigner) Assign(lat, lon *float64) string {
	if lat == nil || lon == nil || math.IsNaN(*lat) || math.IsNaN(*lon) {
		return a.defaultZone
	}
	return a.Locate(orb.Point{*lon, *lat})
}

// Locate returns the zone containing p.
func (a *Assigner) Locate(p orb.Point) string {
	for _, z := range a.zones {
		if z.Bound.Contains(p) {
			return z.Name
		}
	}
	return a.defaultZone
}

// Zones returns the configured zones in declaration order.
func (a *Assigner) Zones() []Zone {
	out := make([]Zone, len(a.zones))
	copy(out, a.zones)
	return out
}

// Default returns the fallback zone name.
func (a *Assigner) Default() string {
	return a.defaultZone
}
