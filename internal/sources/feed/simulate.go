package feed

import (
	"math"
	"strconv"

	"github.com/agentstation/souqmap/pkg/rules"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// Columns of the simulated directory table.
var Columns = []string{"Nom", "brand", "Catégorie", "Statut", "Adresse", "Latitude", "Longitude"}

type neighbourhood struct {
	name     string
	lat, lon float64
}

var (
	maarif        = neighbourhood{"Maarif", 33.582, -7.638}
	anfa          = neighbourhood{"Anfa", 33.600, -7.655}
	ainDiab       = neighbourhood{"Ain Diab", 33.575, -7.665}
	centreVille   = neighbourhood{"Centre-Ville", 33.596, -7.618}
	hayHassani    = neighbourhood{"Hay Hassani", 33.565, -7.630}
	sidiBernoussi = neighbourhood{"Sidi Bernoussi", 33.620, -7.535}
	ainSebaa      = neighbourhood{"Ain Sebaa", 33.610, -7.515}
	bouskoura     = neighbourhood{"Bouskoura", 33.465, -7.625}
	mohammedia    = neighbourhood{"Mohammedia", 33.690, -7.370}
)

// directory lists the simulated branches of each brand.
var directory = []struct {
	brand    string
	branches []neighbourhood
}{
	{"Carrefour", []neighbourhood{maarif, ainSebaa, bouskoura}},
	{"Marjane", []neighbourhood{ainDiab, hayHassani, mohammedia}},
	{"BIM", []neighbourhood{maarif, centreVille, sidiBernoussi, hayHassani}},
	{"Acima", []neighbourhood{anfa, ainSebaa}},
	{"LabelVie", []neighbourhood{anfa, bouskoura}},
	{"McDonald's", []neighbourhood{ainDiab, maarif}},
	{"KFC", []neighbourhood{centreVille, anfa}},
	{"Amoud", []neighbourhood{maarif}},
	{"La Vie Claire", []neighbourhood{anfa}},
	{"Auchan", []neighbourhood{sidiBernoussi}},
}

// centreBrands each get one store laid out on a diagonal around the city centre.
var centreBrands = []string{"Paul", "Brioche Dorée", "Domino's Pizza", "Starbucks", "Subway", "Pizza Hut"}

const (
	centreLat = 33.5731
	centreLon = -7.5898
)

// Simulate builds the simulated directory feed. Categories and sectors come
// from the brand rules, falling back to the feed default for unknown brands.
// The output is deterministic.
func Simulate(r *rules.Rules) *tabular.Table {
	brands := make(map[string]rules.CategoryRule, len(r.Brands))
	for _, b := range r.Brands {
		brands[b.Brand] = b.Rule()
	}
	lookup := func(brand string) rules.CategoryRule {
		if rule, ok := brands[brand]; ok {
			return rule
		}
		return r.Defaults.Feed
	}

	t := tabular.New("atp", Columns...)
	for i, d := range directory {
		rule := lookup(d.brand)
		// Spread brands sharing a neighbourhood without leaving its zone.
		offset := 0.0008 * float64(i%5)
		for _, n := range d.branches {
			t.Append(tabular.Row{
				"Nom":       d.brand + " " + n.name,
				"brand":     d.brand,
				"Catégorie": rule.Category,
				"Statut":    rule.Sector.String(),
				"Adresse":   "Avenue " + n.name + ", Casablanca",
				"Latitude":  coord(n.lat + offset),
				"Longitude": coord(n.lon + offset),
			})
		}
	}
	for i, brand := range centreBrands {
		rule := lookup(brand)
		t.Append(tabular.Row{
			"Nom":       brand + " Casablanca Centre",
			"brand":     brand,
			"Catégorie": rule.Category,
			"Statut":    rule.Sector.String(),
			"Adresse":   "Centre Commercial, Casablanca",
			"Latitude":  coord(centreLat + float64(i)*0.01 - 0.02),
			"Longitude": coord(centreLon + float64(i)*0.008 - 0.02),
		})
	}
	return t
}

func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
