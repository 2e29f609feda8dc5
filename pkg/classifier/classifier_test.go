package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/rules"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	r, err := rules.Default()
	require.NoError(t, err)
	c, err := New(r)
	require.NoError(t, err)
	return c
}

func TestNewRequiresRules(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "epicerie fine", Fold("  Épicerie   Fine "))
	assert.Equal(t, "cafe", Fold("CAFÉ"))
	assert.Equal(t, "brioche doree", Fold("Brioche Dorée"))
}

func TestClassifyMapAPI(t *testing.T) {
	c := newClassifier(t)
	tests := []struct {
		tag      string
		category string
		sector   records.Sector
	}{
		{"amenity=cafe", "Café", records.SectorFormal},
		{"shop=bakery", "Boulangerie", records.SectorFormal},
		{"shop=kiosk", "Kiosque", records.SectorInformal},
		{"greengrocer", "Épicerie", records.SectorInformal},
		{"fast_food", "Restaurant", records.SectorFormal},
		// amenity values are not looked up in the shop table
		{"shop=cafe", "Épicerie", records.SectorInformal},
		{"amenity=pharmacy", "Parapharmacie", records.SectorFormal},
		{"Supermarché", "Supermarché", records.SectorFormal},
		{"shop=hardware", "Épicerie", records.SectorInformal},
		{"", "Épicerie", records.SectorInformal},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			category, sector := c.Classify(tt.tag, records.SourceMapAPI)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.sector, sector)
		})
	}
}

func TestClassifyFeed(t *testing.T) {
	c := newClassifier(t)
	tests := []struct {
		label    string
		category string
		sector   records.Sector
	}{
		{"Marjane", "Supermarché", records.SectorFormal},
		{"bim", "Supérette / Mini-market", records.SectorFormal},
		{"Brioche Doree", "Boulangerie", records.SectorFormal},
		{"Pizza Hut Casablanca Centre", "Restaurant", records.SectorFormal},
		{"Starbucks Anfa", "Café", records.SectorFormal},
		{"cafe", "Café", records.SectorFormal},
		{"Kiosque", "Kiosque", records.SectorInformal},
		{"Paulette", "Supermarché", records.SectorFormal},
		{"Unknown Mart", "Supermarché", records.SectorFormal},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			category, sector := c.Classify(tt.label, records.SourceSimulatedFeed)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.sector, sector)
		})
	}
}

func TestClassifyLegacy(t *testing.T) {
	c := newClassifier(t)

	category, sector := c.Classify("epicerie", records.SourceLegacy)
	assert.Equal(t, "Épicerie", category)
	assert.Equal(t, records.SectorInformal, sector)

	category, sector = c.Classify("Hammam", records.SourceLegacy)
	assert.Equal(t, "Hammam", category)
	assert.Equal(t, records.SectorUnclassified, sector)

	category, sector = c.Classify(" ", records.SourceLegacy)
	assert.Equal(t, "N/A", category)
	assert.Equal(t, records.SectorUnclassified, sector)
}

func TestClassifyIsTotal(t *testing.T) {
	c := newClassifier(t)
	inputs := []string{"", "=", "shop=", "amenity=?", "🛒", "x=y=z", "Non classifié", "N/A", "\x00"}
	paths := append(records.SourceTags(), records.SourceTag("other"))

	for _, path := range paths {
		for _, in := range inputs {
			assert.NotPanics(t, func() {
				category, sector := c.Classify(in, path)
				assert.NotEmpty(t, category)
				assert.True(t, sector.IsValid())
				if path != records.SourceLegacy && path.IsValid() {
					assert.NotEqual(t, records.SectorUnclassified, sector)
				}
			})
		}
	}
}

func TestSector(t *testing.T) {
	c := newClassifier(t)
	assert.Equal(t, records.SectorInformal, c.Sector("Boutique de confiserie"))
	assert.Equal(t, records.SectorFormal, c.Sector("magasin BIO"))
	assert.Equal(t, records.SectorUnclassified, c.Sector("Hammam"))
	assert.True(t, c.Known("Kiosque"))
	assert.False(t, c.Known("Hammam"))
}
