package records

import "strings"

// FieldType is the declared type of a canonical column.
type FieldType int

// Field types.
const (
	FieldString FieldType = iota
	FieldFloat
	FieldEnum
)

// Field describes one column of the canonical table.
type Field struct {
	// Name is the header written to output tables.
	Name string
	// Type is the declared value type.
	Type FieldType
	// Aliases are other headers accepted for this column on input, compared
	// case-insensitively.
	Aliases []string
}

// Matches reports whether header names this field.
func (f Field) Matches(header string) bool {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, f.Name) {
		return true
	}
	for _, alias := range f.Aliases {
		if strings.EqualFold(header, alias) {
			return true
		}
	}
	return false
}

// Canonical column names.
const (
	ColZone      = "Zone"
	ColName      = "Name"
	ColCategory  = "Category"
	ColSector    = "Sector"
	ColAddress   = "Address"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
	ColImageRef  = "ImageRef"
	ColSourceTag = "SourceTag"
)

// Schema is the ordered canonical schema.
var Schema = []Field{
	{Name: ColZone, Type: FieldString},
	{Name: ColName, Type: FieldString, Aliases: []string{"Nom", "name"}},
	{Name: ColCategory, Type: FieldString, Aliases: []string{"Catégorie", "Categorie", "category"}},
	{Name: ColSector, Type: FieldEnum, Aliases: []string{"Statut", "Secteur", "sector", "status"}},
	{Name: ColAddress, Type: FieldString, Aliases: []string{"Adresse", "address"}},
	{Name: ColLatitude, Type: FieldFloat, Aliases: []string{"lat"}},
	{Name: ColLongitude, Type: FieldFloat, Aliases: []string{"lon", "lng"}},
	{Name: ColImageRef, Type: FieldString, Aliases: []string{"Image", "image"}},
	{Name: ColSourceTag, Type: FieldEnum, Aliases: []string{"Source"}},
}

// Headers returns the canonical column names in order.
func Headers() []string {
	headers := make([]string, len(Schema))
	for i, f := range Schema {
		headers[i] = f.Name
	}
	return headers
}

// Lookup returns the schema field with the given canonical name.
func Lookup(name string) (Field, bool) {
	for _, f := range Schema {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
