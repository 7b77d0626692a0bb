package location

import "strings"

// mapLinks maps a property model name to its Google Maps link. Several
// models share a lot cluster and therefore a pin.
var mapLinks = map[string]string{
	"Ceiba":     "https://www.google.com/maps?q=19.0319,-98.2063",
	"Eucalipto": "https://www.google.com/maps?q=19.0319,-98.2063",
	"Cedro":     "https://www.google.com/maps?q=19.0319,-98.2063",
	"Abeto":     "https://www.google.com/maps?q=19.0325,-98.2070",
	"Fresno":    "https://www.google.com/maps?q=19.0325,-98.2070",
	"Roble":     "https://www.google.com/maps?q=19.0325,-98.2070",
	"Madroño":   "https://www.google.com/maps?q=19.0330,-98.2075",
	"Avellano":  "https://www.google.com/maps?q=19.0330,-98.2075",
	"Lavanda":   "https://www.google.com/maps?q=19.0315,-98.2055",
	"Tulipán":   "https://www.google.com/maps?q=19.0315,-98.2055",
	"Azalea":    "https://www.google.com/maps?q=19.0315,-98.2055",
	"Almendro":  "https://www.google.com/maps?q=19.0340,-98.2080",
	"Olivo":     "https://www.google.com/maps?q=19.0340,-98.2080",
	"Girasol":   "https://www.google.com/maps?q=19.0310,-98.2050",
	"Gardenia":  "https://www.google.com/maps?q=19.0310,-98.2050",
	"Halcón":    "https://www.google.com/maps?q=19.0450,-98.1850",
	"Águila":    "https://www.google.com/maps?q=19.0450,-98.1850",
	"Sauce":     "https://www.google.com/maps?q=19.0460,-98.1860",
	"Nogal":     "https://www.google.com/maps?q=19.0460,-98.1860",
	"Orquídea":  "https://www.google.com/maps?q=19.0200,-98.2200",
	"Dalia":     "https://www.google.com/maps?q=19.0200,-98.2200",
}

// Resolve returns the maps link for a property. The model key is the first
// whitespace-delimited token of the property name ("Ceiba 24 Premium" → "Ceiba").
func Resolve(propertyName string) (string, bool) {
	fields := strings.Fields(propertyName)
	if len(fields) == 0 {
		return "", false
	}
	link, ok := mapLinks[fields[0]]
	return link, ok
}
