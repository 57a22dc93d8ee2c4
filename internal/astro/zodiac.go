package astro

import "strings"

// Element is the classical element of a zodiac sign.
type Element string

const (
	ElementFire  Element = "fire"
	ElementEarth Element = "earth"
	ElementAir   Element = "air"
	ElementWater Element = "water"
)

// Sign describes one 30° segment of the zodiac.
type Sign struct {
	Name    string
	Glyph   string
	Element Element
}

// Signs lists the zodiac in ecliptic order starting at 0° (Aries).
var Signs = [12]Sign{
	{"Aries", "♈", ElementFire},
	{"Taurus", "♉", ElementEarth},
	{"Gemini", "♊", ElementAir},
	{"Cancer", "♋", ElementWater},
	{"Leo", "♌", ElementFire},
	{"Virgo", "♍", ElementEarth},
	{"Libra", "♎", ElementAir},
	{"Scorpio", "♏", ElementWater},
	{"Sagittarius", "♐", ElementFire},
	{"Capricorn", "♑", ElementEarth},
	{"Aquarius", "♒", ElementAir},
	{"Pisces", "♓", ElementWater},
}

// SignIndex returns the index into Signs for an ecliptic longitude.
func SignIndex(angle float64) int {
	idx := int(NormalizeDeg(angle) / DegreesPerSign)
	if idx > 11 {
		idx = 11
	}
	return idx
}

// SignOf returns the zodiac sign containing an ecliptic longitude.
func SignOf(angle float64) Sign {
	return Signs[SignIndex(angle)]
}

// SignPosition splits a longitude into its sign and the rounded D°M'S"
// position inside that sign. Rounding is done on the full longitude, so a
// carry into the next degree also moves the sign: 59.9999999° is 0°0'0" Gemini.
func SignPosition(angle float64) (Sign, DMS) {
	v := SplitDMS(NormalizeDeg(angle))
	v.Degrees %= 360
	idx := v.Degrees / int(DegreesPerSign)
	v.Degrees %= int(DegreesPerSign)
	return Signs[idx], v
}

// LookupSign finds a sign by name (case-insensitive) or glyph.
func LookupSign(s string) (Sign, bool) {
	s = strings.TrimSpace(s)
	for _, sign := range Signs {
		if strings.EqualFold(sign.Name, s) || sign.Glyph == s {
			return sign, true
		}
	}
	return Sign{}, false
}

// PlanetGlyphs maps the body names used by the chart service to display glyphs.
var PlanetGlyphs = map[string]string{
	"Sun":          "☉",
	"Moon":         "☽",
	"Mercury":      "☿",
	"Venus":        "♀",
	"Mars":         "♂",
	"Jupiter":      "♃",
	"Saturn":       "♄",
	"Uranus":       "♅",
	"Neptune":      "♆",
	"Pluto":        "♇",
	"North Node":   "☊",
	"South Node":   "☋",
	"Chiron":       "⚷",
	"Lilith":       "⚸",
	"Ceres":        "⚳",
	"Pallas":       "⚴",
	"Juno":         "⚵",
	"Vesta":        "⚶",
	"Pars Fortuna": "⊗",
}

// GlyphFor returns the glyph for a body name, falling back to its first letter.
func GlyphFor(name string) string {
	if g, ok := PlanetGlyphs[name]; ok {
		return g
	}
	for _, r := range name {
		return string(r)
	}
	return "?"
}
