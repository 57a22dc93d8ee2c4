package astro

import "testing"

func TestSignIndex(t *testing.T) {
	tests := []struct {
		angle float64
		want  string
	}{
		{0, "Aries"},
		{29.999, "Aries"},
		{30, "Taurus"},
		{254.3, "Sagittarius"},
		{359.9, "Pisces"},
		{360, "Aries"},
		{-1, "Pisces"},
	}

	for _, tt := range tests {
		if got := SignOf(tt.angle).Name; got != tt.want {
			t.Errorf("SignOf(%v) = %s, want %s", tt.angle, got, tt.want)
		}
	}
}

func TestLookupSign(t *testing.T) {
	if s, ok := LookupSign("scorpio"); !ok || s.Glyph != "♏" {
		t.Errorf("LookupSign(scorpio) = %+v, %v", s, ok)
	}
	if s, ok := LookupSign("♌"); !ok || s.Name != "Leo" {
		t.Errorf("LookupSign(♌) = %+v, %v", s, ok)
	}
	if _, ok := LookupSign("Ophiuchus"); ok {
		t.Error("LookupSign(Ophiuchus) should not resolve")
	}
}

func TestGlyphFor(t *testing.T) {
	if got := GlyphFor("Moon"); got != "☽" {
		t.Errorf("GlyphFor(Moon) = %q", got)
	}
	if got := GlyphFor("Eris"); got != "E" {
		t.Errorf("GlyphFor(Eris) = %q, want E", got)
	}
	if got := GlyphFor(""); got != "?" {
		t.Errorf("GlyphFor(\"\") = %q, want ?", got)
	}
}

func TestSignPosition(t *testing.T) {
	tests := []struct {
		angle float64
		sign  string
		want  string
	}{
		{0, "Aries", `0°0'0"`},
		{135.25, "Leo", `15°15'0"`},
		{29.5, "Aries", `29°30'0"`},
		{59.9999999, "Gemini", `0°0'0"`},  // seconds carry into the next sign
		{359.9999999, "Aries", `0°0'0"`}, // and past 360
		{-0.5, "Pisces", `29°30'0"`},
	}

	for _, tt := range tests {
		sign, dms := SignPosition(tt.angle)
		if sign.Name != tt.sign || dms.String() != tt.want {
			t.Errorf("SignPosition(%v) = %s %s, want %s %s", tt.angle, dms, sign.Name, tt.want, tt.sign)
		}
		if dms.Degrees < 0 || dms.Degrees >= 30 {
			t.Errorf("SignPosition(%v) degrees = %d, want [0, 30)", tt.angle, dms.Degrees)
		}
	}
}
