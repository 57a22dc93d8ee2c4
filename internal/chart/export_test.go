package chart

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAspectRows(t *testing.T) {
	s := testSnapshot()
	s.Aspects[0].Separation = 90.5

	rows := AspectRows(s)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	if rows[0].Separation != "90°30'0\"" {
		t.Errorf("row 0 separation = %q", rows[0].Separation)
	}
	if rows[1].Resolved || rows[1].Separation != "-" {
		t.Errorf("row 1 = %+v, want unresolved with no separation", rows[1])
	}
	// Sun 10, Mars 190: computed.
	if !rows[2].Resolved || rows[2].Separation != "180°0'0\"" {
		t.Errorf("row 2 = %+v", rows[2])
	}
	if rows[2].Color != "#9467BD" {
		t.Errorf("row 2 colour = %s", rows[2].Color)
	}
}

func TestFormatPosition(t *testing.T) {
	tests := []struct {
		name string
		body Body
		want string
	}{
		{"degrees only", Body{Angle: 135, Degree: Float(15), Sign: "Leo"}, "15° Leo"},
		{"full dms", Body{Degree: Float(12), Minute: Float(15), Second: Float(27), Sign: "Leo"}, "12°15'27\" Leo"},
		{"derived", Body{Angle: 45.5}, "15.5°"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPosition(tt.body); got != tt.want {
				t.Errorf("FormatPosition = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteAspectTable(t *testing.T) {
	var buf bytes.Buffer
	WriteAspectTable(&buf, testSnapshot())
	out := buf.String()

	if !strings.Contains(out, "(not drawn)") {
		t.Error("expected unresolved aspect note")
	}
	if !strings.Contains(out, "Total: 3 aspects, 1 not drawn") {
		t.Errorf("missing total line in:\n%s", out)
	}
}

func TestWriteAspectTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteAspectTable(&buf, &Snapshot{})
	if !strings.Contains(buf.String(), "No aspects") {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteSummary(t *testing.T) {
	s := testSnapshot()
	s.Name = "Ada"
	s.Date, s.Time, s.Place = "1815-12-10", "13:00", "London"
	s.Warning = "approximate time"

	var buf bytes.Buffer
	WriteSummary(&buf, s)
	out := buf.String()

	if header, _, _ := strings.Cut(out, "\n"); header != "Ada - 1815-12-10 13:00, London" {
		t.Errorf("summary header = %q", header)
	}

	for _, want := range []string{"Ada", "Sun", "Mars", "Aspects", "Warning: approximate time"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestExportSnapshot_WriteJSON(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	exp := ExportSnapshot(testSnapshot(), at)

	var buf bytes.Buffer
	if err := exp.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"exported_at", "chart", "positions", "aspect_table"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestTruncateStr(t *testing.T) {
	if got := truncateStr("Chiron", 14); got != "Chiron" {
		t.Errorf("got %q", got)
	}
	if got := truncateStr("Pars Fortunae Major", 8); got != "Pars F.." {
		t.Errorf("got %q", got)
	}
	if got := truncateStr("☉☽♂♀", 3); got != "☉☽♂" {
		t.Errorf("got %q", got)
	}
}
