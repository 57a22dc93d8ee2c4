package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-natal/internal/astro"
)

// AspectRow is one row of the aspect table.
type AspectRow struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Type       AspectType `json:"type"`
	Separation string     `json:"separation"`
	Color      string     `json:"color"`
	Resolved   bool       `json:"resolved"`
}

// AspectRows builds table rows for every aspect, resolvable or not. When the
// service did not report a separation it is computed from the body angles.
func AspectRows(s *Snapshot) []AspectRow {
	if s == nil {
		return nil
	}

	idx := s.BodyIndex()
	rows := make([]AspectRow, 0, len(s.Aspects))
	for _, a := range s.Aspects {
		fi, okFrom := idx[a.From]
		ti, okTo := idx[a.To]
		resolved := okFrom && okTo

		sep := "-"
		switch {
		case a.Separation > 0:
			sep = astro.FormatDMS(a.Separation)
		case resolved:
			sep = astro.FormatDMS(astro.Separation(s.Bodies[fi].Angle, s.Bodies[ti].Angle))
		}

		rows = append(rows, AspectRow{
			From:       a.From,
			To:         a.To,
			Type:       a.Type,
			Separation: sep,
			Color:      a.Type.Color(),
			Resolved:   resolved,
		})
	}
	return rows
}

// BodyRow is one row of the positions table.
type BodyRow struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Longitude string `json:"longitude"`
	Position  string `json:"position"`
	House     string `json:"house"`
}

// BodyRows builds the positions table for a snapshot.
func BodyRows(s *Snapshot) []BodyRow {
	if s == nil {
		return nil
	}
	rows := make([]BodyRow, 0, len(s.Bodies))
	for _, b := range s.Bodies {
		house := "-"
		if b.House != nil {
			house = fmt.Sprintf("H%d", *b.House)
		}
		rows = append(rows, BodyRow{
			Name:      b.Name,
			Symbol:    b.Symbol,
			Longitude: astro.FormatDMS(b.Angle),
			Position:  FormatPosition(b),
			House:     house,
		})
	}
	return rows
}

// FormatPosition renders a body's position within its sign, e.g.
// "12°15'27\" Leo". Minutes and seconds appear only when present.
func FormatPosition(b Body) string {
	var pos string
	if b.Degree != nil {
		pos = fmt.Sprintf("%.0f°", *b.Degree)
		if b.Minute != nil {
			pos += fmt.Sprintf("%.0f'", *b.Minute)
			if b.Second != nil {
				pos += fmt.Sprintf("%.0f\"", *b.Second)
			}
		}
	} else {
		pos = fmt.Sprintf("%.1f°", astro.WithinSign(b.Angle))
	}
	if b.Sign != "" {
		pos += " " + b.Sign
	}
	return pos
}

// WriteAspectTable writes the aspect table as text.
func WriteAspectTable(w io.Writer, s *Snapshot) {
	rows := AspectRows(s)

	fmt.Fprintln(w, "Aspects")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No aspects")
		return
	}

	fmt.Fprintf(w, "%-14s %-14s %-12s %-12s %s\n", "Body 1", "Body 2", "Type", "Angle", "")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	skipped := 0
	for _, r := range rows {
		note := ""
		if !r.Resolved {
			note = "(not drawn)"
			skipped++
		}
		fmt.Fprintf(w, "%-14s %-14s %-12s %-12s %s\n",
			truncateStr(r.From, 14),
			truncateStr(r.To, 14),
			r.Type,
			r.Separation,
			note,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d aspects", len(rows))
	if skipped > 0 {
		fmt.Fprintf(w, ", %d not drawn", skipped)
	}
	fmt.Fprintln(w)
}

// WriteSummary writes chart metadata, positions and aspects as text.
func WriteSummary(w io.Writer, s *Snapshot) {
	if s == nil {
		fmt.Fprintln(w, "No chart")
		return
	}

	title := s.Name
	if title == "" {
		title = "Natal chart"
	}
	fmt.Fprintf(w, "%s - %s %s, %s", title, s.Date, s.Time, s.Place)
	if s.Timezone != "" {
		fmt.Fprintf(w, " (%s)", s.Timezone)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, r := range BodyRows(s) {
		fmt.Fprintf(w, "%-2s %-14s %-12s %-20s %s\n",
			r.Symbol, truncateStr(r.Name, 14), r.Longitude, r.Position, r.House)
	}
	fmt.Fprintln(w)

	WriteAspectTable(w, s)

	if s.Warning != "" {
		fmt.Fprintf(w, "\nWarning: %s\n", s.Warning)
	}
}

// SnapshotExport is the JSON-serializable form of a chart with derived rows.
type SnapshotExport struct {
	ExportedAt time.Time   `json:"exported_at"`
	Chart      *Snapshot   `json:"chart"`
	Positions  []BodyRow   `json:"positions"`
	Aspects    []AspectRow `json:"aspect_table"`
}

// ExportSnapshot converts a snapshot to its exportable form.
func ExportSnapshot(s *Snapshot, exportedAt time.Time) *SnapshotExport {
	return &SnapshotExport{
		ExportedAt: exportedAt,
		Chart:      s,
		Positions:  BodyRows(s),
		Aspects:    AspectRows(s),
	}
}

// WriteJSON writes the export as indented JSON.
func (e *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
