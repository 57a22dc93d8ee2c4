package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/litescript/ls-natal/internal/chart"
)

// ErrNoChart is returned when a payload holds neither bodies nor aspects.
var ErrNoChart = errors.New("payload contains no chart data")

// DecodeOptions controls post-processing of a decoded payload.
type DecodeOptions struct {
	// DetectAspects computes aspects from body positions when the payload
	// carries none.
	DetectAspects bool
}

// payload covers every response shape the chart service has produced, plus
// chart files written by the export command (wrapped under "chart").
type payload struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Place    string `json:"place"`
	Timezone string `json:"timezone"`

	Bodies  []wireBody `json:"bodies"`
	Planets []wireBody `json:"planets"`

	Aspects      []wireAspect `json:"aspects"`
	AspectsTable []wireAspect `json:"aspects_table"`
	AspectsJSON  []wireAspect `json:"aspects_json"`

	Houses []float64 `json:"houses"`

	ChartURL         *string  `json:"chart_url"`
	Interpretation   string   `json:"interpretation"`
	AIInterpretation string   `json:"ai_interpretation"`
	Warning          string   `json:"warning"`
	Error            string   `json:"error"`
	Message          string   `json:"message"`
	ExportedSnapshot *payload `json:"chart"`
}

type wireBody struct {
	Name   string   `json:"name"`
	Symbol string   `json:"symbol"`
	Angle  float64  `json:"angle"`
	Sign   string   `json:"sign"`
	Degree *float64 `json:"degree"`
	Minute *float64 `json:"minute"`
	Second *float64 `json:"second"`
	House  *int     `json:"house"`
}

type wireAspect struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Planet1    string  `json:"planet1"`
	Planet2    string  `json:"planet2"`
	Type       string  `json:"type"`
	Angle      float64 `json:"angle"`
	Separation float64 `json:"separation"`
}

// DecodeSnapshot reads a chart payload, normalises it and validates the
// result.
func DecodeSnapshot(r io.Reader, opts DecodeOptions) (*chart.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return decodeBytes(data, opts)
}

func decodeBytes(data []byte, opts DecodeOptions) (*chart.Snapshot, error) {
	var p payload
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if p.ExportedSnapshot != nil {
		p = *p.ExportedSnapshot
	}
	if p.Error != "" {
		return nil, &APIError{Message: p.Error, Detail: p.Message}
	}

	snap := p.snapshot()
	if len(snap.Bodies) == 0 && len(snap.Aspects) == 0 {
		return nil, ErrNoChart
	}

	snap.Normalize()
	if snap.HasHouses() {
		snap.AssignHouses()
	}
	if opts.DetectAspects && len(snap.Aspects) == 0 {
		snap.Aspects = chart.DetectAspects(snap.Bodies, nil)
	}

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart: %w", err)
	}
	return snap, nil
}

func (p *payload) snapshot() *chart.Snapshot {
	s := &chart.Snapshot{
		Name:           p.Name,
		Date:           p.Date,
		Time:           p.Time,
		Place:          p.Place,
		Timezone:       p.Timezone,
		Houses:         p.Houses,
		Interpretation: firstNonEmpty(p.Interpretation, p.AIInterpretation),
		Warning:        p.Warning,
	}
	if p.ChartURL != nil {
		s.ChartURL = *p.ChartURL
	}

	bodies := p.Bodies
	if len(bodies) == 0 {
		bodies = p.Planets
	}
	s.Bodies = make([]chart.Body, 0, len(bodies))
	for _, b := range bodies {
		s.Bodies = append(s.Bodies, chart.Body{
			Name:   b.Name,
			Symbol: b.Symbol,
			Angle:  b.Angle,
			Sign:   b.Sign,
			Degree: b.Degree,
			Minute: b.Minute,
			Second: b.Second,
			House:  b.House,
		})
	}

	aspects := p.Aspects
	switch {
	case len(aspects) == 0 && len(p.AspectsTable) > 0:
		aspects = p.AspectsTable
	case len(aspects) == 0:
		aspects = p.AspectsJSON
	}
	s.Aspects = make([]chart.Aspect, 0, len(aspects))
	for _, a := range aspects {
		sep := a.Separation
		if sep == 0 {
			sep = a.Angle
		}
		s.Aspects = append(s.Aspects, chart.Aspect{
			From:       firstNonEmpty(a.From, a.Planet1),
			To:         firstNonEmpty(a.To, a.Planet2),
			Type:       chart.AspectType(a.Type),
			Separation: sep,
		})
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
