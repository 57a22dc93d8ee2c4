// Package wheel projects a natal chart snapshot onto a circular wheel: the
// ordered drawing primitives (wedges, dividers, rings, labels, aspect lines,
// body markers, axes) plus hover and hit-test state for tooltips.
//
// Convention: 0° sits at the top of the wheel and angles increase clockwise.
// Every primitive uses the same projection, so bodies, aspects, cusps and the
// ASC/MC/DSC/IC axes stay mutually consistent.
package wheel

// Config holds the tunable proportions of the wheel. Fractions are relative
// to the wheel radius unless noted otherwise.
type Config struct {
	MaxSize        float64 `mapstructure:"max_size" json:"max_size"`               // upper bound on the square edge, px
	RadiusFraction float64 `mapstructure:"radius_fraction" json:"radius_fraction"` // radius as a fraction of size
	AngleOffset    float64 `mapstructure:"angle_offset" json:"angle_offset"`       // degrees added to every angle

	HouseRingFraction   float64 `mapstructure:"house_ring_fraction" json:"house_ring_fraction"`
	AspectFraction      float64 `mapstructure:"aspect_fraction" json:"aspect_fraction"`
	MarkerFraction      float64 `mapstructure:"marker_fraction" json:"marker_fraction"`
	HouseNumberFraction float64 `mapstructure:"house_number_fraction" json:"house_number_fraction"`

	ZodiacLabelOffset float64 `mapstructure:"zodiac_label_offset" json:"zodiac_label_offset"` // px outside the outer ring
	AxisLabelOffset   float64 `mapstructure:"axis_label_offset" json:"axis_label_offset"`     // px outside the outer ring

	// Relative to size, not radius.
	MarkerSizeFraction float64 `mapstructure:"marker_size_fraction" json:"marker_size_fraction"`
	HubSizeFraction    float64 `mapstructure:"hub_size_fraction" json:"hub_size_fraction"`

	ShowHub            bool    `mapstructure:"show_hub" json:"show_hub"`
	AspectHitTolerance float64 `mapstructure:"aspect_hit_tolerance" json:"aspect_hit_tolerance"` // px
}

// Default proportions.
const (
	DefaultMaxSize             = 500.0
	DefaultRadiusFraction      = 0.42
	DefaultHouseRingFraction   = 0.8
	DefaultAspectFraction      = 0.8
	DefaultMarkerFraction      = 0.9
	DefaultHouseNumberFraction = 0.75
	DefaultZodiacLabelOffset   = 18.0
	DefaultAxisLabelOffset     = 40.0
	DefaultMarkerSizeFraction  = 0.025
	DefaultHubSizeFraction     = 0.08
	DefaultAspectHitTolerance  = 4.0
)

// DefaultConfig returns the standard wheel proportions.
func DefaultConfig() Config {
	return Config{
		MaxSize:             DefaultMaxSize,
		RadiusFraction:      DefaultRadiusFraction,
		HouseRingFraction:   DefaultHouseRingFraction,
		AspectFraction:      DefaultAspectFraction,
		MarkerFraction:      DefaultMarkerFraction,
		HouseNumberFraction: DefaultHouseNumberFraction,
		ZodiacLabelOffset:   DefaultZodiacLabelOffset,
		AxisLabelOffset:     DefaultAxisLabelOffset,
		MarkerSizeFraction:  DefaultMarkerSizeFraction,
		HubSizeFraction:     DefaultHubSizeFraction,
		ShowHub:             true,
		AspectHitTolerance:  DefaultAspectHitTolerance,
	}
}

// withDefaults replaces non-positive proportions with their defaults.
// AngleOffset and ShowHub are taken as given.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	fill := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&c.MaxSize, def.MaxSize)
	fill(&c.RadiusFraction, def.RadiusFraction)
	fill(&c.HouseRingFraction, def.HouseRingFraction)
	fill(&c.AspectFraction, def.AspectFraction)
	fill(&c.MarkerFraction, def.MarkerFraction)
	fill(&c.HouseNumberFraction, def.HouseNumberFraction)
	fill(&c.ZodiacLabelOffset, def.ZodiacLabelOffset)
	fill(&c.AxisLabelOffset, def.AxisLabelOffset)
	fill(&c.MarkerSizeFraction, def.MarkerSizeFraction)
	fill(&c.HubSizeFraction, def.HubSizeFraction)
	fill(&c.AspectHitTolerance, def.AspectHitTolerance)
	return c
}
