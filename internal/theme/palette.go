package theme

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/nhle/missionboard/internal/model"
)

// Text colors chosen by TextColor.
const (
	TextOnLight = "#2C4A52"
	TextOnDark  = "#FFFFFF"
)

// Fixed status colors.
const (
	SuccessColor = "#6BA87A"
	ErrorColor   = "#C87A6A"
)

// Palette is the full set of colors derived from a user's four preference
// colors.
type Palette struct {
	Primary      string `json:"primary"`
	PrimaryLight string `json:"primary_light"`
	PrimaryDark  string `json:"primary_dark"`

	Accent      string `json:"accent"`
	AccentLight string `json:"accent_light"`
	AccentDark  string `json:"accent_dark"`

	Base     string `json:"background_base"`
	BaseDark string `json:"background_base_dark"`
	Surface  string `json:"background_surface"`
	Elevated string `json:"background_elevated"`

	TextPrimary   string `json:"text_primary"`
	TextSecondary string `json:"text_secondary"`
	TextTertiary  string `json:"text_tertiary"`
	TextOnSurface string `json:"text_on_surface"`

	Success string `json:"success"`
	Error   string `json:"error"`
}

// FromPreferences derives a Palette. Empty preference colors fall back to
// the defaults.
func FromPreferences(p model.UserPreferences) (Palette, error) {
	primary := orDefault(p.PrimaryColor, model.DefaultPrimaryColor)
	base := orDefault(p.BackgroundBaseColor, model.DefaultBackgroundBaseColor)
	surface := orDefault(p.BackgroundSurfaceColor, model.DefaultBackgroundSurfaceColor)
	accent := orDefault(p.AccentColor, model.DefaultAccentColor)

	for _, c := range []string{primary, base, surface, accent} {
		if _, err := colorful.Hex(c); err != nil {
			return Palette{}, fmt.Errorf("parsing color %q: %w", c, err)
		}
	}

	// Inputs are valid hex, so the derivations below cannot fail.
	return Palette{
		Primary:      primary,
		PrimaryLight: must(Lighten(primary, 0.2)),
		PrimaryDark:  must(Darken(primary, 0.15)),

		Accent:      accent,
		AccentLight: must(Lighten(accent, 0.15)),
		AccentDark:  must(Darken(accent, 0.15)),

		Base:     base,
		BaseDark: must(Darken(base, 0.1)),
		Surface:  surface,
		Elevated: must(Darken(surface, 0.1)),

		TextPrimary:   must(TextColor(base)),
		TextSecondary: must(Darken(primary, 0.3)),
		TextTertiary:  must(Darken(primary, 0.5)),
		TextOnSurface: must(TextColor(surface)),

		Success: SuccessColor,
		Error:   ErrorColor,
	}, nil
}

// Default returns the palette for the default preference colors.
func Default() Palette {
	pal, _ := FromPreferences(model.UserPreferences{})
	return pal
}

// Lighten moves each channel of hex toward 255 by pct of the remaining
// distance, truncating to whole channel values.
func Lighten(hex string, pct float64) (string, error) {
	return mapChannels(hex, func(c float64) float64 {
		return math.Min(255, math.Floor(c+(255-c)*pct))
	})
}

// Darken scales each channel of hex by (1 - pct), truncating to whole
// channel values.
func Darken(hex string, pct float64) (string, error) {
	return mapChannels(hex, func(c float64) float64 {
		return math.Max(0, math.Floor(c*(1-pct)))
	})
}

// TextColor picks dark or light text for legibility on bg, using perceived
// brightness (ITU-R BT.601 weights).
func TextColor(bg string) (string, error) {
	c, err := colorful.Hex(bg)
	if err != nil {
		return "", fmt.Errorf("parsing color %q: %w", bg, err)
	}
	r, g, b := c.RGB255()
	brightness := (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
	if brightness > 128 {
		return TextOnLight, nil
	}
	return TextOnDark, nil
}

func mapChannels(hex string, fn func(float64) float64) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("parsing color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	out := colorful.Color{
		R: fn(float64(r)) / 255,
		G: fn(float64(g)) / 255,
		B: fn(float64(b)) / 255,
	}
	return out.Hex(), nil
}

func must(s string, _ error) string { return s }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
