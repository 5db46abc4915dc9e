package theme

import (
	"errors"
	"fmt"
)

// ErrInvalidHex is returned for accent values that are not 6-digit
// "#rrggbb" colours. Malformed input is rejected at the boundary instead
// of propagating garbage into derived tokens.
var ErrInvalidHex = errors.New("theme: invalid hex colour")

// ParseHex parses a "#rrggbb" colour into its channels.
func ParseHex(hex string) (r, g, b int, err error) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	for i := 1; i < 7; i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
		}
		switch {
		case i < 3:
			r = r<<4 | d
		case i < 5:
			g = g<<4 | d
		default:
			b = b<<4 | d
		}
	}
	return r, g, b, nil
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// Shade darkens (negative amount) or lightens (positive) a hex colour,
// clamping each channel to [0,255].
func Shade(hex string, amount int) (string, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(r+amount), clamp(g+amount), clamp(b+amount)), nil
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// AccentOverride derives the full override token set from a single accent
// colour: the hover shade and the translucent variants at the fixed alphas
// used across the app.
func AccentOverride(hex string) (Tokens, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return nil, err
	}
	hover, err := Shade(hex, -20)
	if err != nil {
		return nil, err
	}

	return Tokens{
		TokenPrimary:           hex,
		TokenPrimaryHover:      hover,
		TokenPrimaryLight:      fmt.Sprintf("rgba(%d,%d,%d,0.12)", r, g, b),
		TokenBorderFocus:       hex,
		TokenShadowInputFocus:  fmt.Sprintf("0 0 0 4px rgba(%d,%d,%d,0.18)", r, g, b),
		TokenSidebarActiveBg:   fmt.Sprintf("rgba(%d,%d,%d,0.15)", r, g, b),
		TokenSidebarActiveText: hex,
		TokenShadowCard:        fmt.Sprintf("0 0 0 1px rgba(0,0,0,0.04), 0 4px 6px -1px rgba(0,0,0,0.05), 0 20px 40px -15px rgba(%d,%d,%d,0.12)", r, g, b),
	}, nil
}

// AccentSwatch is a named accent colour offered in settings.
type AccentSwatch struct {
	Label string
	Value string
}

// Accents is the palette offered in the settings view.
var Accents = []AccentSwatch{
	{Label: "Indigo", Value: "#635bff"},
	{Label: "Blue", Value: "#3b82f6"},
	{Label: "Violet", Value: "#8b5cf6"},
	{Label: "Emerald", Value: "#10b981"},
	{Label: "Rose", Value: "#f43f5e"},
	{Label: "Amber", Value: "#f59e0b"},
	{Label: "Cyan", Value: "#06b6d4"},
	{Label: "Pink", Value: "#ec4899"},
}
