// Package theme tracks light/dark mode and the accent colour override,
// resolving both into a single set of style tokens. The accent override is
// merged over the base palette with explicit precedence, so switching
// palettes never clobbers a user-chosen accent.
package theme

// Mode is a presentation mode.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
	// ModeSystem resolves to light or dark at apply time.
	ModeSystem Mode = "system"
)

// Valid reports whether m is a concrete, applicable mode.
func (m Mode) Valid() bool {
	return m == ModeLight || m == ModeDark
}

// Tokens maps style token names to values. Values are hex colours,
// rgba() strings, or composite shadow definitions.
type Tokens map[string]string

// Token names shared by palettes and the accent override.
const (
	TokenPrimary           = "primary"
	TokenPrimaryHover      = "primary-hover"
	TokenPrimaryLight      = "primary-light"
	TokenBorderFocus       = "border-focus"
	TokenShadowInputFocus  = "shadow-input-focus"
	TokenSidebarActiveBg   = "sidebar-active-bg"
	TokenSidebarActiveText = "sidebar-active-color"
	TokenShadowCard        = "shadow-card"

	TokenBackground = "background"
	TokenForeground = "foreground"
	TokenSurface    = "surface"
	TokenMuted      = "muted"
	TokenBorder     = "border-color"
	TokenDanger     = "danger"
	TokenSuccess    = "success"
)

// Default accents per mode, used when no override is installed.
const (
	DefaultAccentLight = "#635bff"
	DefaultAccentDark  = "#818cf8"
)

// basePalette returns the built-in token set for a mode.
func basePalette(mode Mode) Tokens {
	switch mode {
	case ModeDark:
		return Tokens{
			TokenBackground:        "#0f1117",
			TokenForeground:        "#e5e7eb",
			TokenSurface:           "#161a23",
			TokenMuted:             "#6b7280",
			TokenBorder:            "#262b38",
			TokenDanger:            "#f43f5e",
			TokenSuccess:           "#10b981",
			TokenPrimary:           DefaultAccentDark,
			TokenPrimaryHover:      "#6d78f4",
			TokenPrimaryLight:      "rgba(129,140,248,0.12)",
			TokenBorderFocus:       DefaultAccentDark,
			TokenShadowInputFocus:  "0 0 0 4px rgba(129,140,248,0.18)",
			TokenSidebarActiveBg:   "rgba(129,140,248,0.15)",
			TokenSidebarActiveText: DefaultAccentDark,
			TokenShadowCard:        "0 0 0 1px rgba(0,0,0,0.30), 0 4px 6px -1px rgba(0,0,0,0.25)",
		}
	default:
		return Tokens{
			TokenBackground:        "#ffffff",
			TokenForeground:        "#111827",
			TokenSurface:           "#f9fafb",
			TokenMuted:             "#6b7280",
			TokenBorder:            "#e5e7eb",
			TokenDanger:            "#f43f5e",
			TokenSuccess:           "#10b981",
			TokenPrimary:           DefaultAccentLight,
			TokenPrimaryHover:      "#4f47eb",
			TokenPrimaryLight:      "rgba(99,91,255,0.12)",
			TokenBorderFocus:       DefaultAccentLight,
			TokenShadowInputFocus:  "0 0 0 4px rgba(99,91,255,0.18)",
			TokenSidebarActiveBg:   "rgba(99,91,255,0.15)",
			TokenSidebarActiveText: DefaultAccentLight,
			TokenShadowCard:        "0 0 0 1px rgba(0,0,0,0.04), 0 4px 6px -1px rgba(0,0,0,0.05)",
		}
	}
}

// Resolve merges the override tokens over the base palette for a mode.
// Override entries always win; the base palette only fills the gaps.
func Resolve(mode Mode, override Tokens) Tokens {
	resolved := basePalette(mode)
	for k, v := range override {
		resolved[k] = v
	}
	return resolved
}
