// Package prefs is the preference store: named settings persisted as a
// single versioned JSON blob, merged shallowly over hardcoded defaults on
// load.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/store"
	"github.com/athenaeumhq/athenaeum/internal/theme"
)

// settingsKey versions the stored blob; bumping it abandons old settings.
const settingsKey = "appSettings_v1"

// Font sizes.
const (
	FontSmall  = "small"
	FontMedium = "medium"
	FontLarge  = "large"
)

// Default view modes.
const (
	ViewGrid = "grid"
	ViewList = "list"
)

// DateFormats are the selectable date render patterns.
var DateFormats = []string{"MMM D, YYYY", "DD/MM/YYYY", "YYYY-MM-DD"}

// Settings is the flat preference record. Unknown stored keys are carried
// in Extra so they survive a save without being acted upon.
type Settings struct {
	FontSize          string `json:"fontSize"`
	AccentColor       string `json:"accentColor"`
	NotifyOnReview    bool   `json:"notifyOnReview"`
	NotifyOnDownload  bool   `json:"notifyOnDownload"`
	WeeklyDigest      bool   `json:"weeklyDigest"`
	DefaultView       string `json:"defaultView"`
	DateFormat        string `json:"dateFormat"`
	DefaultBookStatus string `json:"defaultBookStatus"`
	Theme             string `json:"theme"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Defaults returns the hardcoded default settings.
func Defaults() Settings {
	return Settings{
		FontSize:          FontMedium,
		AccentColor:       theme.DefaultAccentLight,
		NotifyOnReview:    true,
		NotifyOnDownload:  false,
		WeeklyDigest:      false,
		DefaultView:       ViewGrid,
		DateFormat:        DateFormats[0],
		DefaultBookStatus: "draft",
		Theme:             string(theme.ModeSystem),
	}
}

// knownKeys are the JSON keys owned by Settings fields.
var knownKeys = map[string]bool{
	"fontSize": true, "accentColor": true, "notifyOnReview": true,
	"notifyOnDownload": true, "weeklyDigest": true, "defaultView": true,
	"dateFormat": true, "defaultBookStatus": true, "theme": true,
}

// FormatDate renders t according to the dateFormat setting.
func (s Settings) FormatDate(t time.Time) string {
	switch s.DateFormat {
	case "DD/MM/YYYY":
		return t.Format("02/01/2006")
	case "YYYY-MM-DD":
		return t.Format("2006-01-02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// FontPixels maps the fontSize setting to its pixel size, defaulting to
// medium for unknown values.
func (s Settings) FontPixels() int {
	switch s.FontSize {
	case FontSmall:
		return 14
	case FontLarge:
		return 18
	default:
		return 16
	}
}

// Applier runs when a dependent setting changes.
type Applier func(ctx context.Context, value string) error

// Store reads and writes settings. Appliers for theme, accent, and font
// size fire on Update when those specific keys change.
type Store struct {
	kv     *store.Store
	logger *zap.Logger

	onTheme    Applier
	onAccent   Applier
	onFontSize Applier
}

// Option configures a Store.
type Option func(*Store)

// WithThemeApplier registers the theme-change side effect, keeping the
// settings blob and the theme controller in step.
func WithThemeApplier(fn Applier) Option {
	return func(p *Store) { p.onTheme = fn }
}

// WithAccentApplier registers the accent-change side effect.
func WithAccentApplier(fn Applier) Option {
	return func(p *Store) { p.onAccent = fn }
}

// WithFontSizeApplier registers the font-size-change side effect.
func WithFontSizeApplier(fn Applier) Option {
	return func(p *Store) { p.onFontSize = fn }
}

// New creates a preference Store over the local key-value store.
func New(kv *store.Store, logger *zap.Logger, opts ...Option) *Store {
	p := &Store{kv: kv, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load returns the stored settings merged over defaults. Missing or corrupt
// stored data degrades to pure defaults; Load never fails.
func (p *Store) Load(ctx context.Context) Settings {
	defaults := Defaults()

	raw, err := p.kv.Get(ctx, settingsKey)
	if errors.Is(err, store.ErrNotFound) {
		return defaults
	}
	if err != nil {
		p.logger.Warn("reading settings failed, using defaults", zap.Error(err))
		return defaults
	}

	// Unmarshalling over the prefilled struct gives the shallow merge:
	// stored keys replace defaults, omitted keys keep them.
	s := defaults
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		p.logger.Warn("corrupt settings blob, using defaults", zap.Error(err))
		return Defaults()
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &m); err == nil {
		for k := range m {
			if knownKeys[k] {
				delete(m, k)
			}
		}
		if len(m) > 0 {
			s.Extra = m
		}
	}
	return s
}

// Save writes the full settings object back to storage, including any
// unknown keys carried in Extra.
func (p *Store) Save(ctx context.Context, s Settings) error {
	known, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(known, &m); err != nil {
		return fmt.Errorf("remarshal settings: %w", err)
	}
	for k, v := range s.Extra {
		if !knownKeys[k] {
			m[k] = v
		}
	}

	blob, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal settings blob: %w", err)
	}
	return p.kv.Set(ctx, settingsKey, string(blob))
}

// Update sets one key, persists the whole object, and returns the new
// settings. Unknown keys are stored but not acted upon. Changing theme,
// accentColor, or fontSize fires the registered applier.
func (p *Store) Update(ctx context.Context, key string, value any) (Settings, error) {
	s := p.Load(ctx)

	switch key {
	case "fontSize", "defaultView", "dateFormat", "defaultBookStatus", "theme":
		str, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("setting %q wants a string value", key)
		}
		switch key {
		case "fontSize":
			s.FontSize = str
		case "defaultView":
			s.DefaultView = str
		case "dateFormat":
			s.DateFormat = str
		case "defaultBookStatus":
			s.DefaultBookStatus = str
		case "theme":
			if m := theme.Mode(str); !m.Valid() && m != theme.ModeSystem {
				return s, fmt.Errorf("unknown theme %q", str)
			}
			s.Theme = str
		}
	case "accentColor":
		str, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("setting %q wants a string value", key)
		}
		if _, _, _, err := theme.ParseHex(str); err != nil {
			return s, err
		}
		s.AccentColor = str
	case "notifyOnReview", "notifyOnDownload", "weeklyDigest":
		b, ok := value.(bool)
		if !ok {
			return s, fmt.Errorf("setting %q wants a boolean value", key)
		}
		switch key {
		case "notifyOnReview":
			s.NotifyOnReview = b
		case "notifyOnDownload":
			s.NotifyOnDownload = b
		case "weeklyDigest":
			s.WeeklyDigest = b
		}
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return s, fmt.Errorf("marshal %q: %w", key, err)
		}
		if s.Extra == nil {
			s.Extra = map[string]json.RawMessage{}
		}
		s.Extra[key] = raw
	}

	if err := p.Save(ctx, s); err != nil {
		return s, err
	}

	if key == "theme" && p.onTheme != nil {
		if err := p.onTheme(ctx, s.Theme); err != nil {
			return s, err
		}
	}
	if key == "accentColor" && p.onAccent != nil {
		if err := p.onAccent(ctx, s.AccentColor); err != nil {
			return s, err
		}
	}
	if key == "fontSize" && p.onFontSize != nil {
		if err := p.onFontSize(ctx, s.FontSize); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Reset drops the stored settings so the next Load returns pure defaults.
func (p *Store) Reset(ctx context.Context) error {
	return p.kv.Delete(ctx, settingsKey)
}
