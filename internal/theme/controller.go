package theme

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/store"
)

// Store keys.
const (
	themeKey  = "app-theme"
	accentKey = "appAccentColor"
)

// transitionDuration is how long the transitioning flag stays set after an
// animated mode switch.
const transitionDuration = 300 * time.Millisecond

// SystemProbe reports the OS colour-scheme preference.
type SystemProbe func() Mode

// DefaultSystemProbe reads ATHENAEUM_COLOR_SCHEME, falling back to light.
func DefaultSystemProbe() Mode {
	if os.Getenv("ATHENAEUM_COLOR_SCHEME") == "dark" {
		return ModeDark
	}
	return ModeLight
}

// Controller owns the current mode, the accent override, and the resolved
// token set. All state changes are persisted so they survive restarts.
type Controller struct {
	store  *store.Store
	logger *zap.Logger
	probe  SystemProbe

	mu            sync.Mutex
	mode          Mode
	accent        string // "" when no override installed
	resolved      Tokens
	transitioning bool
	transition    *time.Timer
	subs          []func(Tokens)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSystemProbe overrides how the OS colour-scheme preference is read.
func WithSystemProbe(p SystemProbe) Option {
	return func(c *Controller) { c.probe = p }
}

// NewController builds a Controller and applies the initial mode: the
// persisted value if present, else the OS preference, else light. A
// persisted accent override is re-installed at the same time.
func NewController(ctx context.Context, st *store.Store, logger *zap.Logger, opts ...Option) (*Controller, error) {
	c := &Controller{
		store:  st,
		logger: logger,
		probe:  DefaultSystemProbe,
	}
	for _, opt := range opts {
		opt(c)
	}

	mode := ModeLight
	stored, err := st.Get(ctx, themeKey)
	switch {
	case err == nil && Mode(stored).Valid():
		mode = Mode(stored)
	case errors.Is(err, store.ErrNotFound):
		mode = c.probe()
	case err != nil:
		return nil, err
	}

	if accent, err := st.Get(ctx, accentKey); err == nil {
		c.accent = accent
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if err := c.Apply(ctx, mode, false); err != nil {
		return nil, err
	}
	return c, nil
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// IsDark reports whether the current mode is dark.
func (c *Controller) IsDark() bool {
	return c.Mode() == ModeDark
}

// Accent returns the installed accent override hex, or "" if none.
func (c *Controller) Accent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accent
}

// Resolved returns a copy of the current resolved token set.
func (c *Controller) Resolved() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Tokens, len(c.resolved))
	for k, v := range c.resolved {
		out[k] = v
	}
	return out
}

// Transitioning reports whether an animated switch is in progress.
func (c *Controller) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitioning
}

// Subscribe registers fn to run with the resolved tokens after every apply.
func (c *Controller) Subscribe(fn func(Tokens)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Apply sets a concrete mode, persists it, and recomputes the resolved
// tokens with the accent override merged back on top. Applying the current
// mode again is a no-op apart from re-resolution. ModeSystem is resolved
// through the probe first.
func (c *Controller) Apply(ctx context.Context, mode Mode, animate bool) error {
	if mode == ModeSystem {
		mode = c.probe()
	}
	if !mode.Valid() {
		return errors.New("theme: unknown mode " + string(mode))
	}

	if err := c.store.Set(ctx, themeKey, string(mode)); err != nil {
		return err
	}

	c.mu.Lock()
	c.mode = mode
	if animate {
		c.transitioning = true
		if c.transition != nil {
			c.transition.Stop()
		}
		c.transition = time.AfterFunc(transitionDuration, func() {
			c.mu.Lock()
			c.transitioning = false
			c.mu.Unlock()
		})
	}
	c.resolveLocked()
	subs := append([]func(Tokens){}, c.subs...)
	resolved := c.resolved
	c.mu.Unlock()

	for _, fn := range subs {
		fn(resolved)
	}
	return nil
}

// Toggle flips light and dark with animation.
func (c *Controller) Toggle(ctx context.Context) error {
	next := ModeLight
	if c.Mode() == ModeLight {
		next = ModeDark
	}
	return c.Apply(ctx, next, true)
}

// ApplyAccent validates and installs an accent override, persisting the hex
// so it survives restarts and later mode switches.
func (c *Controller) ApplyAccent(ctx context.Context, hex string) error {
	if _, err := AccentOverride(hex); err != nil {
		return err
	}
	if err := c.store.Set(ctx, accentKey, hex); err != nil {
		return err
	}

	c.mu.Lock()
	c.accent = hex
	c.resolveLocked()
	c.mu.Unlock()

	c.logger.Debug("accent applied", zap.String("hex", hex))
	return nil
}

// RemoveAccent deletes the override, reverting to the palette default.
func (c *Controller) RemoveAccent(ctx context.Context) error {
	if err := c.store.Delete(ctx, accentKey); err != nil {
		return err
	}

	c.mu.Lock()
	c.accent = ""
	c.resolveLocked()
	c.mu.Unlock()
	return nil
}

// resolveLocked recomputes the resolved tokens. Caller holds c.mu.
func (c *Controller) resolveLocked() {
	var override Tokens
	if c.accent != "" {
		ov, err := AccentOverride(c.accent)
		if err != nil {
			// Stored accent predates boundary validation; drop it.
			c.logger.Warn("ignoring invalid stored accent", zap.String("hex", c.accent))
			c.accent = ""
		} else {
			override = ov
		}
	}
	c.resolved = Resolve(c.mode, override)
}

type ctxKey struct{}

// NewContext returns a context carrying the controller.
func NewContext(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the controller installed in ctx. Calling it outside a
// controller scope is a programming error and panics.
func FromContext(ctx context.Context) *Controller {
	c, ok := ctx.Value(ctxKey{}).(*Controller)
	if !ok {
		panic("theme: FromContext called outside a controller scope")
	}
	return c
}
