package prefs_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/prefs"
	"github.com/athenaeumhq/athenaeum/internal/store"
	"github.com/athenaeumhq/athenaeum/internal/theme"
)

func newTestKV(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "athenaeum.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	p := prefs.New(newTestKV(t), zap.NewNop())

	s := p.Load(context.Background())
	want := prefs.Defaults()

	if s.FontSize != want.FontSize {
		t.Errorf("FontSize = %q, want %q", s.FontSize, want.FontSize)
	}
	if s.AccentColor != "#635bff" {
		t.Errorf("AccentColor = %q, want #635bff", s.AccentColor)
	}
	if !s.NotifyOnReview || s.NotifyOnDownload || s.WeeklyDigest {
		t.Errorf("notification defaults wrong: %+v", s)
	}
	if s.DefaultView != prefs.ViewGrid {
		t.Errorf("DefaultView = %q, want grid", s.DefaultView)
	}
	if s.DateFormat != "MMM D, YYYY" {
		t.Errorf("DateFormat = %q, want %q", s.DateFormat, "MMM D, YYYY")
	}
	if s.DefaultBookStatus != "draft" {
		t.Errorf("DefaultBookStatus = %q, want draft", s.DefaultBookStatus)
	}
}

func TestLoadMergesSubsetOverDefaults(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	// Only two keys stored; everything else must fall back to defaults.
	if err := kv.Set(ctx, "appSettings_v1", `{"fontSize":"large","weeklyDigest":true}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s := prefs.New(kv, zap.NewNop()).Load(ctx)

	if s.FontSize != prefs.FontLarge {
		t.Errorf("FontSize = %q, want stored large", s.FontSize)
	}
	if !s.WeeklyDigest {
		t.Error("WeeklyDigest = false, want stored true")
	}
	if s.AccentColor != "#635bff" {
		t.Errorf("AccentColor = %q, want default", s.AccentColor)
	}
	if !s.NotifyOnReview {
		t.Error("NotifyOnReview = false, want default true")
	}
	if s.DefaultView != prefs.ViewGrid {
		t.Errorf("DefaultView = %q, want default grid", s.DefaultView)
	}
}

func TestLoadCorruptBlobFallsBackToDefaults(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	if err := kv.Set(ctx, "appSettings_v1", `{not json`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s := prefs.New(kv, zap.NewNop()).Load(ctx)
	want := prefs.Defaults()
	if s.FontSize != want.FontSize || s.AccentColor != want.AccentColor {
		t.Errorf("corrupt blob did not degrade to defaults: %+v", s)
	}
}

func TestUpdatePersistsAndReturnsNewSettings(t *testing.T) {
	kv := newTestKV(t)
	p := prefs.New(kv, zap.NewNop())
	ctx := context.Background()

	s, err := p.Update(ctx, "defaultView", "list")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.DefaultView != prefs.ViewList {
		t.Errorf("returned DefaultView = %q, want list", s.DefaultView)
	}

	reloaded := p.Load(ctx)
	if reloaded.DefaultView != prefs.ViewList {
		t.Errorf("reloaded DefaultView = %q, want list", reloaded.DefaultView)
	}
}

func TestUpdateUnknownKeyStoredNotActedOn(t *testing.T) {
	kv := newTestKV(t)
	p := prefs.New(kv, zap.NewNop())
	ctx := context.Background()

	if _, err := p.Update(ctx, "experimentalFlag", true); err != nil {
		t.Fatalf("Update unknown key: %v", err)
	}

	s := p.Load(ctx)
	if string(s.Extra["experimentalFlag"]) != "true" {
		t.Errorf("Extra[experimentalFlag] = %q, want true", s.Extra["experimentalFlag"])
	}
	// Known fields untouched.
	if s.FontSize != prefs.FontMedium {
		t.Errorf("FontSize = %q, want default", s.FontSize)
	}
}

func TestUnknownKeysSurviveSubsequentUpdates(t *testing.T) {
	kv := newTestKV(t)
	p := prefs.New(kv, zap.NewNop())
	ctx := context.Background()

	if _, err := p.Update(ctx, "futureSetting", "kept"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := p.Update(ctx, "fontSize", "small"); err != nil {
		t.Fatalf("Update fontSize: %v", err)
	}

	s := p.Load(ctx)
	if string(s.Extra["futureSetting"]) != `"kept"` {
		t.Errorf("Extra[futureSetting] = %q, want kept", s.Extra["futureSetting"])
	}
	if s.FontSize != prefs.FontSmall {
		t.Errorf("FontSize = %q, want small", s.FontSize)
	}
}

func TestUpdateThemeFiresApplier(t *testing.T) {
	kv := newTestKV(t)
	var applied string
	p := prefs.New(kv, zap.NewNop(), prefs.WithThemeApplier(func(_ context.Context, mode string) error {
		applied = mode
		return nil
	}))

	if _, err := p.Update(context.Background(), "theme", "dark"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if applied != "dark" {
		t.Errorf("theme applier got %q, want dark", applied)
	}

	s := p.Load(context.Background())
	if s.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", s.Theme)
	}
}

func TestUpdateThemeDrivesController(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	tc, err := theme.NewController(ctx, kv, zap.NewNop())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	p := prefs.New(kv, zap.NewNop(), prefs.WithThemeApplier(func(ctx context.Context, mode string) error {
		return tc.Apply(ctx, theme.Mode(mode), false)
	}))

	if _, err := p.Update(ctx, "theme", "dark"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if tc.Mode() != theme.ModeDark {
		t.Errorf("controller mode = %q, want dark", tc.Mode())
	}
	if got := p.Load(ctx).Theme; got != "dark" {
		t.Errorf("settings theme = %q, want dark", got)
	}
}

func TestUpdateRejectsUnknownTheme(t *testing.T) {
	fired := false
	p := prefs.New(newTestKV(t), zap.NewNop(),
		prefs.WithThemeApplier(func(context.Context, string) error { fired = true; return nil }))

	if _, err := p.Update(context.Background(), "theme", "sepia"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
	if fired {
		t.Error("applier fired for a rejected theme")
	}
}

func TestUpdateAccentFiresApplier(t *testing.T) {
	kv := newTestKV(t)
	var applied string
	p := prefs.New(kv, zap.NewNop(), prefs.WithAccentApplier(func(_ context.Context, hex string) error {
		applied = hex
		return nil
	}))

	if _, err := p.Update(context.Background(), "accentColor", "#10b981"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if applied != "#10b981" {
		t.Errorf("accent applier got %q, want #10b981", applied)
	}
}

func TestUpdateFontSizeFiresApplier(t *testing.T) {
	kv := newTestKV(t)
	var applied string
	p := prefs.New(kv, zap.NewNop(), prefs.WithFontSizeApplier(func(_ context.Context, size string) error {
		applied = size
		return nil
	}))

	if _, err := p.Update(context.Background(), "fontSize", "large"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if applied != prefs.FontLarge {
		t.Errorf("font applier got %q, want large", applied)
	}
}

func TestUpdateOtherKeyDoesNotFireAppliers(t *testing.T) {
	kv := newTestKV(t)
	fired := false
	p := prefs.New(kv, zap.NewNop(),
		prefs.WithAccentApplier(func(context.Context, string) error { fired = true; return nil }),
		prefs.WithFontSizeApplier(func(context.Context, string) error { fired = true; return nil }))

	if _, err := p.Update(context.Background(), "weeklyDigest", true); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if fired {
		t.Error("applier fired for unrelated key")
	}
}

func TestUpdateRejectsMalformedAccent(t *testing.T) {
	p := prefs.New(newTestKV(t), zap.NewNop())

	if _, err := p.Update(context.Background(), "accentColor", "teal"); err == nil {
		t.Fatal("expected error for malformed accent")
	}

	s := p.Load(context.Background())
	if s.AccentColor != "#635bff" {
		t.Errorf("AccentColor = %q, want default untouched", s.AccentColor)
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		format, want string
	}{
		{"MMM D, YYYY", "Mar 7, 2025"},
		{"DD/MM/YYYY", "07/03/2025"},
		{"YYYY-MM-DD", "2025-03-07"},
		{"bogus", "Mar 7, 2025"},
	}
	for _, tt := range tests {
		s := prefs.Settings{DateFormat: tt.format}
		if got := s.FormatDate(ts); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFontPixels(t *testing.T) {
	tests := []struct {
		size string
		want int
	}{
		{prefs.FontSmall, 14},
		{prefs.FontMedium, 16},
		{prefs.FontLarge, 18},
		{"unknown", 16},
	}
	for _, tt := range tests {
		s := prefs.Settings{FontSize: tt.size}
		if got := s.FontPixels(); got != tt.want {
			t.Errorf("FontPixels(%q) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	kv := newTestKV(t)
	p := prefs.New(kv, zap.NewNop())
	ctx := context.Background()

	if _, err := p.Update(ctx, "defaultView", "list"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := p.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	got := p.Load(ctx)
	if got.DefaultView != prefs.Defaults().DefaultView || got.Extra != nil {
		t.Errorf("Load after Reset = %+v, want defaults", got)
	}

	// Resetting an already-clean store is a no-op.
	if err := p.Reset(ctx); err != nil {
		t.Fatalf("second Reset: %v", err)
	}
}
