package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/athenaeumhq/athenaeum/internal/theme"
)

func (a *app) cmdSettings(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Print(a.views.SettingsView(ctx))
		return nil
	}
	switch args[0] {
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("usage: settings set <key> <value>")
		}
		return a.settingsSet(ctx, args[1], strings.Join(args[2:], " "))
	case "reset":
		return a.settingsReset(ctx)
	case "delete-account":
		return a.settingsDeleteAccount(ctx)
	default:
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func (a *app) settingsDeleteAccount(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	fmt.Println("Permanently deletes your account and all data. This cannot be undone.")
	if in := a.prompt("Type DELETE to confirm: "); in != "DELETE" {
		fmt.Println("Confirmation text did not match. Nothing was deleted.")
		return nil
	}
	fmt.Println("Account deletion requires backend implementation.")
	return nil
}

func (a *app) settingsSet(ctx context.Context, key, value string) error {
	var parsed any = value
	switch value {
	case "true", "on":
		parsed = true
	case "false", "off":
		parsed = false
	}

	if _, err := a.prefs.Update(ctx, key, parsed); err != nil {
		return err
	}
	fmt.Printf("Set %s = %v\n", key, parsed)
	return nil
}

func (a *app) settingsReset(ctx context.Context) error {
	if yes := a.prompt("Reset all preferences to defaults? (y/n): "); yes != "y" {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := a.prefs.Reset(ctx); err != nil {
		return err
	}
	if err := a.themes.RemoveAccent(ctx); err != nil {
		return err
	}
	fmt.Println("Preferences reset.")
	return nil
}

func (a *app) cmdTheme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Printf("Theme: %s (accent %s)\n", a.themes.Mode(), a.themes.Accent())
		return nil
	}
	switch args[0] {
	case "toggle":
		if err := a.themes.Toggle(ctx); err != nil {
			return err
		}
		// Keep the settings blob in step with the controller.
		if _, err := a.prefs.Update(ctx, "theme", string(a.themes.Mode())); err != nil {
			return err
		}
		fmt.Printf("Theme: %s\n", a.themes.Mode())
		return nil
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: theme set light|dark|system")
		}
		// Update validates the mode and applies it through the
		// registered theme applier.
		if _, err := a.prefs.Update(ctx, "theme", args[1]); err != nil {
			return err
		}
		fmt.Printf("Theme: %s\n", a.themes.Mode())
		return nil
	case "accent":
		if len(args) < 2 {
			for _, sw := range theme.Accents {
				fmt.Printf("  %-8s %s\n", sw.Label, sw.Value)
			}
			fmt.Println("usage: theme accent <name|#rrggbb|reset>")
			return nil
		}
		if args[1] == "reset" {
			if err := a.themes.RemoveAccent(ctx); err != nil {
				return err
			}
			fmt.Println("Accent reset to default.")
			return nil
		}
		hex := accentValue(args[1])
		if _, err := a.prefs.Update(ctx, "accentColor", hex); err != nil {
			return err
		}
		fmt.Printf("Accent: %s\n", hex)
		return nil
	default:
		return fmt.Errorf("unknown theme subcommand %q", args[0])
	}
}

// accentValue maps a palette swatch name to its hex value. Anything
// that is not a known name is passed through for hex validation.
func accentValue(arg string) string {
	for _, sw := range theme.Accents {
		if strings.EqualFold(sw.Label, arg) {
			return sw.Value
		}
	}
	return arg
}
