package views

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SettingsView renders the current preferences and theme state.
func (v *Views) SettingsView(ctx context.Context) string {
	settings := v.prefs.Load(ctx)
	st := v.styles()

	var b strings.Builder
	b.WriteString(st.Title.Render("Settings") + "\n\n")
	b.WriteString(section(st.Header.Render("Appearance"), []string{
		fmt.Sprintf("  Theme       %s", v.themes.Mode()),
		fmt.Sprintf("  Accent      %s", st.Accent.Render(v.themes.Accent())),
		fmt.Sprintf("  Font size   %s (%dpx)", settings.FontSize, settings.FontPixels()),
	}))
	b.WriteByte('\n')
	b.WriteString(section(st.Header.Render("Notifications"), []string{
		fmt.Sprintf("  On review    %s", onOff(settings.NotifyOnReview)),
		fmt.Sprintf("  On download  %s", onOff(settings.NotifyOnDownload)),
		fmt.Sprintf("  Weekly digest %s", onOff(settings.WeeklyDigest)),
	}))
	b.WriteByte('\n')
	b.WriteString(section(st.Header.Render("Library"), []string{
		fmt.Sprintf("  Default view    %s", settings.DefaultView),
		fmt.Sprintf("  Date format     %s (today: %s)", settings.DateFormat, settings.FormatDate(time.Now())),
		fmt.Sprintf("  New book status %s", settings.DefaultBookStatus),
	}))
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
