package views

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/prefs"
)

// AuthorDashboard renders the author landing screen: identity, catalog
// stats, and recent activity. The three fetches run concurrently; a panel
// whose fetch failed renders as unavailable while the rest stay live.
func (v *Views) AuthorDashboard(ctx context.Context) (string, error) {
	var (
		wg      sync.WaitGroup
		profile *api.Profile
		dash    *api.Dashboard
		books   []api.Book

		profileErr, dashErr, booksErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		profile, profileErr = v.client.GetProfile(ctx)
	}()
	go func() {
		defer wg.Done()
		dash, dashErr = v.client.GetDashboard(ctx)
	}()
	go func() {
		defer wg.Done()
		books, booksErr = v.client.ListBooks(ctx, api.BookFilter{})
	}()
	wg.Wait()

	if profileErr != nil && dashErr != nil && booksErr != nil {
		return "", fmt.Errorf("dashboard load: %w", dashErr)
	}

	st := v.styles()
	settings := v.prefs.Load(ctx)
	var b strings.Builder

	if profileErr != nil {
		v.logger.Warn("profile panel unavailable", zap.Error(profileErr))
		b.WriteString(st.Muted.Render("Profile unavailable") + "\n\n")
	} else {
		b.WriteString(st.Title.Render("Welcome back, "+profile.Username) + "\n")
		b.WriteString(st.Muted.Render(profile.Email) + "\n\n")
	}

	if dashErr != nil {
		v.logger.Warn("stats panel unavailable", zap.Error(dashErr))
		b.WriteString(st.Muted.Render("Stats unavailable") + "\n\n")
	} else {
		stats := dash.Stats
		b.WriteString(section(st.Header.Render("Your catalog"), []string{
			fmt.Sprintf("  Books       %d (%d published, %d drafts)", stats.TotalBooks, stats.PublishedBooks, stats.DraftBooks),
			fmt.Sprintf("  Downloads   %d", stats.TotalDownloads),
			fmt.Sprintf("  Reviews     %d", stats.TotalReviewsReceived),
			fmt.Sprintf("  Avg rating  %s", st.Accent.Render(ratingLabel(stats.AverageRating))),
		}))
		b.WriteByte('\n')

		if len(dash.RecentActivity) > 0 {
			lines := make([]string, 0, len(dash.RecentActivity))
			for _, a := range dash.RecentActivity {
				lines = append(lines, "  "+v.activityLine(settingsDate(settings, a.Timestamp), a.Message))
			}
			b.WriteString(section(st.Header.Render("Recent activity"), lines))
			b.WriteByte('\n')
		}
	}

	if booksErr != nil {
		v.logger.Warn("books panel unavailable", zap.Error(booksErr))
		b.WriteString(st.Muted.Render("Books unavailable") + "\n")
	} else {
		b.WriteString(v.renderBookTable(st, books))
	}
	return b.String(), nil
}

func (v *Views) activityLine(when, message string) string {
	if when == "" {
		return message
	}
	return when + "  " + message
}

// settingsDate formats an RFC 3339 timestamp per the user's date format
// preference, passing unparseable values through untouched.
func settingsDate(s prefs.Settings, raw string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return s.FormatDate(t)
}
