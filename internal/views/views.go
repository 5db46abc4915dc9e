// Package views composes backend data into rendered terminal screens for
// the author and reader roles. Each view fetches its sections
// concurrently and degrades per section: a failed fetch muting one panel
// never blanks the whole screen.
package views

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/prefs"
	"github.com/athenaeumhq/athenaeum/internal/session"
	"github.com/athenaeumhq/athenaeum/internal/theme"
)

// Views renders the role dashboards and detail screens.
type Views struct {
	client  *api.Client
	session *session.Cache
	prefs   *prefs.Store
	themes  *theme.Controller
	logger  *zap.Logger
}

// New wires the view layer over the shared client, session, and theme.
func New(client *api.Client, sess *session.Cache, pf *prefs.Store, tc *theme.Controller, logger *zap.Logger) *Views {
	return &Views{client: client, session: sess, prefs: pf, themes: tc, logger: logger}
}

func (v *Views) styles() theme.Styles {
	return theme.NewStyles(v.themes.Resolved())
}

// statusLabel maps the backend's integer book status to display text.
func statusLabel(status int) string {
	if status == api.BookStatusPublished {
		return "Published"
	}
	return "Draft"
}

// ratingLabel renders an average rating to one decimal, or a dash when no
// reviews exist yet.
func ratingLabel(rating float64) string {
	if rating == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", rating)
}

// section joins header and body lines into one rendered block.
func section(header string, lines []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
