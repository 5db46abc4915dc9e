package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/session"
)

// ProfileView renders the identity screen with role-specific stats. For
// authors the catalog is fetched alongside; for readers it is skipped.
func (v *Views) ProfileView(ctx context.Context) (string, error) {
	isAuthor := v.session.UserType() == session.RoleAuthor

	var (
		wg      sync.WaitGroup
		profile *api.Profile
		dash    *api.Dashboard
		books   []api.Book

		profileErr, dashErr, booksErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = v.client.GetProfile(ctx)
	}()
	go func() {
		defer wg.Done()
		dash, dashErr = v.client.GetDashboard(ctx)
	}()
	if isAuthor {
		wg.Add(1)
		go func() {
			defer wg.Done()
			books, booksErr = v.client.ListBooks(ctx, api.BookFilter{})
		}()
	}
	wg.Wait()

	if profileErr != nil {
		return "", profileErr
	}

	st := v.styles()
	var b strings.Builder
	b.WriteString(st.Title.Render(profile.Username) + "  " + st.Accent.Render(profile.Type) + "\n")
	b.WriteString(st.Muted.Render(profile.Email) + "\n\n")

	if dashErr != nil {
		v.logger.Warn("profile stats unavailable", zap.Error(dashErr))
		b.WriteString(st.Muted.Render("Stats unavailable") + "\n")
	} else {
		stats := dash.Stats
		var lines []string
		if isAuthor {
			lines = []string{
				fmt.Sprintf("  Published  %d", stats.TotalBooks),
				fmt.Sprintf("  Downloads  %d", stats.TotalDownloads),
				fmt.Sprintf("  Rating     %s", ratingLabel(stats.AverageRating)),
			}
		} else {
			lines = []string{
				fmt.Sprintf("  Downloads  %d", stats.TotalDownloads),
				fmt.Sprintf("  Reviews    %d", stats.TotalReviewsReceived),
			}
		}
		b.WriteString(section(st.Header.Render("Stats"), lines))
	}

	if isAuthor {
		b.WriteByte('\n')
		if booksErr != nil {
			v.logger.Warn("profile books unavailable", zap.Error(booksErr))
			b.WriteString(st.Muted.Render("Books unavailable") + "\n")
		} else {
			b.WriteString(v.renderBookTable(st, books))
		}
	}
	return b.String(), nil
}

// DownloadBook fetches the book's primary file and writes it under dir,
// named after the title with an extension inferred from the content type.
func (v *Views) DownloadBook(ctx context.Context, bookUUID, title, dir string) (string, error) {
	data, contentType, err := v.client.DownloadBookFile(ctx, bookUUID, "1")
	if err != nil {
		return "", err
	}

	ext := ".pdf"
	if strings.Contains(contentType, "epub") {
		ext = ".epub"
	}
	path := filepath.Join(dir, sanitizeFilename(title)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write download: %w", err)
	}
	return path, nil
}

// sanitizeFilename strips path separators and control characters from a
// title so it is safe as a file name.
func sanitizeFilename(title string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if clean == "" {
		return "book"
	}
	return clean
}
