package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/prefs"
	"github.com/athenaeumhq/athenaeum/internal/theme"
)

// Book list tabs.
const (
	TabAll       = "all"
	TabPublished = "published"
	TabDrafts    = "drafts"
)

// AuthorBooks renders the author's catalog, filtered by tab and an
// optional case-insensitive title search.
func (v *Views) AuthorBooks(ctx context.Context, tab, search string) (string, error) {
	books, err := v.client.ListBooks(ctx, api.BookFilter{})
	if err != nil {
		return "", err
	}

	filtered := make([]api.Book, 0, len(books))
	q := strings.ToLower(strings.TrimSpace(search))
	for _, bk := range books {
		switch tab {
		case TabPublished:
			if !bk.Published() {
				continue
			}
		case TabDrafts:
			if bk.Published() {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(bk.Title), q) {
			continue
		}
		filtered = append(filtered, bk)
	}

	st := v.styles()
	var b strings.Builder
	b.WriteString(st.Title.Render("My books") + "\n")

	var published int
	for _, bk := range books {
		if bk.Published() {
			published++
		}
	}
	b.WriteString(st.Muted.Render(fmt.Sprintf("%d total, %d published, %d drafts", len(books), published, len(books)-published)) + "\n\n")
	if v.prefs.Load(ctx).DefaultView == prefs.ViewGrid {
		b.WriteString(v.renderBookGrid(st, filtered))
	} else {
		b.WriteString(v.renderBookTable(st, filtered))
	}
	return b.String(), nil
}

// renderBookGrid lays books out as bordered cards, two per row.
func (v *Views) renderBookGrid(st theme.Styles, books []api.Book) string {
	if len(books) == 0 {
		return st.Muted.Render("No books yet") + "\n"
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.Border.GetForeground()).
		Padding(0, 1).
		Width(34)

	cards := make([]string, 0, len(books))
	for _, bk := range books {
		status := st.Muted.Render(statusLabel(bk.Status))
		if bk.Published() {
			status = st.Success.Render(statusLabel(bk.Status))
		}
		body := st.Header.Render(bk.Title) + "\n" + status
		if bk.Genre != "" {
			body += st.Muted.Render("  " + bk.Genre)
		}
		cards = append(cards, card.Render(body))
	}

	var b strings.Builder
	for i := 0; i < len(cards); i += 2 {
		row := cards[i:min(i+2, len(cards))]
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderBookTable lists books one per line with status and file count.
func (v *Views) renderBookTable(st theme.Styles, books []api.Book) string {
	if len(books) == 0 {
		return st.Muted.Render("No books yet") + "\n"
	}
	var b strings.Builder
	for _, bk := range books {
		status := st.Muted.Render(statusLabel(bk.Status))
		if bk.Published() {
			status = st.Success.Render(statusLabel(bk.Status))
		}
		line := fmt.Sprintf("  %-40s %s", bk.Title, status)
		if n := len(bk.Files); n > 0 {
			line += st.Muted.Render(fmt.Sprintf("  %d file(s)", n))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// BookDetail renders one book with its nested metadata and files.
func (v *Views) BookDetail(ctx context.Context, bookUUID string) (string, error) {
	book, err := v.client.GetBook(ctx, bookUUID)
	if err != nil {
		return "", err
	}

	st := v.styles()
	var b strings.Builder
	b.WriteString(st.Title.Render(book.Title) + "  " + st.Accent.Render(statusLabel(book.Status)) + "\n")
	b.WriteString(st.Muted.Render(book.UUID) + "\n\n")

	if d := book.Details; d != nil {
		if d.Description != "" {
			b.WriteString(d.Description + "\n\n")
		}
		lines := []string{
			fmt.Sprintf("  ISBN      %s", orDash(d.ISBN)),
			fmt.Sprintf("  Language  %s", orDash(d.Language)),
			fmt.Sprintf("  Pages     %d", d.PageCount),
		}
		b.WriteString(section(st.Header.Render("Details"), lines))
		b.WriteByte('\n')
	}

	if len(book.Files) > 0 {
		lines := make([]string, 0, len(book.Files))
		for _, f := range book.Files {
			lines = append(lines, fmt.Sprintf("  #%d  %s", f.ID, f.FileType))
		}
		b.WriteString(section(st.Header.Render("Files"), lines))
	} else {
		b.WriteString(st.Muted.Render("No files attached") + "\n")
	}
	return b.String(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
