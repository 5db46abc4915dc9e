package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/api"
)

// ReaderDashboard renders the published catalog for a reader, annotated
// with the reader's own reviews. The catalog and review listings are
// fetched concurrently once the profile supplies the reviewer id; losing
// the reviews only drops the annotations.
func (v *Views) ReaderDashboard(ctx context.Context, genre, search string) (string, error) {
	profile, err := v.client.GetProfile(ctx)
	if err != nil {
		return "", err
	}

	var (
		wg      sync.WaitGroup
		books   []api.Book
		reviews []api.Review

		booksErr, reviewsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		books, booksErr = v.client.ListBooks(ctx, api.BookFilter{Status: strconv.Itoa(api.BookStatusPublished)})
	}()
	go func() {
		defer wg.Done()
		reviews, reviewsErr = v.client.ListReviews(ctx, api.ReviewFilter{ReviewerID: strconv.FormatInt(profile.ID, 10)})
	}()
	wg.Wait()

	if booksErr != nil {
		return "", booksErr
	}
	if reviewsErr != nil {
		v.logger.Warn("own reviews unavailable", zap.Error(reviewsErr))
		reviews = nil
	}

	mine := make(map[int64]api.Review, len(reviews))
	for _, r := range reviews {
		mine[r.BookID] = r
	}

	filtered := filterCatalog(books, genre, search)

	st := v.styles()
	var b strings.Builder
	b.WriteString(st.Title.Render("Discover") + "\n")
	b.WriteString(st.Muted.Render(fmt.Sprintf("%d published books", len(books))) + "\n\n")

	if len(filtered) == 0 {
		b.WriteString(st.Muted.Render("Nothing matches"))
		b.WriteByte('\n')
		return b.String(), nil
	}
	for _, bk := range filtered {
		line := fmt.Sprintf("  %-36s %-20s %s", bk.Title, orDash(bk.AuthorName), st.Accent.Render(ratingLabel(bk.AverageRating)))
		if r, ok := mine[bk.BookID]; ok {
			line += st.Active.Render(fmt.Sprintf("  you rated %d", r.Rating))
		}
		b.WriteString(line + "\n")
	}
	return b.String(), nil
}

// filterCatalog narrows by genre and by a case-insensitive match on title
// or author name.
func filterCatalog(books []api.Book, genre, search string) []api.Book {
	out := make([]api.Book, 0, len(books))
	q := strings.ToLower(strings.TrimSpace(search))
	for _, bk := range books {
		if genre != "" && genre != "All" && bk.Genre != genre {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(bk.Title), q) &&
			!strings.Contains(strings.ToLower(bk.AuthorName), q) {
			continue
		}
		out = append(out, bk)
	}
	return out
}

// Genres lists the distinct genres present in the catalog, "All" first,
// in catalog order.
func Genres(books []api.Book) []string {
	genres := []string{"All"}
	seen := map[string]bool{}
	for _, bk := range books {
		if bk.Genre == "" || seen[bk.Genre] {
			continue
		}
		seen[bk.Genre] = true
		genres = append(genres, bk.Genre)
	}
	return genres
}

// SubmitReview creates or updates the reader's review for a book. An
// existing review with the same numeric book id is updated in place.
func (v *Views) SubmitReview(ctx context.Context, bookID int64, rating int, comment string) error {
	profile, err := v.client.GetProfile(ctx)
	if err != nil {
		return err
	}
	existing, err := v.client.ListReviews(ctx, api.ReviewFilter{
		BookID:     strconv.FormatInt(bookID, 10),
		ReviewerID: strconv.FormatInt(profile.ID, 10),
	})
	if err != nil {
		return err
	}

	review := api.Review{BookID: bookID, Rating: rating, Comment: comment}
	if len(existing) > 0 {
		return v.client.UpdateReview(ctx, existing[0].ID, review)
	}
	return v.client.CreateReview(ctx, review)
}
