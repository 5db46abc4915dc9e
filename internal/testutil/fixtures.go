// Package testutil provides fixture builders and response helpers shared by
// package tests.
package testutil

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/athenaeumhq/athenaeum/internal/api"
)

// NewBook returns a draft Book with sensible defaults, suitable for test
// fixtures. Override individual fields through options.
func NewBook(opts ...func(*api.Book)) api.Book {
	b := api.Book{
		UUID:   uuid.New().String(),
		Title:  "Test Book",
		Status: api.BookStatusDraft,
		Details: &api.BookDetails{
			Description: "A test manuscript.",
			Language:    "EN",
			PageCount:   120,
		},
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// WithUUID pins the book's uuid.
func WithUUID(id string) func(*api.Book) {
	return func(b *api.Book) { b.UUID = id }
}

// WithBookID sets the numeric id readers see.
func WithBookID(id int64) func(*api.Book) {
	return func(b *api.Book) { b.BookID = id }
}

// WithTitle sets the book title.
func WithTitle(title string) func(*api.Book) {
	return func(b *api.Book) { b.Title = title }
}

// Published marks the book published.
func Published() func(*api.Book) {
	return func(b *api.Book) { b.Status = api.BookStatusPublished }
}

// WithAuthorName sets the display author name.
func WithAuthorName(name string) func(*api.Book) {
	return func(b *api.Book) { b.AuthorName = name }
}

// WithGenre sets the genre.
func WithGenre(genre string) func(*api.Book) {
	return func(b *api.Book) { b.Genre = genre }
}

// WithRating sets the average rating.
func WithRating(rating float64) func(*api.Book) {
	return func(b *api.Book) { b.AverageRating = rating }
}

// WithFiles attaches book files.
func WithFiles(files ...api.BookFile) func(*api.Book) {
	return func(b *api.Book) { b.Files = files }
}

// NewReview returns a Review fixture.
func NewReview(id, bookID int64, rating int, comment string) api.Review {
	return api.Review{ID: id, BookID: bookID, Rating: rating, Comment: comment}
}

// NewProfile returns an author Profile fixture.
func NewProfile(opts ...func(*api.Profile)) api.Profile {
	p := api.Profile{
		ID:       1,
		UUID:     uuid.New().String(),
		Username: "test-user",
		Email:    "test-user@example.com",
		Type:     "author",
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithProfileID sets the numeric profile id.
func WithProfileID(id int64) func(*api.Profile) {
	return func(p *api.Profile) { p.ID = id }
}

// WithUserType sets the profile role.
func WithUserType(userType string) func(*api.Profile) {
	return func(p *api.Profile) { p.Type = userType }
}

// WriteEnvelope writes data wrapped in a success envelope.
func WriteEnvelope(w http.ResponseWriter, data any) {
	raw, _ := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.Envelope{Status: "1", Data: raw})
}

// WriteDetailError writes an HTTP error with a {"detail": ...} body.
func WriteDetailError(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
