package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ReviewFilter narrows a review listing. Zero fields are omitted.
type ReviewFilter struct {
	BookID     string
	ReviewerID string
	Status     string
}

func (f ReviewFilter) query() string {
	params := url.Values{}
	if f.BookID != "" {
		params.Set("book_id", f.BookID)
	}
	if f.ReviewerID != "" {
		params.Set("reviewer_id", f.ReviewerID)
	}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// CreateReview submits a rating and comment for a book.
func (c *Client) CreateReview(ctx context.Context, review Review) error {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodPost, "/reviews", review, &env); err != nil {
		return err
	}
	return env.Decode(nil)
}

// ListReviews fetches reviews, optionally filtered by book or reviewer.
func (c *Client) ListReviews(ctx context.Context, filter ReviewFilter) ([]Review, error) {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodGet, "/reviews"+filter.query(), nil, &env); err != nil {
		return nil, err
	}
	var reviews []Review
	if err := env.Decode(&reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateReview replaces the rating and comment on an existing review.
func (c *Client) UpdateReview(ctx context.Context, reviewID int64, review Review) error {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodPut, "/reviews/"+strconv.FormatInt(reviewID, 10), review, &env); err != nil {
		return err
	}
	return env.Decode(nil)
}

// DeleteReview removes a review.
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodDelete, "/reviews/"+strconv.FormatInt(reviewID, 10), nil, &env); err != nil {
		return err
	}
	return env.Decode(nil)
}
