package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// BookFilter narrows a catalog listing. Zero fields are omitted.
type BookFilter struct {
	AuthorID string
	Status   string
}

func (f BookFilter) query() string {
	params := url.Values{}
	if f.AuthorID != "" {
		params.Set("author_id", f.AuthorID)
	}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// CreateBook creates a catalog entry and returns the assigned uuid.
func (c *Client) CreateBook(ctx context.Context, input BookInput) (string, error) {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodPost, "/books", input, &env); err != nil {
		return "", err
	}
	var created struct {
		UUID string `json:"uuid"`
	}
	if err := env.Decode(&created); err != nil {
		return "", err
	}
	return created.UUID, nil
}

// ListBooks fetches the catalog, optionally filtered by author or status.
func (c *Client) ListBooks(ctx context.Context, filter BookFilter) ([]Book, error) {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodGet, "/books"+filter.query(), nil, &env); err != nil {
		return nil, err
	}
	var books []Book
	if err := env.Decode(&books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches one catalog entry with its nested details and files.
func (c *Client) GetBook(ctx context.Context, bookUUID string) (*Book, error) {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodGet, "/books/"+url.PathEscape(bookUUID), nil, &env); err != nil {
		return nil, err
	}
	var book Book
	if err := env.Decode(&book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook overwrites a catalog entry's metadata and status.
func (c *Client) UpdateBook(ctx context.Context, bookUUID string, input BookInput) error {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodPut, "/books/"+url.PathEscape(bookUUID), input, &env); err != nil {
		return err
	}
	return env.Decode(nil)
}

// DeleteBook removes a catalog entry.
func (c *Client) DeleteBook(ctx context.Context, bookUUID string) error {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodDelete, "/books/"+url.PathEscape(bookUUID), nil, &env); err != nil {
		return err
	}
	return env.Decode(nil)
}

// UploadBookFile attaches a manuscript file to a book. fileType is "PDF" or
// "EPUB".
func (c *Client) UploadBookFile(ctx context.Context, bookUUID, fileName string, file io.Reader, fileType string) error {
	path := fmt.Sprintf("/books/%s/files", url.PathEscape(bookUUID))
	fields := map[string]string{"file_type": fileType}

	var env Envelope
	if err := c.doMultipart(ctx, path, fileName, file, fields, &env); err != nil {
		return err
	}
	return env.Decode(nil)
}

// DownloadBookFile fetches a book file's raw bytes and content type.
func (c *Client) DownloadBookFile(ctx context.Context, bookUUID, fileID string) ([]byte, string, error) {
	path := fmt.Sprintf("/books/%s/download/%s", url.PathEscape(bookUUID), url.PathEscape(fileID))
	return c.doBinary(ctx, path)
}
