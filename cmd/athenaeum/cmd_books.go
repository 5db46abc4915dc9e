package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/prefs"
	"github.com/athenaeumhq/athenaeum/internal/views"
)

// languages the editor accepts.
var bookLanguages = []string{"EN", "ES", "FR", "DE", "HI", "ZH", "JA"}

func (a *app) cmdBooks(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		return a.booksList(ctx, args[1:])
	case "show":
		return a.booksShow(ctx, args[1:])
	case "create":
		return a.booksCreate(ctx, args[1:])
	case "update":
		return a.booksUpdate(ctx, args[1:])
	case "publish":
		return a.booksSetStatus(ctx, args[1:], api.BookStatusPublished)
	case "unpublish":
		return a.booksSetStatus(ctx, args[1:], api.BookStatusDraft)
	case "delete":
		return a.booksDelete(ctx, args[1:])
	case "upload":
		return a.booksUpload(ctx, args[1:])
	default:
		return fmt.Errorf("unknown books subcommand %q", args[0])
	}
}

func (a *app) booksList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("books list", flag.ContinueOnError)
	tab := fs.String("tab", views.TabAll, "all, published, or drafts")
	search := fs.String("search", "", "filter by title")
	if err := fs.Parse(args); err != nil {
		return err
	}

	out, err := a.views.AuthorBooks(ctx, *tab, *search)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func (a *app) booksShow(ctx context.Context, args []string) error {
	id, err := bookArg(args)
	if err != nil {
		return err
	}
	out, err := a.views.BookDetail(ctx, id)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func (a *app) booksCreate(ctx context.Context, args []string) error {
	input, err := a.parseBookInput(args, api.BookInput{
		Language: "EN",
		Status:   defaultStatus(a.prefs.Load(ctx)),
	})
	if err != nil {
		return err
	}
	if input.Title == "" {
		return fmt.Errorf("a title is required")
	}

	id, err := a.client.CreateBook(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Created %q (%s)\n", input.Title, id)
	return nil
}

func (a *app) booksUpdate(ctx context.Context, args []string) error {
	id, err := bookArg(args)
	if err != nil {
		return err
	}
	book, err := a.client.GetBook(ctx, id)
	if err != nil {
		return err
	}

	// Start from the stored record so omitted flags keep their values.
	current := api.BookInput{Title: book.Title, Status: book.Status}
	if d := book.Details; d != nil {
		current.Description = d.Description
		current.ISBN = d.ISBN
		current.Language = d.Language
		current.PageCount = d.PageCount
	}
	input, err := a.parseBookInput(args[1:], current)
	if err != nil {
		return err
	}

	if err := a.client.UpdateBook(ctx, id, input); err != nil {
		return err
	}
	fmt.Printf("Updated %q\n", input.Title)
	return nil
}

func (a *app) booksSetStatus(ctx context.Context, args []string, status int) error {
	id, err := bookArg(args)
	if err != nil {
		return err
	}
	book, err := a.client.GetBook(ctx, id)
	if err != nil {
		return err
	}

	input := api.BookInput{Title: book.Title, Status: status}
	if d := book.Details; d != nil {
		input.Description = d.Description
		input.ISBN = d.ISBN
		input.Language = d.Language
		input.PageCount = d.PageCount
	}
	if err := a.client.UpdateBook(ctx, id, input); err != nil {
		return err
	}
	if status == api.BookStatusPublished {
		fmt.Printf("%q is now published\n", book.Title)
	} else {
		fmt.Printf("%q moved back to drafts\n", book.Title)
	}
	return nil
}

func (a *app) booksDelete(ctx context.Context, args []string) error {
	id, err := bookArg(args)
	if err != nil {
		return err
	}
	book, err := a.client.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if yes := a.prompt(fmt.Sprintf("Delete %q? (y/n): ", book.Title)); yes != "y" {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := a.client.DeleteBook(ctx, id); err != nil {
		return fmt.Errorf("could not delete book, it may have active dependencies: %w", err)
	}
	fmt.Printf("Deleted %q\n", book.Title)
	return nil
}

func (a *app) booksUpload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: books upload <uuid> <file>")
	}
	id, err := bookArg(args)
	if err != nil {
		return err
	}
	path := args[1]

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fileType := "PDF"
	if strings.EqualFold(filepath.Ext(path), ".epub") {
		fileType = "EPUB"
	}
	if err := a.client.UploadBookFile(ctx, id, filepath.Base(path), f, fileType); err != nil {
		return err
	}
	fmt.Printf("Uploaded %s as %s\n", filepath.Base(path), fileType)
	return nil
}

func (a *app) cmdDownload(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: download <uuid> <title>")
	}
	id, err := bookArg(args)
	if err != nil {
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	path, err := a.views.DownloadBook(ctx, id, args[1], dir)
	if err != nil {
		return fmt.Errorf("failed to download book: %w", err)
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

// parseBookInput applies editor flags over a base record.
func (a *app) parseBookInput(args []string, base api.BookInput) (api.BookInput, error) {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	title := fs.String("title", base.Title, "book title")
	description := fs.String("description", base.Description, "description")
	isbn := fs.String("isbn", base.ISBN, "ISBN")
	language := fs.String("language", base.Language, "language code ("+strings.Join(bookLanguages, ", ")+")")
	pages := fs.Int("pages", base.PageCount, "page count")
	if err := fs.Parse(args); err != nil {
		return api.BookInput{}, err
	}

	lang := strings.ToUpper(*language)
	if !validLanguage(lang) {
		return api.BookInput{}, fmt.Errorf("unsupported language %q", *language)
	}
	return api.BookInput{
		Title:       *title,
		Description: *description,
		ISBN:        *isbn,
		Language:    lang,
		PageCount:   *pages,
		Status:      base.Status,
	}, nil
}

func validLanguage(lang string) bool {
	for _, l := range bookLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// bookArg validates the leading uuid argument.
func bookArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("a book uuid is required")
	}
	if _, err := uuid.Parse(args[0]); err != nil {
		return "", fmt.Errorf("invalid book uuid %q: %w", args[0], err)
	}
	return args[0], nil
}

// defaultStatus maps the preference to the wire encoding.
func defaultStatus(s prefs.Settings) int {
	if s.DefaultBookStatus == "published" {
		return api.BookStatusPublished
	}
	return api.BookStatusDraft
}

// reviewIDArg validates a numeric review id argument.
func reviewIDArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid review id %q", arg)
	}
	return id, nil
}
