package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/session"
)

func (a *app) cmdDashboard(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	genre := fs.String("genre", "All", "filter the catalog by genre (readers)")
	search := fs.String("search", "", "search titles and authors (readers)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		out string
		err error
	)
	if a.session.UserType() == session.RoleAuthor {
		out, err = a.views.AuthorDashboard(ctx)
	} else {
		out, err = a.views.ReaderDashboard(ctx, *genre, *search)
	}
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func (a *app) cmdReview(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: review submit|list|delete")
	}
	switch args[0] {
	case "submit":
		return a.reviewSubmit(ctx, args[1:])
	case "list":
		return a.reviewList(ctx, args[1:])
	case "delete":
		return a.reviewDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown review subcommand %q", args[0])
	}
}

func (a *app) reviewSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review submit", flag.ContinueOnError)
	bookID := fs.Int64("book", 0, "numeric book id")
	rating := fs.Int("rating", 5, "rating 1-5")
	comment := fs.String("comment", "", "review text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bookID == 0 {
		return fmt.Errorf("a book id is required (-book)")
	}
	if *rating < 1 || *rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	if err := a.views.SubmitReview(ctx, *bookID, *rating, *comment); err != nil {
		return fmt.Errorf("failed to process review: %w", err)
	}
	fmt.Println("Review submitted successfully.")
	return nil
}

func (a *app) reviewList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review list", flag.ContinueOnError)
	bookID := fs.Int64("book", 0, "only reviews for this numeric book id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := api.ReviewFilter{}
	if *bookID != 0 {
		filter.BookID = strconv.FormatInt(*bookID, 10)
	} else {
		profile, err := a.client.GetProfile(ctx)
		if err != nil {
			return err
		}
		filter.ReviewerID = strconv.FormatInt(profile.ID, 10)
	}

	reviews, err := a.client.ListReviews(ctx, filter)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Println("No reviews.")
		return nil
	}
	var total int
	for _, r := range reviews {
		total += r.Rating
		fmt.Printf("#%d  book %d  %d/5  %s\n", r.ID, r.BookID, r.Rating, r.Comment)
	}
	if *bookID != 0 {
		fmt.Printf("Average: %.1f across %d reviews\n", float64(total)/float64(len(reviews)), len(reviews))
	}
	return nil
}

func (a *app) reviewDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: review delete <id>")
	}
	id, err := reviewIDArg(args[0])
	if err != nil {
		return err
	}
	if err := a.client.DeleteReview(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted review #%d\n", id)
	return nil
}
