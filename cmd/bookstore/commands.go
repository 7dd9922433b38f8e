package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"bookstore/internal"
	"bookstore/internal/book"
	"bookstore/pkg/query"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the gRPC health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, internal.Serve)
		},
	}
}

func seedCmd() *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample books whose titles are not stored yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				inserted, err := app.Books.Seed(ctx, book.SampleBooks(), drop)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d books\n", inserted)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "delete every book before seeding")
	return cmd
}

type reportOptions struct {
	genre   string
	author  string
	after   int
	title   string
	price   float64
	remove  string
	mutate  bool
	perPage int64
}

func reportCmd() *cobra.Command {
	opts := reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the bookstore queries and aggregations and print their results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				return runReport(ctx, cmd.OutOrStdout(), app.Books, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.genre, "genre", "Fiction", "genre to list")
	flags.StringVar(&opts.author, "author", "Harper Lee", "author to list")
	flags.IntVar(&opts.after, "after", 2010, "list books published after this year")
	flags.StringVar(&opts.title, "title", "The Great Gatsby", "title whose price is updated and whose lookup is explained")
	flags.Float64Var(&opts.price, "price", 12.99, "new price for --title")
	flags.StringVar(&opts.remove, "delete", "To Kill a Mockingbird", "title to delete")
	flags.BoolVar(&opts.mutate, "mutate", false, "also run the price update and the delete")
	flags.Int64Var(&opts.perPage, "page-size", 5, "books per page")
	return cmd
}

type reportStep struct {
	title string
	run   func() (any, error)
}

func runReport(ctx context.Context, w io.Writer, books *book.BookService, opts reportOptions) error {
	steps := []reportStep{
		{"books in genre " + opts.genre, func() (any, error) { return books.FindByGenre(ctx, opts.genre) }},
		{fmt.Sprintf("books published after %d", opts.after), func() (any, error) { return books.FindPublishedAfter(ctx, opts.after) }},
		{"books by " + opts.author, func() (any, error) { return books.FindByAuthor(ctx, opts.author) }},
		{fmt.Sprintf("in stock and published after %d", opts.after), func() (any, error) { return books.FindInStockAfter(ctx, opts.after) }},
		{"title, author and price", func() (any, error) {
			return books.ProjectFields(ctx, query.Title, query.Author, query.Price)
		}},
		{"sorted by price ascending", func() (any, error) { return books.SortedByPrice(ctx, true) }},
		{"sorted by price descending", func() (any, error) { return books.SortedByPrice(ctx, false) }},
		{"page 1", func() (any, error) { return books.Paginate(ctx, 0, opts.perPage) }},
		{"page 2", func() (any, error) { return books.Paginate(ctx, opts.perPage, opts.perPage) }},
		{"average price by genre", func() (any, error) { return books.AveragePriceByGenre(ctx) }},
		{"author with most books", func() (any, error) {
			top, err := books.AuthorWithMostBooks(ctx)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil
			}
			return top, err
		}},
		{"books by decade", func() (any, error) { return books.BooksByDecade(ctx) }},
		{"indexes", func() (any, error) { return books.ListIndexes(ctx) }},
	}

	if opts.mutate {
		steps = append(steps,
			reportStep{"update price of " + opts.title, func() (any, error) { return books.UpdatePriceCount(ctx, opts.title, opts.price) }},
			reportStep{"delete " + opts.remove, func() (any, error) {
				n, err := books.DeleteByTitle(ctx, opts.remove)
				return map[string]int64{"deleted": n}, err
			}},
		)
	}

	for _, step := range steps {
		result, err := step.run()
		if err != nil {
			return fmt.Errorf("%s: %w", step.title, err)
		}
		if err := printSection(w, step.title, result); err != nil {
			return err
		}
	}

	plan, err := books.ExplainTitleLookup(ctx, opts.title, book.DefaultExplainVerbosity)
	if err != nil {
		return fmt.Errorf("explain: %w", err)
	}
	return printPlan(w, "explain title lookup", plan)
}

func printSection(w io.Writer, title string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "== %s\n%s\n\n", title, data)
	return err
}

func printPlan(w io.Writer, title string, plan bson.Raw) error {
	data, err := bson.MarshalExtJSONIndent(plan, false, false, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "== %s\n%s\n\n", title, data)
	return err
}

func indexesCmd() *cobra.Command {
	var ensure bool
	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "List the indexes of the books collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				if ensure {
					names, err := app.Books.EnsureIndexes(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "ensured %v\n", names)
				}

				indexes, err := app.Books.ListIndexes(ctx)
				if err != nil {
					return err
				}
				return printSection(cmd.OutOrStdout(), "indexes", indexes)
			})
		},
	}
	cmd.Flags().BoolVar(&ensure, "ensure", false, "create the title and author/published_year indexes first")
	return cmd
}
