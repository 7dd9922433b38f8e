package book

import (
	"context"

	"bookstore/pkg/model"
	"bookstore/pkg/query"
)

func SampleBooks() []model.Book {
	return []model.Book{
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction", PublishedYear: 1960, Price: 12.99, InStock: true},
		{Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Price: 10.99, InStock: true},
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", PublishedYear: 1925, Price: 9.99, InStock: true},
		{Title: "Brave New World", Author: "Aldous Huxley", Genre: "Dystopian", PublishedYear: 1932, Price: 11.50, InStock: false},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937, Price: 14.99, InStock: true},
		{Title: "The Catcher in the Rye", Author: "J.D. Salinger", Genre: "Fiction", PublishedYear: 1951, Price: 8.99, InStock: false},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance", PublishedYear: 1813, Price: 7.99, InStock: true},
		{Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1954, Price: 19.99, InStock: true},
		{Title: "Animal Farm", Author: "George Orwell", Genre: "Political Satire", PublishedYear: 1945, Price: 8.50, InStock: false},
		{Title: "The Alchemist", Author: "Paulo Coelho", Genre: "Fiction", PublishedYear: 1988, Price: 10.99, InStock: true},
		{Title: "Moby Dick", Author: "Herman Melville", Genre: "Adventure", PublishedYear: 1851, Price: 12.50, InStock: false},
		{Title: "Wuthering Heights", Author: "Emily Brontë", Genre: "Gothic Fiction", PublishedYear: 1847, Price: 9.99, InStock: true},
		{Title: "The Martian", Author: "Andy Weir", Genre: "Science Fiction", PublishedYear: 2011, Price: 15.99, InStock: true},
		{Title: "Educated", Author: "Tara Westover", Genre: "Memoir", PublishedYear: 2018, Price: 17.50, InStock: true},
		{Title: "Klara and the Sun", Author: "Kazuo Ishiguro", Genre: "Science Fiction", PublishedYear: 2021, Price: 18.99, InStock: false},
	}
}

// Seed inserts each book whose title is not yet stored and returns how
// many were inserted. With drop set the collection is emptied first.
func (s *BookService) Seed(ctx context.Context, books []model.Book, drop bool) (int, error) {
	if drop {
		removed, err := s.Reset(ctx)
		if err != nil {
			return 0, err
		}
		s.logger.Info().Int64("removed", removed).Msg("collection cleared")
	}

	inserted := 0
	for _, book := range books {
		created, err := s.Service.CreateIfAbsent(ctx, book, query.Eq(query.Title, book.Title))
		if err != nil {
			return inserted, err
		}
		if created {
			inserted++
		}
	}

	if inserted > 0 {
		s.invalidateSummaries(ctx)
	}
	s.logger.Info().Int("inserted", inserted).Int("skipped", len(books)-inserted).Msg("seed finished")
	return inserted, nil
}
