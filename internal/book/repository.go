package book

import (
	"bookstore/pkg/model"
	"bookstore/pkg/repository"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

type BookRepository struct {
	Repository repository.BaseRepository[model.Book]
}

func NewBookRepository(database *mongo.Database, collection_name string, opts repository.Options) *BookRepository {
	return &BookRepository{
		Repository: *repository.NewRepository[model.Book](database, collection_name, opts),
	}
}
