package model

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Book struct {
	Id            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string        `bson:"title" json:"title" validate:"required,max=300"`
	Author        string        `bson:"author" json:"author" validate:"required,max=200"`
	Genre         string        `bson:"genre" json:"genre" validate:"required,max=100"`
	PublishedYear int           `bson:"published_year" json:"published_year" validate:"gte=0,lte=9999"`
	Price         float64       `bson:"price" json:"price" validate:"gte=0"`
	InStock       bool          `bson:"in_stock" json:"in_stock"`
}

type BookUpdateRequest struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Author        *string  `json:"author,omitempty" validate:"omitempty,min=1,max=200"`
	Genre         *string  `json:"genre,omitempty" validate:"omitempty,min=1,max=100"`
	PublishedYear *int     `json:"published_year,omitempty" validate:"omitempty,gte=0,lte=9999"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	InStock       *bool    `json:"in_stock,omitempty"`
}

// PartialBook is the result of a projection. A nil field was not
// returned by the store.
type PartialBook struct {
	Id            *bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         *string        `bson:"title,omitempty" json:"title,omitempty"`
	Author        *string        `bson:"author,omitempty" json:"author,omitempty"`
	Genre         *string        `bson:"genre,omitempty" json:"genre,omitempty"`
	PublishedYear *int           `bson:"published_year,omitempty" json:"published_year,omitempty"`
	Price         *float64       `bson:"price,omitempty" json:"price,omitempty"`
	InStock       *bool          `bson:"in_stock,omitempty" json:"in_stock,omitempty"`
}

func NewBook(title, author, genre string, publishedYear int, price float64, inStock bool) Book {
	return Book{
		Id:            bson.NewObjectID(),
		Title:         title,
		Author:        author,
		Genre:         genre,
		PublishedYear: publishedYear,
		Price:         price,
		InStock:       inStock,
	}
}
