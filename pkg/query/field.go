package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Field is a document field name. The Book fields are declared as
// constants; computed fields in a pipeline can use Field("name").
type Field string

const (
	ID            Field = "_id"
	Title         Field = "title"
	Author        Field = "author"
	Genre         Field = "genre"
	PublishedYear Field = "published_year"
	Price         Field = "price"
	InStock       Field = "in_stock"
)

// BookFields lists every stored field of a book in declaration order.
var BookFields = []Field{ID, Title, Author, Genre, PublishedYear, Price, InStock}

func ParseField(name string) (Field, error) {
	for _, f := range BookFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", name)
}

type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

// Key pairs a field with a direction. It is used both for sort
// specifications and for index keys.
type Key struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

func Asc(f Field) Key  { return Key{Field: f, Direction: Ascending} }
func Desc(f Field) Key { return Key{Field: f, Direction: Descending} }

// Sort is an ordered list of keys; order matters for the store.
type Sort []Key

func (s Sort) Document() bson.D {
	doc := make(bson.D, 0, len(s))
	for _, k := range s {
		doc = append(doc, bson.E{Key: string(k.Field), Value: int(k.Direction)})
	}
	return doc
}

func (s Sort) Validate() error {
	for _, k := range s {
		if k.Field == "" {
			return fmt.Errorf("sort key with empty field")
		}
		if !k.Direction.Valid() {
			return fmt.Errorf("invalid direction %d for field %s", k.Direction, k.Field)
		}
	}
	return nil
}
