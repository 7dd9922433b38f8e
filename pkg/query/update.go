package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Update is a closed set of update documents. Set is the only variant.
type Update interface {
	Document() bson.D
	Validate() error
	update()
}

type Assignment struct {
	Field Field
	Value any
}

// Set replaces the listed fields and leaves every other field untouched.
type Set []Assignment

func SetField(f Field, v any) Set { return Set{{Field: f, Value: v}} }

func (s Set) And(f Field, v any) Set {
	return append(s, Assignment{Field: f, Value: v})
}

func (s Set) Document() bson.D {
	fields := make(bson.D, 0, len(s))
	for _, a := range s {
		fields = append(fields, bson.E{Key: string(a.Field), Value: a.Value})
	}
	return bson.D{{Key: "$set", Value: fields}}
}

func (s Set) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("$set requires at least one field")
	}
	for _, a := range s {
		if a.Field == "" {
			return fmt.Errorf("$set with empty field")
		}
		if a.Field == ID {
			return fmt.Errorf("_id is immutable")
		}
	}
	return nil
}

func (Set) update() {}
