package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Projection is an inclusion projection. The store returns _id unless it
// is explicitly excluded.
type Projection struct {
	Fields    []Field
	ExcludeID bool
}

// Include returns a projection of the given fields. _id is excluded
// unless it is one of them.
func Include(fields ...Field) Projection {
	p := Projection{ExcludeID: true}
	for _, f := range fields {
		if f == ID {
			p.ExcludeID = false
			continue
		}
		p.Fields = append(p.Fields, f)
	}
	return p
}

func (p Projection) Document() bson.D {
	doc := make(bson.D, 0, len(p.Fields)+1)
	for _, f := range p.Fields {
		doc = append(doc, bson.E{Key: string(f), Value: 1})
	}
	// An empty projection returns whole documents, so _id is always named.
	if p.ExcludeID {
		doc = append(doc, bson.E{Key: string(ID), Value: 0})
	} else {
		doc = append(doc, bson.E{Key: string(ID), Value: 1})
	}
	return doc
}

func (p Projection) Validate() error {
	if len(p.Fields) == 0 && p.ExcludeID {
		return fmt.Errorf("projection selects no fields")
	}
	return nil
}

// FindOptions collects sort, pagination and projection for a find.
// A zero Limit means no limit.
type FindOptions struct {
	Sort       Sort
	Skip       int64
	Limit      int64
	Projection *Projection
}

func (o FindOptions) Validate() error {
	if o.Skip < 0 {
		return fmt.Errorf("skip must be >= 0, got %d", o.Skip)
	}
	if o.Limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d", o.Limit)
	}
	if err := o.Sort.Validate(); err != nil {
		return err
	}
	if o.Projection != nil {
		return o.Projection.Validate()
	}
	return nil
}

func (o FindOptions) Builder() *options.FindOptionsBuilder {
	opts := options.Find()
	if len(o.Sort) > 0 {
		opts.SetSort(o.Sort.Document())
	}
	if o.Skip > 0 {
		opts.SetSkip(o.Skip)
	}
	if o.Limit > 0 {
		opts.SetLimit(o.Limit)
	}
	if o.Projection != nil {
		opts.SetProjection(o.Projection.Document())
	}
	return opts
}
