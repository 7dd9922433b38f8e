package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// IndexSpec declares an index. Keys are ordered; an empty Name lets the
// store derive one (e.g. "author_1_published_year_-1").
type IndexSpec struct {
	Keys   []Key
	Name   string
	Unique bool
}

func NewIndex(keys ...Key) IndexSpec {
	return IndexSpec{Keys: keys}
}

func (s IndexSpec) Document() bson.D {
	return Sort(s.Keys).Document()
}

func (s IndexSpec) Validate() error {
	if len(s.Keys) == 0 {
		return fmt.Errorf("index requires at least one key")
	}
	seen := map[Field]bool{}
	for _, k := range s.Keys {
		if seen[k.Field] {
			return fmt.Errorf("duplicate index key %s", k.Field)
		}
		seen[k.Field] = true
	}
	return Sort(s.Keys).Validate()
}

func (s IndexSpec) Model() mongo.IndexModel {
	opts := options.Index()
	if s.Name != "" {
		opts.SetName(s.Name)
	}
	if s.Unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: s.Document(), Options: opts}
}
