package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Filter is a closed set of filter expressions. The variants are All,
// Compare, In, And and Or.
type Filter interface {
	Document() bson.D
	Validate() error
	filter()
}

type Operator string

const (
	OpEq  Operator = "$eq"
	OpNe  Operator = "$ne"
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
)

func (o Operator) valid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// All matches every document.
type All struct{}

func (All) Document() bson.D { return bson.D{} }
func (All) Validate() error  { return nil }
func (All) filter()          {}

// Compare matches documents whose field compares to Value under Op.
type Compare struct {
	Field Field
	Op    Operator
	Value any
}

func Eq(f Field, v any) Compare  { return Compare{Field: f, Op: OpEq, Value: v} }
func Ne(f Field, v any) Compare  { return Compare{Field: f, Op: OpNe, Value: v} }
func Gt(f Field, v any) Compare  { return Compare{Field: f, Op: OpGt, Value: v} }
func Gte(f Field, v any) Compare { return Compare{Field: f, Op: OpGte, Value: v} }
func Lt(f Field, v any) Compare  { return Compare{Field: f, Op: OpLt, Value: v} }
func Lte(f Field, v any) Compare { return Compare{Field: f, Op: OpLte, Value: v} }

// Document renders equality in the short {field: value} form.
func (c Compare) Document() bson.D {
	if c.Op == OpEq {
		return bson.D{{Key: string(c.Field), Value: c.Value}}
	}
	return bson.D{{Key: string(c.Field), Value: bson.D{{Key: string(c.Op), Value: c.Value}}}}
}

func (c Compare) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("comparison with empty field")
	}
	if !c.Op.valid() {
		return fmt.Errorf("unsupported operator %q", c.Op)
	}
	return nil
}

func (Compare) filter() {}

type In struct {
	Field  Field
	Values []any
}

func (i In) Document() bson.D {
	values := bson.A{}
	values = append(values, i.Values...)
	return bson.D{{Key: string(i.Field), Value: bson.D{{Key: "$in", Value: values}}}}
}

func (i In) Validate() error {
	if i.Field == "" {
		return fmt.Errorf("$in with empty field")
	}
	return nil
}

func (In) filter() {}

// And matches documents satisfying every clause. Clauses on distinct
// top-level keys are merged into one document, otherwise $and is used.
type And []Filter

func (a And) Document() bson.D {
	merged := bson.D{}
	seen := map[string]bool{}
	for _, clause := range a {
		for _, e := range clause.Document() {
			if seen[e.Key] {
				return a.explicit()
			}
			seen[e.Key] = true
			merged = append(merged, e)
		}
	}
	return merged
}

func (a And) explicit() bson.D {
	clauses := bson.A{}
	for _, clause := range a {
		clauses = append(clauses, clause.Document())
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

func (a And) Validate() error { return validateClauses("$and", a) }
func (And) filter()           {}

type Or []Filter

func (o Or) Document() bson.D {
	clauses := bson.A{}
	for _, clause := range o {
		clauses = append(clauses, clause.Document())
	}
	return bson.D{{Key: "$or", Value: clauses}}
}

func (o Or) Validate() error { return validateClauses("$or", o) }
func (Or) filter()           {}

func validateClauses(op string, clauses []Filter) error {
	if len(clauses) == 0 {
		return fmt.Errorf("%s requires at least one clause", op)
	}
	for _, clause := range clauses {
		if clause == nil {
			return fmt.Errorf("%s contains a nil clause", op)
		}
		if err := clause.Validate(); err != nil {
			return err
		}
	}
	return nil
}
