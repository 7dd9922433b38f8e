package query

import "go.mongodb.org/mongo-driver/v2/bson"

// Expr is an aggregation expression: a field reference, a literal or one
// of the supported operators.
type Expr interface {
	Value() any
	expr()
}

type fieldRef Field

// Ref refers to a field of the current document, e.g. "$genre".
func Ref(f Field) Expr { return fieldRef(f) }

func (r fieldRef) Value() any { return "$" + string(r) }
func (fieldRef) expr()        {}

type literal struct{ v any }

// Lit is a constant. Strings starting with "$" are wrapped in $literal
// so they are not read as field paths.
func Lit(v any) Expr { return literal{v: v} }

func (l literal) Value() any {
	if s, ok := l.v.(string); ok && len(s) > 0 && s[0] == '$' {
		return bson.D{{Key: "$literal", Value: s}}
	}
	return l.v
}

func (literal) expr() {}

type call struct {
	op    string
	args  []Expr
	unary bool
}

func (c call) Value() any {
	if c.unary {
		return bson.D{{Key: c.op, Value: c.args[0].Value()}}
	}
	args := make(bson.A, 0, len(c.args))
	for _, a := range c.args {
		args = append(args, a.Value())
	}
	return bson.D{{Key: c.op, Value: args}}
}

func (call) expr() {}

func Floor(e Expr) Expr       { return call{op: "$floor", args: []Expr{e}, unary: true} }
func ToString(e Expr) Expr    { return call{op: "$toString", args: []Expr{e}, unary: true} }
func Divide(a, b Expr) Expr   { return call{op: "$divide", args: []Expr{a, b}} }
func Multiply(a, b Expr) Expr { return call{op: "$multiply", args: []Expr{a, b}} }
func Concat(parts ...Expr) Expr {
	return call{op: "$concat", args: parts}
}

// Accumulator is a named $group output field.
type Accumulator struct {
	Name string
	op   string
	expr Expr
}

func Avg(name string, e Expr) Accumulator { return Accumulator{Name: name, op: "$avg", expr: e} }
func Sum(name string, e Expr) Accumulator { return Accumulator{Name: name, op: "$sum", expr: e} }
func Count(name string) Accumulator       { return Sum(name, Lit(1)) }

func (a Accumulator) element() bson.E {
	return bson.E{Key: a.Name, Value: bson.D{{Key: a.op, Value: a.expr.Value()}}}
}
