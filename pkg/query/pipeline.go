package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Stage is one aggregation step. The variants are Match, Group, SortStage,
// Skip, Limit and Project.
type Stage interface {
	Document() bson.D
	Validate() error
	stage()
}

type Match struct{ Filter Filter }

func (m Match) Document() bson.D { return bson.D{{Key: "$match", Value: m.Filter.Document()}} }

func (m Match) Validate() error {
	if m.Filter == nil {
		return fmt.Errorf("$match without filter")
	}
	return m.Filter.Validate()
}

func (Match) stage() {}

type Group struct {
	ID           Expr
	Accumulators []Accumulator
}

func (g Group) Document() bson.D {
	body := bson.D{{Key: "_id", Value: g.ID.Value()}}
	for _, acc := range g.Accumulators {
		body = append(body, acc.element())
	}
	return bson.D{{Key: "$group", Value: body}}
}

func (g Group) Validate() error {
	if g.ID == nil {
		return fmt.Errorf("$group without _id expression")
	}
	for _, acc := range g.Accumulators {
		if acc.Name == "" || acc.Name == "_id" {
			return fmt.Errorf("$group accumulator name %q is invalid", acc.Name)
		}
		if acc.expr == nil {
			return fmt.Errorf("$group accumulator %s without expression", acc.Name)
		}
	}
	return nil
}

func (Group) stage() {}

type SortStage struct{ Sort Sort }

func (s SortStage) Document() bson.D { return bson.D{{Key: "$sort", Value: s.Sort.Document()}} }

func (s SortStage) Validate() error {
	if len(s.Sort) == 0 {
		return fmt.Errorf("$sort without keys")
	}
	return s.Sort.Validate()
}

func (SortStage) stage() {}

type Skip int64

func (s Skip) Document() bson.D { return bson.D{{Key: "$skip", Value: int64(s)}} }

func (s Skip) Validate() error {
	if s < 0 {
		return fmt.Errorf("$skip must be >= 0, got %d", s)
	}
	return nil
}

func (Skip) stage() {}

type Limit int64

func (l Limit) Document() bson.D { return bson.D{{Key: "$limit", Value: int64(l)}} }

func (l Limit) Validate() error {
	if l <= 0 {
		return fmt.Errorf("$limit must be > 0, got %d", l)
	}
	return nil
}

func (Limit) stage() {}

type projectMode int

const (
	projectKeep projectMode = iota
	projectDrop
	projectCompute
)

// ProjectField is one output field of a $project stage.
type ProjectField struct {
	Name string
	mode projectMode
	expr Expr
}

func Keep(name string) ProjectField { return ProjectField{Name: name, mode: projectKeep} }
func Drop(name string) ProjectField { return ProjectField{Name: name, mode: projectDrop} }
func Compute(name string, e Expr) ProjectField {
	return ProjectField{Name: name, mode: projectCompute, expr: e}
}

type Project []ProjectField

func (p Project) Document() bson.D {
	body := make(bson.D, 0, len(p))
	for _, f := range p {
		var v any
		switch f.mode {
		case projectKeep:
			v = 1
		case projectDrop:
			v = 0
		case projectCompute:
			v = f.expr.Value()
		}
		body = append(body, bson.E{Key: f.Name, Value: v})
	}
	return bson.D{{Key: "$project", Value: body}}
}

func (p Project) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("$project without fields")
	}
	inclusive := false
	for _, f := range p {
		if f.mode != projectDrop {
			inclusive = true
		}
	}
	for _, f := range p {
		if f.Name == "" {
			return fmt.Errorf("$project field with empty name")
		}
		if f.mode == projectCompute && f.expr == nil {
			return fmt.Errorf("$project field %s without expression", f.Name)
		}
		if inclusive && f.mode == projectDrop && f.Name != "_id" {
			return fmt.Errorf("$project can only exclude _id alongside inclusions, got %s", f.Name)
		}
	}
	return nil
}

func (Project) stage() {}

// Pipeline composes stages left to right.
type Pipeline struct {
	stages []Stage
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) Then(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

func (p *Pipeline) Match(f Filter) *Pipeline { return p.Then(Match{Filter: f}) }

func (p *Pipeline) Group(id Expr, acc ...Accumulator) *Pipeline {
	return p.Then(Group{ID: id, Accumulators: acc})
}

func (p *Pipeline) Sort(keys ...Key) *Pipeline          { return p.Then(SortStage{Sort: keys}) }
func (p *Pipeline) Skip(n int64) *Pipeline              { return p.Then(Skip(n)) }
func (p *Pipeline) Limit(n int64) *Pipeline             { return p.Then(Limit(n)) }
func (p *Pipeline) Project(f ...ProjectField) *Pipeline { return p.Then(Project(f)) }

func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

func (p *Pipeline) Validate() error {
	if len(p.stages) == 0 {
		return fmt.Errorf("empty pipeline")
	}
	for i, s := range p.stages {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}
	return nil
}

func (p *Pipeline) Build() mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(p.stages))
	for _, s := range p.stages {
		out = append(out, s.Document())
	}
	return out
}
