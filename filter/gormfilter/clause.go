package gormfilter

import "gorm.io/gorm/clause"

// Between is an inclusive range predicate. Wrapped in clause.Not it builds
// NOT BETWEEN through NegationBuild.
type Between struct {
	Column any
	Low    any
	High   any
}

func (b Between) Build(builder clause.Builder) {
	b.build(builder, " BETWEEN ")
}

func (b Between) NegationBuild(builder clause.Builder) {
	b.build(builder, " NOT BETWEEN ")
}

func (b Between) build(builder clause.Builder, op string) {
	builder.WriteQuoted(b.Column)
	_, _ = builder.WriteString(op)
	builder.AddVar(builder, b.Low)
	_, _ = builder.WriteString(clause.AndWithSpace)
	builder.AddVar(builder, b.High)
}
