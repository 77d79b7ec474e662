package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Generation is one set of questions produced from a document.
type Generation struct {
	ent.Schema
}

func (Generation) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable(),
		field.String("document_id"),
		field.Int("question_count").
			Comment("Requested"),
		field.Int("parsed_count").
			Default(0).
			Comment("Recognised in content"),
		field.String("model").
			Default(""),
		field.Text("content").
			Comment("Text shown to the user and exported"),
		field.Int("input_tokens").
			Default(0),
		field.Int("output_tokens").
			Default(0),
		field.Int64("created_at").
			Immutable(),
	}
}

func (Generation) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("document", Document.Type).
			Ref("generations").
			Field("document_id").
			Unique().
			Required(),
	}
}

func (Generation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
		index.Fields("created_at"),
	}
}
