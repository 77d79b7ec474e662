// Package schema declares the tables behind internal/store. The store
// builds its queries by hand with ent's dialect/sql builders, so these
// schemas are the column reference rather than a code generator input.
package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Document is an uploaded PDF after text extraction.
type Document struct {
	ent.Schema
}

func (Document) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID"),
		field.String("name").
			Comment("Uploaded file name"),
		field.Int64("size_bytes").
			Default(0),
		field.Int("page_count").
			Default(0),
		field.Int("char_count").
			Default(0).
			Comment("Characters after trimming, as gated"),
		field.Text("content").
			Comment("Extracted text"),
		field.Int64("created_at").
			Immutable().
			Comment("Unix milliseconds; retention prunes on this"),
	}
}

func (Document) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("generations", Generation.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (Document) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
	}
}
