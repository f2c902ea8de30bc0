// Package prelude holds the built-in smithy.api namespace: the simple types
// and standard trait shapes every model can reference without an import.
package prelude

import (
	"sync"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
)

// Namespace is the prelude namespace.
const Namespace identity.NamespaceID = "smithy.api"

// Version is the version tag of the prelude model.
const Version = "1.0"

var simpleShapes = []struct {
	name string
	typ  core.SimpleType
}{
	{"Blob", core.Blob},
	{"Boolean", core.Boolean},
	{"String", core.StringType},
	{"Byte", core.Byte},
	{"Short", core.Short},
	{"Integer", core.Integer},
	{"Long", core.Long},
	{"Float", core.Float},
	{"Double", core.Double},
	{"BigInteger", core.BigInteger},
	{"BigDecimal", core.BigDecimal},
	{"Timestamp", core.Timestamp},
	{"Document", core.Document},
	{"PrimitiveBoolean", core.Boolean},
	{"PrimitiveByte", core.Byte},
	{"PrimitiveShort", core.Short},
	{"PrimitiveInteger", core.Integer},
	{"PrimitiveLong", core.Long},
	{"PrimitiveFloat", core.Float},
	{"PrimitiveDouble", core.Double},
}

// traitShapes maps each standard trait to the simple type of its value.
// Traits whose value is structured are modelled as documents.
var traitShapes = []struct {
	name string
	typ  core.SimpleType
}{
	{"box", core.Document},
	{"deprecated", core.Document},
	{"documentation", core.StringType},
	{"enum", core.Document},
	{"error", core.StringType},
	{"externalDocumentation", core.Document},
	{"http", core.Document},
	{"idempotent", core.Document},
	{"length", core.Document},
	{"paginated", core.Document},
	{"pattern", core.StringType},
	{"range", core.Document},
	{"readonly", core.Document},
	{"references", core.Document},
	{"required", core.Document},
	{"sensitive", core.Document},
	{"since", core.StringType},
	{"tags", core.Document},
	{"title", core.StringType},
	{"trait", core.Document},
}

var (
	once  sync.Once
	model *core.Model
)

// Model returns the prelude model. It is built once and must not be mutated.
func Model() *core.Model {
	once.Do(func() {
		model = build()
	})
	return model
}

// Contains reports whether id names a prelude shape, or a member of one.
func Contains(id identity.ShapeID) bool {
	return id.Namespace() == Namespace && Model().HasShape(id)
}

// ShapeID returns the absolute ID of a prelude shape name.
func ShapeID(name string) identity.ShapeID {
	return identity.NewShapeID(Namespace, identity.Identifier(name))
}

// TraitID returns the absolute ID of a standard trait, e.g. TraitID("required").
func TraitID(name string) identity.ShapeID {
	return ShapeID(name)
}

func build() *core.Model {
	m := core.NewModel(Namespace, Version)
	traitMarker := TraitID("trait")
	for _, s := range simpleShapes {
		mustAdd(m, core.NewShape(ShapeID(s.name), core.SimpleBody{Type: s.typ}))
	}
	for _, t := range traitShapes {
		shape := core.NewShape(TraitID(t.name), core.SimpleBody{Type: t.typ})
		if err := shape.ApplyTrait(traitMarker, core.Object()); err != nil {
			panic(err)
		}
		mustAdd(m, shape)
	}
	return m
}

func mustAdd(m *core.Model, s *core.Shape) {
	if err := m.AddShape(s); err != nil {
		panic(err)
	}
}
