package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
)

const motdNS identity.NamespaceID = "example.motd"

func id(s string) identity.ShapeID {
	return identity.MustParse(s)
}

func api(name string) identity.ShapeID {
	return identity.NewShapeID("smithy.api", identity.Identifier(name))
}

func motd(name string) identity.ShapeID {
	return identity.NewShapeID(motdNS, identity.Identifier(name))
}

func member(name string, target identity.ShapeID, traits ...identity.ShapeID) *core.Member {
	m := core.NewMember(identity.Identifier(name), target)
	for _, tr := range traits {
		if err := m.Traits.Apply(target, tr, core.Object()); err != nil {
			panic(err)
		}
	}
	return m
}

func withTrait(t *testing.T, s *core.Shape, trait identity.ShapeID, v core.Value) *core.Shape {
	t.Helper()
	require.NoError(t, s.ApplyTrait(trait, v))
	return s
}

// motdModel builds the message-of-the-day example model.
func motdModel(t *testing.T) *core.Model {
	t.Helper()
	m := core.NewModel(motdNS, "1.0")

	shapes := []*core.Shape{
		withTrait(t, core.NewShape(motd("Date"), core.SimpleBody{Type: core.StringType}),
			api("pattern"), core.String("^[0-9]{4}-[0-9]{2}-[0-9]{2}$")),
		core.NewShape(motd("GetMessageInput"), core.StructureBody{Members: []*core.Member{
			member("date", motd("Date")),
		}}),
		core.NewShape(motd("GetMessageOutput"), core.StructureBody{Members: []*core.Member{
			member("message", api("String"), api("required")),
		}}),
		withTrait(t, core.NewShape(motd("BadDateValue"), core.StructureBody{Members: []*core.Member{
			member("errorMessage", api("String"), api("required")),
		}}), api("error"), core.String("client")),
		withTrait(t, core.NewShape(motd("GetMessage"), core.OperationBody{
			Input:  motd("GetMessageInput"),
			Output: motd("GetMessageOutput"),
			Errors: []identity.ShapeID{motd("BadDateValue")},
		}), api("readonly"), core.Object()),
		core.NewShape(motd("Message"), core.ResourceBody{
			Identifiers: []core.ResourceIdentifier{{Name: "date", Target: motd("Date")}},
			Read:        motd("GetMessage"),
		}),
		withTrait(t, core.NewShape(motd("MessageOfTheDay"), core.ServiceBody{
			Version:   "2020-06-21",
			Resources: []identity.ShapeID{motd("Message")},
		}), api("documentation"), core.String("Provides a Message of the day.")),
	}
	for _, s := range shapes {
		require.NoError(t, m.AddShape(s))
	}
	return m
}
