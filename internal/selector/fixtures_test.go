package selector_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/prelude"
)

const weatherNS identity.NamespaceID = "example.weather"

func w(name string) identity.ShapeID {
	return identity.NewShapeID(weatherNS, identity.Identifier(name))
}

func wm(shape, member string) identity.ShapeID {
	return w(shape).WithMember(identity.Identifier(member))
}

func mem(name string, target identity.ShapeID, required bool) *core.Member {
	m := core.NewMember(identity.Identifier(name), target)
	if required {
		if err := m.Traits.Apply(target, prelude.TraitID("required"), core.Object()); err != nil {
			panic(err)
		}
	}
	return m
}

func structure(name string, members ...*core.Member) *core.Shape {
	return core.NewShape(w(name), core.StructureBody{Members: members})
}

// weatherModel builds a small weather service model exercising every shape kind.
func weatherModel(t *testing.T) *core.Model {
	t.Helper()
	m := core.NewModel(weatherNS, "1.0")
	add := func(s *core.Shape, traits ...core.Field) {
		t.Helper()
		for _, tr := range traits {
			require.NoError(t, s.ApplyTrait(prelude.TraitID(tr.Key), tr.Value))
		}
		require.NoError(t, m.AddShape(s))
	}

	str := prelude.ShapeID("String")
	add(core.NewShape(w("Weather"), core.ServiceBody{
		Version:   "2006-03-01",
		Resources: []identity.ShapeID{w("City")},
	}), core.F("documentation", core.String("Provides weather forecasts.")))
	add(core.NewShape(w("City"), core.ResourceBody{
		Identifiers: []core.ResourceIdentifier{{Name: "cityId", Target: w("CityId")}},
		Read:        w("GetCity"),
		List:        w("ListCities"),
	}), core.F("tags", core.Strings("public", "beta")))
	add(core.NewShape(w("CityId"), core.SimpleBody{Type: core.StringType}),
		core.F("pattern", core.String("^[A-Za-z0-9 ]+$")))
	add(core.NewShape(w("GetCity"), core.OperationBody{
		Input:  w("GetCityInput"),
		Output: w("GetCityOutput"),
		Errors: []identity.ShapeID{w("NoSuchResource")},
	}), core.F("readonly", core.Object()))
	add(structure("GetCityInput", mem("cityId", w("CityId"), true)))
	add(structure("GetCityOutput",
		mem("name", str, true),
		mem("coordinates", w("CityCoordinates"), false)))
	add(structure("CityCoordinates",
		mem("latitude", prelude.ShapeID("Float"), true),
		mem("longitude", prelude.ShapeID("Float"), true)))
	add(structure("NoSuchResource", mem("resourceType", str, true)),
		core.F("error", core.String("client")))
	add(core.NewShape(w("ListCities"), core.OperationBody{
		Input:  w("ListCitiesInput"),
		Output: w("ListCitiesOutput"),
	}), core.F("readonly", core.Object()), core.F("paginated", core.Object(
		core.F("inputToken", core.String("nextToken")),
		core.F("pageSize", core.String("pageSize")),
	)))
	add(structure("ListCitiesInput",
		mem("nextToken", str, false),
		mem("pageSize", w("Count"), false)))
	add(structure("ListCitiesOutput",
		mem("nextToken", str, false),
		mem("items", w("CitySummaries"), true)))
	add(core.NewShape(w("CitySummaries"), core.ListBody{Member: mem("member", w("CitySummary"), false)}))
	add(structure("CitySummary",
		mem("cityId", w("CityId"), true),
		mem("name", str, true)))
	add(core.NewShape(w("Tags"), core.SetBody{Member: mem("member", str, false)}))
	add(core.NewShape(w("Index"), core.MapBody{
		Key:   mem("key", str, false),
		Value: mem("value", w("Count"), false),
	}))
	add(core.NewShape(w("Count"), core.SimpleBody{Type: core.Integer}),
		core.F("range", core.Object(core.F("min", core.Int(1)), core.F("max", core.Int(10)))))
	add(core.NewShape(w("Color"), core.SimpleBody{Type: core.StringType}),
		core.F("enum", core.Array(
			core.Object(core.F("value", core.String("red")), core.F("name", core.String("RED"))),
			core.Object(core.F("value", core.String("blue")), core.F("name", core.String("BLUE"))),
		)))
	add(core.NewShape(w("Search"), core.UnionBody{Members: []*core.Member{
		mem("byName", str, false),
		mem("byId", w("CityId"), false),
	}}))
	return m
}
