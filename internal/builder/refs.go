package builder

import (
	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/resolver"
)

// refs resolves the text references of one declaration, collecting errors.
type refs struct {
	resolver     *resolver.Resolver
	source       identity.ShapeID
	memberTraits map[identity.Identifier][]Trait
	errs         []error
}

func (r *refs) fail(err error) {
	r.errs = append(r.errs, err)
}

// resolve resolves a non-empty reference held under relation.
func (r *refs) resolve(relation, text string) identity.ShapeID {
	ref, err := identity.ParseReference(text)
	if err != nil {
		r.fail(err)
		return identity.ShapeID{}
	}
	id, ok := r.resolver.Resolve(ref, false)
	if !ok {
		r.fail(&resolver.ResolutionError{Source: r.source, Relation: relation, Reference: ref})
		return identity.ShapeID{}
	}
	return id
}

func (r *refs) optional(relation, text string) identity.ShapeID {
	if text == "" {
		return identity.ShapeID{}
	}
	return r.resolve(relation, text)
}

func (r *refs) list(relation string, texts []string) []identity.ShapeID {
	if len(texts) == 0 {
		return nil
	}
	out := make([]identity.ShapeID, 0, len(texts))
	for _, text := range texts {
		out = append(out, r.resolve(relation, text))
	}
	return out
}

func (r *refs) trait(text string) (identity.ShapeID, bool) {
	ref, err := identity.ParseReference(text)
	if err != nil {
		r.fail(err)
		return identity.ShapeID{}, false
	}
	if ref.IsMember() {
		r.fail(&identity.InvalidError{Kind: identity.ErrInvalidShapeID, Text: text})
		return identity.ShapeID{}, false
	}
	id, ok := r.resolver.Resolve(ref, false)
	if !ok {
		r.fail(&resolver.ResolutionError{Source: r.source, Relation: "trait", Reference: ref})
		return identity.ShapeID{}, false
	}
	return id, true
}

// member builds a member and records its traits; they are applied once the
// owning shape exists.
func (r *refs) member(mc MemberConfig) *core.Member {
	name, err := identity.NewIdentifier(mc.Name)
	if err != nil {
		r.fail(err)
		return nil
	}
	if len(mc.Traits) > 0 {
		if r.memberTraits == nil {
			r.memberTraits = make(map[identity.Identifier][]Trait)
		}
		r.memberTraits[name] = append(r.memberTraits[name], mc.Traits...)
	}
	return core.NewMember(name, r.resolve("member", mc.Target))
}

func (r *refs) members(mcs []MemberConfig) []*core.Member {
	out := make([]*core.Member, 0, len(mcs))
	for _, mc := range mcs {
		if m := r.member(mc); m != nil {
			out = append(out, m)
		}
	}
	return out
}
