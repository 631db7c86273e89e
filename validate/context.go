// Package validate turns raw plan records into validated values.
//
// Every validated type V comes with a ValidateX(ctx, raw) function that
// either returns a *V satisfying all of V's invariants or an error naming the
// first invariant that failed, and a (*V).ToProto method converting it back.
// Validators that need shared state (which anchors are taken, which
// functions exist) reach it through the Context passed to every call.
package validate

import (
	"github.com/Masterminds/semver/v3"
	"mit.edu/dsg/planval/planner"
)

// Context is the mutable state threaded through one validation pass.
// Registration is the only required capability; validators look for the
// optional ones below with a type assertion and fall back to defaults.
//
// A Context is not safe for concurrent use. Registrations made before a
// failure are kept; discard the Context instead of retrying with it.
type Context interface {
	// RegisterExtensionURI records a validated extension URI under its
	// anchor. It fails if the anchor is taken or the URI is not allowed.
	RegisterExtensionURI(uri *ExtensionURI) error
}

// DeclarationRegistrar is implemented by contexts that track function, type
// and type variation anchors.
type DeclarationRegistrar interface {
	RegisterExtensionDeclaration(decl *ExtensionDeclaration) error
}

// VersionPolicy is implemented by contexts that restrict which plan versions
// are accepted.
type VersionPolicy interface {
	SupportedVersions() *semver.Constraints
}

// RelationOptions is implemented by contexts that configure how relation
// trees are built.
type RelationOptions interface {
	BuilderOptions() planner.Options
}

// DefaultSupportedVersions is the version range accepted when the Context
// does not say otherwise.
const DefaultSupportedVersions = ">= 0.20.0, < 1.0.0"

var defaultSupported = mustConstraint(DefaultSupportedVersions)

func mustConstraint(c string) *semver.Constraints {
	constraints, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraints
}

func supportedVersions(ctx Context) *semver.Constraints {
	if p, ok := ctx.(VersionPolicy); ok {
		if c := p.SupportedVersions(); c != nil {
			return c
		}
	}
	return defaultSupported
}

func builderOptions(ctx Context) planner.Options {
	if o, ok := ctx.(RelationOptions); ok {
		return o.BuilderOptions()
	}
	return planner.Options{}
}

// validateAll validates raws in order and stops at the first failure,
// returning its position.
func validateAll[R any, V any](ctx Context, raws []R, fn func(Context, R) (V, error)) ([]V, int, error) {
	out := make([]V, 0, len(raws))
	for i, raw := range raws {
		v, err := fn(ctx, raw)
		if err != nil {
			return nil, i, err
		}
		out = append(out, v)
	}
	return out, -1, nil
}
