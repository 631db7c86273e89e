package validate

import (
	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"mit.edu/dsg/planval/catalog"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/planner"
	"mit.edu/dsg/planval/schema"
)

// Validator is the standard Context. It implements every optional
// capability: it tracks declarations, enforces a version range and checks
// function references against the declared function anchors.
//
// Use one Validator per plan, or call Reset between plans.
type Validator struct {
	passID     uuid.UUID
	uris       *catalog.AnchorCatalog[*ExtensionURI]
	decls      map[common.AnchorKind]*catalog.AnchorCatalog[*ExtensionDeclaration]
	policy     *catalog.ExtensionPolicy
	supported  *semver.Constraints
	collisions schema.CollisionPolicy
	noFuncs    bool
	logger     zerolog.Logger
}

var (
	_ DeclarationRegistrar = (*Validator)(nil)
	_ VersionPolicy        = (*Validator)(nil)
	_ RelationOptions      = (*Validator)(nil)
)

type Option func(*Validator)

// WithPolicy restricts extension URIs to the policy's origins.
func WithPolicy(p *catalog.ExtensionPolicy) Option {
	return func(v *Validator) { v.policy = p }
}

// WithSupportedVersions replaces DefaultSupportedVersions.
func WithSupportedVersions(c *semver.Constraints) Option {
	return func(v *Validator) { v.supported = c }
}

func WithCollisionPolicy(p schema.CollisionPolicy) Option {
	return func(v *Validator) { v.collisions = p }
}

// WithFunctionCheck turns checking of function references against the
// declared function anchors on or off. It is on by default.
func WithFunctionCheck(on bool) Option {
	return func(v *Validator) { v.noFuncs = !on }
}

func WithLogger(l zerolog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// NewValidator returns a Validator with empty catalogs. Without options it
// accepts every extension URI, the default version range and qualifies
// colliding join names.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		supported: defaultSupported,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.reset()
	return v
}

func (v *Validator) reset() {
	v.passID = uuid.New()
	v.uris = catalog.NewAnchorCatalog[*ExtensionURI](common.ExtensionURIAnchor)
	v.decls = map[common.AnchorKind]*catalog.AnchorCatalog[*ExtensionDeclaration]{
		common.FunctionAnchor:      catalog.NewAnchorCatalog[*ExtensionDeclaration](common.FunctionAnchor),
		common.TypeAnchor:          catalog.NewAnchorCatalog[*ExtensionDeclaration](common.TypeAnchor),
		common.TypeVariationAnchor: catalog.NewAnchorCatalog[*ExtensionDeclaration](common.TypeVariationAnchor),
	}
}

// Reset discards every registration and starts a new pass.
func (v *Validator) Reset() {
	v.reset()
	v.logger.Debug().Str("pass", v.passID.String()).Msg("validator reset")
}

// PassID identifies the current validation pass in log output.
func (v *Validator) PassID() uuid.UUID {
	return v.passID
}

// RegisterExtensionURI checks the URI against the policy, then binds its
// anchor. A rejected URI is not registered.
func (v *Validator) RegisterExtensionURI(uri *ExtensionURI) error {
	if reason := v.policy.Check(uri.URI()); reason != "" {
		v.logger.Debug().Str("pass", v.passID.String()).Str("uri", uri.String()).Str("reason", reason).
			Msg("extension uri rejected")
		return &UnsupportedExtensionError{URI: uri.String(), Reason: reason}
	}
	if _, err := v.uris.Add(uri.Anchor(), uri); err != nil {
		return err
	}
	v.logger.Debug().Str("pass", v.passID.String()).Stringer("anchor", uri.Anchor()).Str("uri", uri.String()).
		Msg("registered extension uri")
	return nil
}

// RegisterExtensionDeclaration binds a declaration's anchor in its kind's
// namespace. The extension URI it names must already be registered.
func (v *Validator) RegisterExtensionDeclaration(decl *ExtensionDeclaration) error {
	if !v.uris.Contains(decl.URIAnchor) {
		return common.Errorf(common.UnknownExtensionURI,
			"%s %q refers to extension uri anchor %s, which is not declared", decl.Kind, decl.Name, decl.URIAnchor)
	}
	c, ok := v.decls[decl.Kind]
	common.Assert(ok, "no catalog for anchor kind %s", decl.Kind)
	if _, err := c.Add(decl.Anchor, decl); err != nil {
		return err
	}
	v.logger.Debug().Str("pass", v.passID.String()).Stringer("kind", decl.Kind).Stringer("anchor", decl.Anchor).
		Str("name", decl.Name).Msg("registered extension declaration")
	return nil
}

func (v *Validator) SupportedVersions() *semver.Constraints {
	return v.supported
}

func (v *Validator) BuilderOptions() planner.Options {
	opts := planner.Options{Collision: v.collisions}
	if !v.noFuncs {
		functions := v.decls[common.FunctionAnchor]
		opts.FunctionLookup = func(anchor uint32) bool {
			return functions.Contains(common.Anchor(anchor))
		}
	}
	return opts
}

// ExtensionURIs returns the registered URIs in anchor order.
func (v *Validator) ExtensionURIs() []*ExtensionURI {
	return v.uris.Values()
}

// Declarations returns the registered declarations of one kind in anchor
// order.
func (v *Validator) Declarations(kind common.AnchorKind) []*ExtensionDeclaration {
	c, ok := v.decls[kind]
	if !ok {
		return nil
	}
	return c.Values()
}
