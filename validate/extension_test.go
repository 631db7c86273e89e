package validate

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planval/catalog"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
)

func TestValidateExtensionURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		code common.ErrorCode
	}{
		{"https", "https://github.com/substrait-io/substrait/blob/main/extensions/functions_arithmetic.yaml", common.UnknownError},
		{"file", "file:///opt/extensions/functions.yaml", common.UnknownError},
		{"urn", "urn:substrait:extensions", common.UnknownError},
		{"relative", "extensions/functions.yaml", common.InvalidURI},
		{"empty", "", common.InvalidURI},
		{"bad escape", "https://example.org/%zz", common.InvalidURI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			e, err := ValidateExtensionURI(v, &proto.SimpleExtensionURI{ExtensionURIAnchor: 4, URI: tt.uri})
			if tt.code == common.UnknownError {
				require.NoError(t, err)
				assert.Equal(t, common.Anchor(4), e.Anchor())
				assert.Equal(t, tt.uri, e.String())
				assert.Len(t, v.ExtensionURIs(), 1)
				return
			}
			assert.Equal(t, tt.code, common.CodeOf(err))
			assert.Empty(t, v.ExtensionURIs())
		})
	}
}

func TestDuplicateExtensionURI(t *testing.T) {
	v := NewValidator()
	_, err := ValidateExtensionURI(v, &proto.SimpleExtensionURI{ExtensionURIAnchor: 1, URI: "https://a"})
	require.NoError(t, err)
	_, err = ValidateExtensionURI(v, &proto.SimpleExtensionURI{ExtensionURIAnchor: 1, URI: "https://b"})
	require.Error(t, err)

	var dup *catalog.DuplicateAnchorError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, common.Anchor(1), dup.Anchor)
	assert.Equal(t, "https://b", dup.Added)
	assert.Equal(t, "https://a", dup.Defined)

	// The same anchor is free in the other namespaces.
	_, err = ValidateExtensionURI(v, &proto.SimpleExtensionURI{ExtensionURIAnchor: 2, URI: "https://b"})
	require.NoError(t, err)
	var uris []string
	for _, u := range v.ExtensionURIs() {
		uris = append(uris, u.String())
	}
	assert.Equal(t, []string{"https://a", "https://b"}, uris)

	_, err = ValidateExtensionDeclaration(v, &proto.SimpleExtensionDeclaration{
		ExtensionFunction: &proto.ExtensionFunction{ExtensionURIReference: 1, FunctionAnchor: 1, Name: "add"},
	})
	require.NoError(t, err)
	_, err = ValidateExtensionDeclaration(v, &proto.SimpleExtensionDeclaration{
		ExtensionType: &proto.ExtensionType{ExtensionURIReference: 2, TypeAnchor: 1, Name: "point"},
	})
	require.NoError(t, err)
}

func TestExtensionURIPolicy(t *testing.T) {
	policy, err := catalog.NewExtensionPolicy("https://github.com")
	require.NoError(t, err)
	v := NewValidator(WithPolicy(policy))

	_, err = ValidateExtensionURI(v, &proto.SimpleExtensionURI{ExtensionURIAnchor: 1, URI: "https://evil.test/f.yaml"})
	require.Error(t, err)
	var unsupported *UnsupportedExtensionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "https://evil.test/f.yaml", unsupported.URI)
	assert.Equal(t, common.UnsupportedExtension, common.CodeOf(err))

	// A rejected URI does not take its anchor.
	_, err = ValidateExtensionURI(v, &proto.SimpleExtensionURI{ExtensionURIAnchor: 1, URI: "https://github.com/f.yaml"})
	require.NoError(t, err)
}

func TestValidateExtensionDeclaration(t *testing.T) {
	fn := &proto.ExtensionFunction{ExtensionURIReference: 1, FunctionAnchor: 3, Name: "sum:opt_dec"}
	tests := []struct {
		name string
		raw  *proto.SimpleExtensionDeclaration
		kind common.AnchorKind
		code common.ErrorCode
	}{
		{"function", &proto.SimpleExtensionDeclaration{ExtensionFunction: fn}, common.FunctionAnchor, common.UnknownError},
		{"type", &proto.SimpleExtensionDeclaration{
			ExtensionType: &proto.ExtensionType{ExtensionURIReference: 1, TypeAnchor: 3, Name: "point"},
		}, common.TypeAnchor, common.UnknownError},
		{"type variation", &proto.SimpleExtensionDeclaration{
			ExtensionTypeVariation: &proto.ExtensionTypeVariation{ExtensionURIReference: 1, TypeVariationAnchor: 3, Name: "utf8"},
		}, common.TypeVariationAnchor, common.UnknownError},
		{"empty", &proto.SimpleExtensionDeclaration{}, 0, common.ExtensionDeclarationEmpty},
		{"nil", nil, 0, common.ExtensionDeclarationEmpty},
		{"two kinds", &proto.SimpleExtensionDeclaration{
			ExtensionFunction: fn,
			ExtensionType:     &proto.ExtensionType{ExtensionURIReference: 1, TypeAnchor: 3, Name: "point"},
		}, 0, common.ExtensionDeclarationEmpty},
		{"unknown uri", &proto.SimpleExtensionDeclaration{
			ExtensionFunction: &proto.ExtensionFunction{ExtensionURIReference: 9, FunctionAnchor: 3, Name: "f"},
		}, 0, common.UnknownExtensionURI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			_, err := ValidateExtensionURI(v, &proto.SimpleExtensionURI{ExtensionURIAnchor: 1, URI: "https://a.test/f.yaml"})
			require.NoError(t, err)

			d, err := ValidateExtensionDeclaration(v, tt.raw)
			if tt.code != common.UnknownError {
				assert.Equal(t, tt.code, common.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, common.Anchor(3), d.Anchor)
			assert.Equal(t, tt.raw, d.ToProto())
			assert.Len(t, v.Declarations(tt.kind), 1)

			_, err = ValidateExtensionDeclaration(v, tt.raw)
			assert.Equal(t, common.DuplicateAnchor, common.CodeOf(err))
		})
	}
}

// registerOnly implements just the required Context method.
type registerOnly struct {
	uris []*ExtensionURI
}

func (r *registerOnly) RegisterExtensionURI(uri *ExtensionURI) error {
	r.uris = append(r.uris, uri)
	return nil
}

func TestMinimalContext(t *testing.T) {
	ctx := &registerOnly{}
	_, err := ValidateExtensionURI(ctx, &proto.SimpleExtensionURI{ExtensionURIAnchor: 1, URI: "https://a.test"})
	require.NoError(t, err)
	assert.Len(t, ctx.uris, 1)

	// Without a DeclarationRegistrar declarations are checked but not tracked,
	// so neither the URI reference nor duplicates are caught.
	d, err := ValidateExtensionDeclaration(ctx, &proto.SimpleExtensionDeclaration{
		ExtensionFunction: &proto.ExtensionFunction{ExtensionURIReference: 7, FunctionAnchor: 1, Name: "f"},
	})
	require.NoError(t, err)
	assert.Equal(t, "f@#7", d.String())
}

func TestExtensionURIRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("absolute uris survive ToProto", prop.ForAll(
		func(anchor uint32, host, file string) bool {
			raw := &proto.SimpleExtensionURI{ExtensionURIAnchor: anchor, URI: "https://" + host + ".test/" + file + ".yaml"}
			e, err := ValidateExtensionURI(NewValidator(), raw)
			return err == nil && *e.ToProto() == *raw
		},
		gen.UInt32(),
		gen.RegexMatch("^[a-z][a-z0-9]{0,15}$"),
		gen.Identifier(),
	))
	properties.TestingRun(t)
}
