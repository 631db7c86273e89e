package validate

import (
	"net/url"

	"github.com/cockroachdb/errors"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
)

// ExtensionURI is an extension document bound to a plan-local anchor.
type ExtensionURI struct {
	anchor common.Anchor
	uri    *url.URL
	raw    string
}

// ValidateExtensionURI parses the URI, which must be absolute, and registers
// it with ctx.
func ValidateExtensionURI(ctx Context, raw *proto.SimpleExtensionURI) (*ExtensionURI, error) {
	if raw == nil {
		return nil, &InvalidURIError{Cause: errors.New("extension uri is not set")}
	}
	u, err := url.Parse(raw.URI)
	if err != nil {
		return nil, &InvalidURIError{URI: raw.URI, Cause: err}
	}
	if !u.IsAbs() {
		return nil, &InvalidURIError{URI: raw.URI, Cause: errors.New("uri has no scheme")}
	}
	e := &ExtensionURI{anchor: common.Anchor(raw.ExtensionURIAnchor), uri: u, raw: raw.URI}
	if err := ctx.RegisterExtensionURI(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *ExtensionURI) Anchor() common.Anchor { return e.anchor }

// URI returns the parsed URI. Callers must not modify it.
func (e *ExtensionURI) URI() *url.URL { return e.uri }

func (e *ExtensionURI) String() string { return e.raw }

func (e *ExtensionURI) ToProto() *proto.SimpleExtensionURI {
	return &proto.SimpleExtensionURI{ExtensionURIAnchor: uint32(e.anchor), URI: e.raw}
}
