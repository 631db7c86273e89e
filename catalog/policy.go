package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/puzpuzpuz/xsync/v3"
)

// ExtensionPolicy is an allow-list of extension origins (scheme://host).
// It is shared by every validation pass of a process and is safe for
// concurrent use. An empty policy allows everything.
type ExtensionPolicy struct {
	origins *xsync.MapOf[string, struct{}]
}

func NewExtensionPolicy(origins ...string) (*ExtensionPolicy, error) {
	p := &ExtensionPolicy{origins: xsync.NewMapOf[string, struct{}]()}
	for _, o := range origins {
		if err := p.Allow(o); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Allow adds the origin of rawURL to the allow-list. Only the scheme and
// host of rawURL are kept.
func (p *ExtensionPolicy) Allow(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return errors.Newf("origin %q must be an absolute URL with a host", rawURL)
	}
	p.origins.Store(origin(u), struct{}{})
	return nil
}

// Check returns "" when u may be registered, and otherwise the reason it
// may not.
func (p *ExtensionPolicy) Check(u *url.URL) string {
	if p == nil || p.origins.Size() == 0 {
		return ""
	}
	if _, ok := p.origins.Load(origin(u)); ok {
		return ""
	}
	return fmt.Sprintf("origin %s is not in the extension allow-list", origin(u))
}

// Origins returns the allowed origins in no particular order.
func (p *ExtensionPolicy) Origins() []string {
	out := make([]string, 0, p.origins.Size())
	p.origins.Range(func(o string, _ struct{}) bool {
		out = append(out, o)
		return true
	})
	return out
}

func origin(u *url.URL) string {
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}
