// Package offerwall turns provider postback parameters into domain postbacks.
// Every provider implements Adapter; the Registry routes a provider name to
// its adapter, source allowlist and reply format.
package offerwall

import (
	"fmt"
	"regexp"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Adapter parses one provider's postback contract.
type Adapter interface {
	// Parse validates params and returns a postback with coins resolved.
	// Provider, SourceIP and Params are filled in by the caller.
	Parse(p Params) (*domain.Postback, error)
	// Reply renders a processed postback the way the provider expects.
	Reply(result *ports.PostbackResult) Reply
	// PlainText reports whether errors must be answered as text.
	PlainText() bool
}

// Reply is a provider-specific success body. Exactly one of Text and JSON is set.
type Reply struct {
	Text string
	JSON any
}

// Settings configures one provider.
type Settings struct {
	Enabled    bool
	Secret     string
	Rate       float64
	AllowedIPs []string
}

// Route is a resolved provider: its adapter plus source allowlist.
type Route struct {
	Name    string
	Adapter Adapter
	allow   *Allowlist
}

// Allows reports whether ip may post to this provider.
func (r *Route) Allows(ip string) bool {
	return r.allow.Allows(ip)
}

// Registry maps provider names to routes.
// Names that are not a dedicated provider fall through to the generic
// adapter, which records the network under the name from the URL.
type Registry struct {
	routes  map[string]*Route
	generic *Route
}

var networkNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)

// NewRegistry builds the enabled providers from settings keyed by provider name.
func NewRegistry(sigSvc ports.SignatureService, settings map[string]Settings) (*Registry, error) {
	r := &Registry{routes: make(map[string]*Route)}

	for name, s := range settings {
		if !s.Enabled {
			continue
		}

		rate := decimal.NewFromFloat(s.Rate)
		if !rate.IsPositive() {
			return nil, fmt.Errorf("offerwall %s: rate must be positive", name)
		}
		allow, err := ParseAllowlist(s.AllowedIPs)
		if err != nil {
			return nil, fmt.Errorf("offerwall %s: %w", name, err)
		}

		var a Adapter
		switch name {
		case domain.ProviderGeneric:
			a = &Generic{secret: s.Secret, sigSvc: sigSvc}
		case domain.ProviderAdswedMedia:
			a = &AdswedMedia{secret: s.Secret, rate: rate, sigSvc: sigSvc}
		case domain.ProviderCPX:
			a = &CPX{secret: s.Secret, rate: rate, sigSvc: sigSvc}
		case domain.ProviderGemiwall:
			a = &Gemiwall{secret: s.Secret}
		case domain.ProviderNotik:
			a = &Notik{secret: s.Secret, rate: rate}
		default:
			return nil, fmt.Errorf("offerwall %s: unknown provider", name)
		}

		route := &Route{Name: name, Adapter: a, allow: allow}
		if name == domain.ProviderGeneric {
			r.generic = route
		}
		r.routes[name] = route
	}

	return r, nil
}

// Lookup resolves the provider named in a postback URL.
func (r *Registry) Lookup(name string) (*Route, error) {
	if route, ok := r.routes[name]; ok {
		return route, nil
	}
	if isDedicated(name) || r.generic == nil || !networkNameRe.MatchString(name) {
		return nil, apperror.ErrUnknownProvider(name)
	}
	return &Route{Name: name, Adapter: r.generic.Adapter, allow: r.generic.allow}, nil
}

func isDedicated(name string) bool {
	switch name {
	case domain.ProviderAdswedMedia, domain.ProviderCPX, domain.ProviderGemiwall, domain.ProviderNotik:
		return true
	}
	return false
}
