package offerwall

import (
	"net/url"
	"strings"
)

// Params is the flattened postback parameter set (query first, then form).
type Params struct {
	exact map[string]string
	fold  map[string]string
}

// NewParams merges value sets. Earlier sets win on key collisions.
func NewParams(sets ...url.Values) Params {
	p := Params{exact: make(map[string]string), fold: make(map[string]string)}
	for _, set := range sets {
		for k, vs := range set {
			if len(vs) == 0 {
				continue
			}
			if _, ok := p.exact[k]; ok {
				continue
			}
			v := strings.TrimSpace(vs[0])
			p.exact[k] = v
			if lk := strings.ToLower(k); p.fold[lk] == "" {
				p.fold[lk] = v
			}
		}
	}
	return p
}

// Get returns the first non-empty value among names, in order.
// Each name is matched exactly before falling back to a case-insensitive match.
func (p Params) Get(names ...string) string {
	for _, n := range names {
		if v := p.exact[n]; v != "" {
			return v
		}
		if v := p.fold[strings.ToLower(n)]; v != "" {
			return v
		}
	}
	return ""
}

// Map returns a copy of all parameters for the conversion log.
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p.exact))
	for k, v := range p.exact {
		out[k] = v
	}
	return out
}
