package offerwall

import (
	"fmt"
	"net/netip"
	"strings"
)

// Allowlist holds the source networks a provider may post from.
// A nil or empty list allows everyone.
type Allowlist struct {
	prefixes []netip.Prefix
}

// ParseAllowlist accepts plain IPs and CIDRs.
func ParseAllowlist(entries []string) (*Allowlist, error) {
	a := &Allowlist{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			prefix, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("allowed ip %q: %w", e, err)
			}
			a.prefixes = append(a.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("allowed ip %q: %w", e, err)
		}
		addr = addr.Unmap()
		a.prefixes = append(a.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return a, nil
}

func (a *Allowlist) Allows(ip string) bool {
	if a == nil || len(a.prefixes) == 0 {
		return true
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range a.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
