// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

// URL converts an absolute URL. Values without a scheme are rejected.
func URL(s string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fail[*url.URL](s, err)
	}
	if u.Scheme == "" {
		return fail[*url.URL](s, errors.New("missing scheme"))
	}
	return u, nil
}

// Port returns a converter for a TCP/UDP port restricted to [min, max].
func Port(min, max uint16) Func[uint16] {
	return func(s string) (uint16, error) {
		v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
		if err != nil {
			var ne *strconv.NumError
			if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
				return fail[uint16](s, fmt.Errorf("port must be between %d-%d", min, max))
			}
			return fail[uint16](s, errors.New("not a port number"))
		}
		port := uint16(v)
		if port < min || port > max {
			return fail[uint16](s, fmt.Errorf("port must be between %d-%d", min, max))
		}
		return port, nil
	}
}

// ParsePortRange parses a "min-max" port range such as "1-65535".
func ParsePortRange(rangeStr string) (min, max uint16, err error) {
	lo, hi, ok := strings.Cut(rangeStr, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid port range format %q (expected \"min-max\")", rangeStr)
	}
	minVal, err := strconv.ParseUint(lo, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min port in range %q: %w", rangeStr, err)
	}
	maxVal, err := strconv.ParseUint(hi, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max port in range %q: %w", rangeStr, err)
	}
	if minVal > maxVal {
		return 0, 0, fmt.Errorf("invalid port range %q: min (%d) > max (%d)", rangeStr, minVal, maxVal)
	}
	return uint16(minVal), uint16(maxVal), nil
}

// Addr converts an IPv4 or IPv6 address.
func Addr(s string) (netip.Addr, error) {
	a, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return fail[netip.Addr](s, err)
	}
	return a, nil
}

// Prefix converts a CIDR prefix such as 10.0.0.0/8.
func Prefix(s string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(strings.TrimSpace(s))
	if err != nil {
		return fail[netip.Prefix](s, err)
	}
	return p, nil
}

// Semver converts a semantic version. A leading "v" is accepted.
func Semver(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return fail[*semver.Version](s, err)
	}
	return v, nil
}

// SemverConstraint converts a version constraint such as ">= 1.2, < 2".
func SemverConstraint(s string) (*semver.Constraints, error) {
	c, err := semver.NewConstraint(strings.TrimSpace(s))
	if err != nil {
		return fail[*semver.Constraints](s, err)
	}
	return c, nil
}

// UUID converts a UUID in any of the forms accepted by uuid.Parse.
func UUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return fail[uuid.UUID](s, err)
	}
	return id, nil
}

// Glob compiles a shell-style glob pattern. '/' acts as a separator so
// that '*' does not match across path segments.
func Glob(s string) (glob.Glob, error) {
	g, err := glob.Compile(s, '/')
	if err != nil {
		return fail[glob.Glob](s, err)
	}
	return g, nil
}
