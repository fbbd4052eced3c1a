package nex

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a negotiated NEX library version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion reads "major.minor[.patch]".
func ParseVersion(raw string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("nex: invalid version %q", raw)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("nex: invalid version %q", raw)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// AtLeast compares (major, minor) as an ordered pair.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// HeaderRule selects how the structure header gate is evaluated.
type HeaderRule uint8

const (
	// HeaderRuleVersion: header present when (major, minor) >= (3, 5).
	HeaderRuleVersion HeaderRule = iota
	// HeaderRuleLegacy: header present when major >= 3 and minor >= 5, each
	// checked on its own. NEX 4.0 has no header under this rule.
	HeaderRuleLegacy
)

func ParseHeaderRule(raw string) (HeaderRule, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "version":
		return HeaderRuleVersion, nil
	case "legacy":
		return HeaderRuleLegacy, nil
	default:
		return HeaderRuleVersion, fmt.Errorf("nex: invalid header rule %q", raw)
	}
}

func (r HeaderRule) String() string {
	if r == HeaderRuleLegacy {
		return "legacy"
	}
	return "version"
}

// Context is the per-connection state that drives version-conditional
// parsing. It is read-only for the duration of a decode.
type Context struct {
	NEXVersion   Version
	PRUDPVersion int
	HeaderRule   HeaderRule
}

// HasStructureHeader reports whether structures carry a version/length header.
func (c Context) HasStructureHeader() bool {
	if c.HeaderRule == HeaderRuleLegacy {
		return c.NEXVersion.Major >= 3 && c.NEXVersion.Minor >= 5
	}
	return c.NEXVersion.AtLeast(3, 5)
}
