package rbac

import "strings"

type Role string

type Permission string

// Wildcard grants everything; a trailing "*" grants a resource prefix,
// e.g. "results:*" covers "results:view-all".
const Wildcard Permission = "*"

// implies reports whether holding p satisfies a check for want.
func (p Permission) implies(want Permission) bool {
	if p == Wildcard || p == want {
		return true
	}
	if prefix, ok := strings.CutSuffix(string(p), "*"); ok {
		return strings.HasPrefix(string(want), prefix)
	}
	return false
}

// Policy maps each role onto the permissions it holds.
type Policy map[Role][]Permission

type Checker struct {
	policy Policy
}

func NewChecker(policy Policy) *Checker {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Checker{policy: policy}
}

func (c *Checker) Has(role, perm string) bool {
	for _, held := range c.policy[Role(role)] {
		if held.implies(Permission(perm)) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func (c *Checker) All(role string, perms ...string) bool {
	for _, p := range perms {
		if !c.Has(role, p) {
			return false
		}
	}
	return true
}
