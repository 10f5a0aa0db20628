package rbac_test

import (
	"testing"

	"github.com/brightstep/induction-portal/internal/rbac"
)

func TestEmployeePermissions(t *testing.T) {
	c := rbac.NewChecker(nil)

	allowed := []string{"quiz:view", "attempt:create", "attempt:submit", "documents:view"}
	for _, p := range allowed {
		if !c.Has("employee", p) {
			t.Errorf("employee should have %s", p)
		}
	}

	denied := []string{"questions:create", "documents:manage", "results:view-all", "sessions:list"}
	for _, p := range denied {
		if c.Has("employee", p) {
			t.Errorf("employee should not have %s", p)
		}
	}
}

func TestAdminWildcard(t *testing.T) {
	c := rbac.NewChecker(nil)
	for _, p := range []string{"questions:create", "results:purge", "anything:at-all"} {
		if !c.Has("admin", p) {
			t.Errorf("admin should have %s", p)
		}
	}
}

func TestUnknownRoleHasNothing(t *testing.T) {
	c := rbac.NewChecker(nil)
	if c.Has("visitor", "quiz:view") {
		t.Error("unknown role should have no permissions")
	}
	if c.Any("", "quiz:view", "documents:view") {
		t.Error("empty role should have no permissions")
	}
}

func TestPrefixPatterns(t *testing.T) {
	c := rbac.NewChecker(rbac.Policy{
		"auditor": {"results:*"},
	})
	if !c.Has("auditor", "results:view-all") {
		t.Error("prefix pattern should match")
	}
	if c.Has("auditor", "questions:create") {
		t.Error("prefix pattern should not leak across resources")
	}
}
