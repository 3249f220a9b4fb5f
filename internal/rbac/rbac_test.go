package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mind-engage/mindengage-flashcards/internal/rbac"
)

func TestCheckerDefaultPolicy(t *testing.T) {
	c := rbac.NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{rbac.RoleLearner, rbac.PermSessionPlay, true},
		{rbac.RoleLearner, rbac.PermContentWrite, false},
		{rbac.RoleLearner, rbac.PermStatementView, false},
		{rbac.RoleAuthor, rbac.PermContentWrite, true}, // content:*
		{rbac.RoleAuthor, rbac.PermStatementView, true},
		{rbac.RoleAdmin, "anything:at-all", true},
		{"stranger", rbac.PermContentView, false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
	if !c.Any(rbac.RoleLearner, rbac.PermContentWrite, rbac.PermContentView) {
		t.Error("Any should match content:view")
	}
}

func TestCheckerAllowsUsesContextRole(t *testing.T) {
	c := rbac.NewChecker(map[string][]string{"editor": {"content:*"}})
	ctx := rbac.WithRole(context.Background(), "editor")
	if !c.Allows(ctx, rbac.PermContentWrite) {
		t.Error("content:* should grant content:write")
	}
	if c.Allows(ctx, "contentx:write") {
		t.Error("namespace wildcard must stop at the colon")
	}
	if c.Allows(context.Background(), rbac.PermContentView) {
		t.Error("no role must be denied")
	}
	if !c.Allows(ctx, rbac.PermStatementView, rbac.PermContentView) {
		t.Error("Allows should accept any of the permissions")
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := rbac.Require(rbac.PermContentWrite)(ok)

	for role, want := range map[string]int{
		"":               http.StatusForbidden,
		rbac.RoleLearner: http.StatusForbidden,
		rbac.RoleAuthor:  http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodPut, "/content/x", nil)
		if role != "" {
			req = req.WithContext(rbac.WithRole(context.Background(), role))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("role %q: status %d, want %d", role, rr.Code, want)
		}
	}
}
