package rbac

import (
	"context"
	"strings"
)

// Checker answers permission questions against a role policy. Grants are
// exact ("content:view"), namespace wildcards ("content:*") or "*".
type Checker struct {
	RolePermissions map[string][]string
}

// NewChecker uses RolePermissions when rp is nil.
func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

func (c *Checker) Has(role, perm string) bool {
	for _, grant := range c.RolePermissions[role] {
		if grants(grant, perm) {
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

// Allows checks perm for the role carried by ctx. A request without a role
// is denied.
func (c *Checker) Allows(ctx context.Context, perms ...string) bool {
	role := RoleFromContext(ctx)
	return role != "" && c.Any(role, perms...)
}

func grants(grant, perm string) bool {
	switch {
	case grant == "*", grant == perm:
		return true
	case strings.HasSuffix(grant, ":*"):
		return strings.HasPrefix(perm, strings.TrimSuffix(grant, "*"))
	}
	return false
}

// Can is Allows on the default policy.
func Can(ctx context.Context, perm string) bool {
	return defaultChecker.Allows(ctx, perm)
}

type ctxKey struct{}

var ctxKeyRole = ctxKey{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxKeyRole, role)
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(ctxKeyRole).(string)
	return role
}
