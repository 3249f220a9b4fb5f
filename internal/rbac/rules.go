package rbac

const (
	RoleLearner = "learner"
	RoleAuthor  = "author"
	RoleAdmin   = "admin"
)

const (
	PermContentView   = "content:view"
	PermContentWrite  = "content:write"
	PermSessionPlay   = "session:play"
	PermSessionAny    = "session:view-all"
	PermStatementView = "statements:view"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	RoleLearner: {
		PermContentView,
		PermSessionPlay,
	},
	RoleAuthor: {
		"content:*",
		PermSessionPlay,
		PermSessionAny,
		PermStatementView,
	},
	RoleAdmin: {
		"*", // everything
	},
}
