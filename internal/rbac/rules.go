package rbac

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// DefaultPolicy: employees take the induction; admins manage its content.
var DefaultPolicy = Policy{
	RoleEmployee: {
		"quiz:view",
		"attempt:create",
		"attempt:answer",
		"attempt:submit",
		"session:own",
		"documents:view",
		"assets:view",
		"results:view-own",
	},
	RoleAdmin: {
		Wildcard,
	},
}
