// Package authz is the pure authorization gate. It decides, it never
// fetches: callers hand it a resolved identity and (for ownership-scoped
// actions) the resource owner's ID. No storage or network access, so it
// is trivially unit-testable and thread-safe.
package authz

// Identity is the decoded caller as the handlers see it after token
// verification and user lookup.
type Identity struct {
	UserID string
	Active bool
	Admin  bool
}

type Action string

const (
	ActionUserList   Action = "user.list"
	ActionUserRead   Action = "user.read"
	ActionUserUpdate Action = "user.update"
	ActionUserDelete Action = "user.delete"
	ActionPostCreate Action = "post.create"
	ActionPostUpdate Action = "post.update"
	ActionPostDelete Action = "post.delete"
)

type requirement int

const (
	requireActive requirement = iota // any active identity
	requireOwner                     // resource owner or admin
	requireAdmin                     // admin only
)

// The rule table. One row per action instead of conditionals scattered
// across handlers.
var rules = map[Action]requirement{
	ActionUserList:   requireAdmin,
	ActionUserRead:   requireOwner,
	ActionUserUpdate: requireOwner,
	ActionUserDelete: requireAdmin,
	ActionPostCreate: requireActive,
	ActionPostUpdate: requireOwner,
	ActionPostDelete: requireOwner,
}

type DenyReason string

const (
	DenyInactive  DenyReason = "inactive"
	DenyForbidden DenyReason = "forbidden"
	DenyNotOwner  DenyReason = "not_owner"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize evaluates the rule table in a fixed order: inactive first,
// then the admin requirement, then ownership. resourceOwner is ignored
// unless the action is ownership-scoped.
func Authorize(id Identity, action Action, resourceOwner string) Decision {
	if !id.Active {
		return Deny(DenyInactive)
	}

	req, ok := rules[action]

	if !ok {
		// unknown actions never slip through
		return Deny(DenyForbidden)
	}

	switch req {
	case requireAdmin:
		if !id.Admin {
			return Deny(DenyForbidden)
		}

	case requireOwner:
		if id.UserID != resourceOwner && !id.Admin {
			return Deny(DenyNotOwner)
		}
	}

	return Allow()
}
