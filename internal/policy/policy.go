// Package policy implements the single access-control decision governing
// every mutation in the system: mutations on a resource are permitted only
// for its creator, and insight resources are additionally restricted to the
// manager role for every operation.
package policy

import "github.com/askloop/askloop-backend/internal/models"

// Action names the operation being authorized.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Kind names the resource type being acted on.
type Kind string

const (
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
	KindInsight  Kind = "insight"
)

// Resource is the minimal view of a stored document the policy needs.
// CreatedBy may be empty for create/list operations that have no target
// document yet.
type Resource struct {
	Kind      Kind
	CreatedBy string
}

// Decision is the outcome of an authorization check. Reason is only set on
// denial and is safe to surface to the client.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// DeniedError carries a denial reason across service boundaries; the reason
// is safe to return to the client.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

// Err returns nil for an allow and a *DeniedError for a deny.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}

// Authorize is pure and side-effect-free. Callers must load the resource
// before invoking it for update/delete and must treat a denial as terminal:
// no partial mutation may happen before the check passes.
func Authorize(action Action, res Resource, ident models.Identity) Decision {
	if res.Kind == KindInsight {
		if !ident.IsManager() {
			return deny("access denied: managers only")
		}
		if action == ActionUpdate || action == ActionDelete {
			if res.CreatedBy != ident.UserID {
				return deny("not authorized")
			}
		}
		return allow()
	}

	// Questions and answers: reads and creates are open to any
	// authenticated identity, mutations to the creator only.
	switch action {
	case ActionUpdate, ActionDelete:
		if res.CreatedBy != ident.UserID {
			return deny("not authorized")
		}
	}
	return allow()
}
