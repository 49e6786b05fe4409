// Package authz decides what a principal may see and do. Every listing
// narrows through VisibleScope and every mutation goes through Can.
package authz

import (
	"workforce/apperror"
	"workforce/models"
)

// Principal is the authenticated actor behind a request.
type Principal struct {
	ID           uint
	Role         models.Role
	SupervisorID *uint
}

func PrincipalOf(u *models.User) Principal {
	return Principal{ID: u.ID, Role: u.Role, SupervisorID: u.SupervisorID}
}

type Entity int

const (
	EntityTask Entity = iota
	EntityAttendance
	EntityRating
	EntityUser
)

type ScopeKind int

const (
	// ScopeNone matches nothing.
	ScopeNone ScopeKind = iota
	// ScopeSelf matches records owned by UserID.
	ScopeSelf
	// ScopeTeam matches records owned by employees supervised by UserID.
	ScopeTeam
	// ScopeAll matches every record.
	ScopeAll
)

// Scope is a visibility predicate over record owners. For attendance and
// tasks the owner is the employee, for ratings it is the rated task's
// employee, for users it is the user itself.
type Scope struct {
	Kind   ScopeKind
	UserID uint
}

func None() Scope                { return Scope{Kind: ScopeNone} }
func All() Scope                 { return Scope{Kind: ScopeAll} }
func Self(userID uint) Scope     { return Scope{Kind: ScopeSelf, UserID: userID} }
func Team(supervisor uint) Scope { return Scope{Kind: ScopeTeam, UserID: supervisor} }

// Contains evaluates the scope against an owner and the owner's
// supervisor.
func (s Scope) Contains(ownerID uint, ownerSupervisorID *uint) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeSelf:
		return ownerID == s.UserID
	case ScopeTeam:
		return ownerSupervisorID != nil && *ownerSupervisorID == s.UserID
	}
	return false
}

// VisibleScope returns the records of the given entity p may list.
// Unknown roles see nothing.
func VisibleScope(p Principal, entity Entity) Scope {
	switch p.Role {
	case models.RoleAdmin:
		return All()
	case models.RoleSupervisor:
		return Team(p.ID)
	case models.RoleEmployee:
		return Self(p.ID)
	}
	return None()
}

type Action int

const (
	// ActionView is single-record access to a task or attendance.
	ActionView Action = iota
	// ActionCreateTask creates a task for Resource.OwnerID.
	ActionCreateTask
	// ActionUpdate edits any task field.
	ActionUpdate
	// ActionComplete only marks a task as completed.
	ActionComplete
	ActionDelete
	ActionRate
	// ActionClock is clocking in or out for oneself.
	ActionClock
	// ActionViewEmployee reads another employee's attendance or report.
	ActionViewEmployee
	ActionManageUsers
)

// Resource describes the record an action targets by its owning employee.
type Resource struct {
	OwnerID           uint
	OwnerSupervisorID *uint
}

// ResourceOf builds a Resource from the owning employee record.
func ResourceOf(owner *models.User) Resource {
	if owner == nil {
		return Resource{}
	}
	return Resource{OwnerID: owner.ID, OwnerSupervisorID: owner.SupervisorID}
}

func (r Resource) ownedBy(p Principal) bool {
	return r.OwnerID == p.ID
}

func (r Resource) supervisedBy(p Principal) bool {
	return r.OwnerSupervisorID != nil && *r.OwnerSupervisorID == p.ID
}

// Can returns nil when p may perform action on res, or a Forbidden error
// naming the reason.
func Can(p Principal, action Action, res Resource) error {
	switch action {
	case ActionView:
		switch p.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleSupervisor:
			if res.supervisedBy(p) {
				return nil
			}
		case models.RoleEmployee:
			if res.ownedBy(p) {
				return nil
			}
		}
		return apperror.Forbidden("Not authorized to access this task.")

	case ActionCreateTask:
		switch p.Role {
		case models.RoleAdmin, models.RoleSupervisor:
			return nil
		case models.RoleEmployee:
			if res.ownedBy(p) {
				return nil
			}
		}
		return apperror.Forbidden("You cannot create tasks.")

	case ActionUpdate:
		switch p.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleSupervisor:
			if res.supervisedBy(p) {
				return nil
			}
		case models.RoleEmployee:
			return apperror.Forbidden("Employees can only mark tasks as completed.")
		}
		return apperror.Forbidden("Not authorized to update this task.")

	case ActionComplete:
		switch p.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleSupervisor:
			if res.supervisedBy(p) {
				return nil
			}
		case models.RoleEmployee:
			if res.ownedBy(p) {
				return nil
			}
		}
		return apperror.Forbidden("Not authorized to update this task.")

	case ActionDelete:
		// Admins and supervisors are not narrowed to their own team here.
		switch p.Role {
		case models.RoleAdmin, models.RoleSupervisor:
			return nil
		case models.RoleEmployee:
			if res.ownedBy(p) {
				return nil
			}
		}
		return apperror.Forbidden("Not authorized to delete this task.")

	case ActionRate:
		switch p.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleSupervisor:
			if res.supervisedBy(p) {
				return nil
			}
		}
		return apperror.Forbidden("You can only rate your team's tasks.")

	case ActionClock:
		if p.Role == models.RoleEmployee && res.ownedBy(p) {
			return nil
		}
		return apperror.Forbidden("Only employees can clock in or out.")

	case ActionViewEmployee:
		switch p.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleSupervisor:
			if res.supervisedBy(p) {
				return nil
			}
			return apperror.Forbidden("Not authorized to view this employee.")
		}
		return apperror.Forbidden("Not authorized.")

	case ActionManageUsers:
		if p.Role == models.RoleAdmin {
			return nil
		}
		return apperror.Forbidden("Only admins can manage users.")
	}
	return apperror.Forbidden("Not authorized.")
}

// ManagesEmployees reports whether p's role may look at employees other
// than itself at all. Team membership is still checked per employee with
// ActionViewEmployee.
func ManagesEmployees(p Principal) bool {
	switch p.Role {
	case models.RoleAdmin, models.RoleSupervisor:
		return true
	}
	return false
}
