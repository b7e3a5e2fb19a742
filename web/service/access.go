package service

import (
	"fmt"

	"github.com/tridentstudios/sitepanel/database/model"
)

// Action is a privileged operation gated by the access policy.
type Action string

const (
	ActionEditContent      Action = "edit-content"
	ActionPublish          Action = "publish"
	ActionRestoreBackup    Action = "restore-backup"
	ActionManageUsers      Action = "manage-users"
	ActionClearAuditLog    Action = "clear-audit-log"
	ActionAssignArtistCard Action = "assign-artist-card"
)

// requiredRoles maps each action to the roles that may perform it, any-of.
// Roles are independent capabilities, not a hierarchy; admin appears
// explicitly wherever it is allowed.
var requiredRoles = map[Action][]model.Role{
	ActionEditContent:      {model.RoleWebsiteEditor, model.RoleAdmin},
	ActionPublish:          {model.RoleWebsiteEditor, model.RoleAdmin},
	ActionRestoreBackup:    {model.RoleAdmin},
	ActionManageUsers:      {model.RoleAdmin},
	ActionClearAuditLog:    {model.RoleAdmin},
	ActionAssignArtistCard: {model.RoleAdmin},
}

// AccessPolicy decides whether a user may perform an action. Any UI-side
// hiding of controls is a convenience only; this server-side check is the
// authoritative one.
type AccessPolicy struct {
	roleService RoleService
}

// Authorize returns nil when any of the user's roles satisfies the action,
// and a reasoned ErrForbidden otherwise. Unknown actions are denied.
func (p *AccessPolicy) Authorize(user *model.User, action Action) error {
	required, ok := requiredRoles[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrForbidden, action)
	}
	if user != nil {
		for _, role := range required {
			if p.roleService.HasRole(user, role) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s requires one of %v", ErrForbidden, action, required)
}
