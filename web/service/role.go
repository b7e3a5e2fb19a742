package service

import (
	"github.com/tridentstudios/sitepanel/database/model"
)

// RoleService turns whatever role data a record carries, a legacy single
// role, a role list, or nothing at all, into the canonical non-empty role
// set every other component consumes. Nothing outside this service should
// branch on the raw shape.
type RoleService struct{}

// NormalizeRoles deduplicates roles preserving first-seen order, drops
// empty entries, and falls back to the legacy single role and finally to
// viewer so the result is never empty.
func (s *RoleService) NormalizeRoles(roles []model.Role, legacy model.Role) []model.Role {
	seen := make(map[model.Role]bool, len(roles)+1)
	out := make([]model.Role, 0, len(roles)+1)

	add := func(r model.Role) {
		if r == "" || seen[r] {
			return
		}
		seen[r] = true
		out = append(out, r)
	}
	for _, r := range roles {
		add(r)
	}
	if len(out) == 0 {
		add(legacy)
	}
	if len(out) == 0 {
		add(model.RoleViewer)
	}
	return out
}

// Normalize rewrites a user record in place to the canonical form:
// non-empty deduplicated role set, primary role mirroring its first entry,
// and no artist card without the artist role. It is idempotent; callers
// persist the normalized form.
func (s *RoleService) Normalize(user *model.User) *model.User {
	roles := s.NormalizeRoles(user.RoleList(), user.PrimaryRole)
	user.SetRoleList(roles)
	if !s.HasRole(user, model.RoleArtist) {
		user.ArtistCardID = ""
	}
	return user
}

// HasRole reports whether the user's normalized role set contains role.
func (s *RoleService) HasRole(user *model.User, role model.Role) bool {
	for _, r := range s.NormalizeRoles(user.RoleList(), user.PrimaryRole) {
		if r == role {
			return true
		}
	}
	return false
}
