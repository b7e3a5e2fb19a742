package service

import (
	"reflect"
	"testing"

	"github.com/tridentstudios/sitepanel/database/model"
)

func TestNormalizeRoles(t *testing.T) {
	var rs RoleService

	tests := []struct {
		name   string
		roles  []model.Role
		legacy model.Role
		want   []model.Role
	}{
		{
			name:  "dedup keeps first-seen order",
			roles: []model.Role{"admin", "artist", "admin", "viewer", "artist"},
			want:  []model.Role{"admin", "artist", "viewer"},
		},
		{
			name:  "empty entries dropped",
			roles: []model.Role{"", "website-editor", ""},
			want:  []model.Role{"website-editor"},
		},
		{
			name:   "legacy single role fallback",
			roles:  nil,
			legacy: "admin",
			want:   []model.Role{"admin"},
		},
		{
			name: "viewer fallback when nothing at all",
			want: []model.Role{"viewer"},
		},
		{
			name:   "role list wins over legacy",
			roles:  []model.Role{"artist"},
			legacy: "admin",
			want:   []model.Role{"artist"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := rs.NormalizeRoles(tc.roles, tc.legacy)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeUser(t *testing.T) {
	var rs RoleService

	t.Run("legacy record with only a primary role", func(t *testing.T) {
		user := &model.User{Email: "a@b.c", PrimaryRole: "admin"}
		rs.Normalize(user)
		if user.Roles != "admin" {
			t.Errorf("roles = %q", user.Roles)
		}
		if user.PrimaryRole != "admin" {
			t.Errorf("primary role = %q", user.PrimaryRole)
		}
	})

	t.Run("primary role mirrors first entry", func(t *testing.T) {
		user := &model.User{Email: "a@b.c", PrimaryRole: "viewer"}
		user.SetRoleList([]model.Role{"website-editor", "viewer"})
		rs.Normalize(user)
		if user.PrimaryRole != "website-editor" {
			t.Errorf("primary role = %q", user.PrimaryRole)
		}
	})

	t.Run("artist card cleared without artist role", func(t *testing.T) {
		user := &model.User{Email: "a@b.c", ArtistCardID: "card-1"}
		user.SetRoleList([]model.Role{"website-editor"})
		rs.Normalize(user)
		if user.ArtistCardID != "" {
			t.Errorf("card kept without artist role: %q", user.ArtistCardID)
		}
	})

	t.Run("artist keeps card", func(t *testing.T) {
		user := &model.User{Email: "a@b.c", ArtistCardID: "card-1"}
		user.SetRoleList([]model.Role{"artist"})
		rs.Normalize(user)
		if user.ArtistCardID != "card-1" {
			t.Errorf("card lost: %q", user.ArtistCardID)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		user := &model.User{Email: "a@b.c", PrimaryRole: "admin", ArtistCardID: "card-1"}
		user.SetRoleList([]model.Role{"admin", "artist", "admin"})
		rs.Normalize(user)
		once := *user
		rs.Normalize(user)
		if *user != once {
			t.Errorf("second pass changed the record: %+v vs %+v", once, *user)
		}
	})
}

func TestHasRole(t *testing.T) {
	var rs RoleService

	user := &model.User{Email: "a@b.c"}
	user.SetRoleList([]model.Role{"artist", "website-editor"})

	if !rs.HasRole(user, model.RoleArtist) {
		t.Error("artist role missing")
	}
	if rs.HasRole(user, model.RoleAdmin) {
		t.Error("admin role granted out of nowhere")
	}

	empty := &model.User{Email: "x@y.z"}
	if !rs.HasRole(empty, model.RoleViewer) {
		t.Error("viewer fallback not applied")
	}
}
