// Package model defines the persisted records for the panel: accounts, audit
// entries, artist cards, reset tokens and settings.
package model

import (
	"strings"
	"time"
)

// Role is an independent capability tag on a user. Roles are not
// hierarchical; a user may hold several at once.
type Role string

const (
	RoleViewer        Role = "viewer"
	RoleArtist        Role = "artist"
	RoleWebsiteEditor Role = "website-editor"
	RoleAdmin         Role = "admin"
)

// User is a panel account. Roles holds the canonical role set as a
// comma-separated list; PrimaryRole mirrors its first entry and is kept for
// backward display compatibility. Password is empty for OAuth accounts,
// which carry Provider and OAuthID instead.
type User struct {
	Id           int        `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string     `json:"email" gorm:"uniqueIndex"`
	Username     string     `json:"username"`
	Password     string     `json:"-"`
	Provider     string     `json:"provider,omitempty"`
	OAuthID      string     `json:"oauthId,omitempty"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	Roles        string     `json:"-" gorm:"column:roles"`
	PrimaryRole  Role       `json:"role"`
	ArtistCardID string     `json:"artistCardId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin"`
}

// RoleList splits the stored role set. The stored form is already
// normalized; callers that need guarantees go through the role service.
func (u *User) RoleList() []Role {
	if u.Roles == "" {
		return nil
	}
	parts := strings.Split(u.Roles, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, Role(p))
		}
	}
	return roles
}

// SetRoleList stores roles and keeps PrimaryRole in sync.
func (u *User) SetRoleList(roles []Role) {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	u.Roles = strings.Join(parts, ",")
	if len(roles) > 0 {
		u.PrimaryRole = roles[0]
	}
}

// AuditLog is an append-only record of a privileged action. Entries are
// never mutated; only an explicit admin clear truncates the log.
type AuditLog struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Timestamp  time.Time `json:"timestamp"`
	ActorEmail string    `json:"actorEmail"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
}

// ArtistCard is one entry of the key->record card store. Cards are not
// versioned.
type ArtistCard struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	CardID      string    `json:"cardId" gorm:"uniqueIndex"`
	Name        string    `json:"name"`
	RoleTitle   string    `json:"roleTitle"`
	DiscordTag  string    `json:"discordTag"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatarUrl"`
	Socials     string    `json:"socials"`
	LastUpdated time.Time `json:"lastUpdated"`
	UpdatedBy   string    `json:"updatedBy"`
}

// ResetToken is a single-use password reset token.
type ResetToken struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email"`
	Token     string    `json:"token" gorm:"uniqueIndex"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type Setting struct {
	Id    int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" form:"key"`
	Value string `json:"value" form:"value"`
}
