package service

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tridentstudios/sitepanel/database"
	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/logger"
	"github.com/tridentstudios/sitepanel/util/crypto"
)

// UserService reads and authenticates panel accounts. Emails are unique
// case-insensitively; lookups fold case before comparing.
type UserService struct {
	roleService RoleService
}

func (s *UserService) FindByEmail(email string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return s.roleService.Normalize(user), nil
}

// CheckUser verifies credentials and returns the account on success, nil
// otherwise. OAuth-backed accounts have no local password and never match.
func (s *UserService) CheckUser(email, password string) *model.User {
	user, err := s.FindByEmail(email)
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if user.Provider != "" || user.Password == "" {
		return nil
	}
	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil
	}
	return user
}

// ResolveActor builds the acting user for a request that carries identity
// and role claims. When the email belongs to a known account the stored,
// normalized role set is authoritative; otherwise the claimed role is
// normalized and used as-is, matching how the legacy endpoints behaved.
func (s *UserService) ResolveActor(email string, claimedRole model.Role) *model.User {
	if email != "" {
		if user, err := s.FindByEmail(email); err == nil {
			return user
		}
	}
	actor := &model.User{Email: email, PrimaryRole: claimedRole}
	return s.roleService.Normalize(actor)
}

// GetFirstUser returns the earliest-created account, the seeded admin on a
// fresh install. Used by the CLI.
func (s *UserService) GetFirstUser() (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	if err := db.Model(model.User{}).Order("id ASC").First(user).Error; err != nil {
		return nil, err
	}
	return s.roleService.Normalize(user), nil
}

// UpdateFirstUser resets the first account's email and password from the
// CLI, for recovering a locked-out panel.
func (s *UserService) UpdateFirstUser(email, password string) error {
	user, err := s.GetFirstUser()
	if err != nil {
		return err
	}
	if email != "" {
		user.Email = email
	}
	if password != "" {
		hash, err := crypto.HashPasswordAsBcrypt(password)
		if err != nil {
			return err
		}
		user.Password = hash
	}
	return database.GetDB().Save(user).Error
}

func (s *UserService) UpdateLastLogin(user *model.User) {
	now := time.Now()
	user.LastLogin = &now
	if err := database.GetDB().Model(model.User{}).
		Where("id = ?", user.Id).
		Update("last_login", now).Error; err != nil {
		logger.Warning("update last login err:", err)
	}
}

// SyncUser is the wire shape of one account in a bulk sync, tolerating both
// the legacy single role field and the role list.
type SyncUser struct {
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	Password     string     `json:"password"`
	Provider     string     `json:"provider"`
	OAuthID      string     `json:"oauthId"`
	AvatarURL    string     `json:"avatarUrl"`
	Role         model.Role `json:"role"`
	Roles        []string   `json:"roles"`
	ArtistCardID string     `json:"artistCardId"`
	CreatedAt    *time.Time `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin"`
}

// SyncUsers replaces the stored collection with the provided one: every
// entry is normalized and upserted by email, and accounts absent from the
// payload are removed. Plaintext passwords from legacy clients are hashed
// on the way in; already-hashed values pass through untouched.
func (s *UserService) SyncUsers(users []SyncUser) (int, error) {
	db := database.GetDB()

	count := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		keep := make([]string, 0, len(users))
		for _, in := range users {
			email := strings.TrimSpace(in.Email)
			if email == "" {
				continue
			}

			user := &model.User{}
			err := tx.Where("LOWER(email) = ?", strings.ToLower(email)).First(user).Error
			if database.IsNotFound(err) {
				user = &model.User{Email: email, CreatedAt: time.Now()}
			} else if err != nil {
				return err
			}

			user.Username = in.Username
			user.Provider = in.Provider
			user.OAuthID = in.OAuthID
			user.AvatarURL = in.AvatarURL
			user.ArtistCardID = in.ArtistCardID
			if in.CreatedAt != nil {
				user.CreatedAt = *in.CreatedAt
			}
			if in.LastLogin != nil {
				user.LastLogin = in.LastLogin
			}
			if in.Password != "" {
				if isBcryptHash(in.Password) {
					user.Password = in.Password
				} else {
					hash, err := crypto.HashPasswordAsBcrypt(in.Password)
					if err != nil {
						return err
					}
					user.Password = hash
				}
			}

			roles := make([]model.Role, 0, len(in.Roles))
			for _, r := range in.Roles {
				roles = append(roles, model.Role(r))
			}
			user.SetRoleList(s.roleService.NormalizeRoles(roles, in.Role))
			s.roleService.Normalize(user)

			if err := tx.Save(user).Error; err != nil {
				return err
			}
			keep = append(keep, strings.ToLower(user.Email))
			count++
		}

		if len(keep) > 0 {
			return tx.Where("LOWER(email) NOT IN ?", keep).Delete(&model.User{}).Error
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
