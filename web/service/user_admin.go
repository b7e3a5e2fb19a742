package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tridentstudios/sitepanel/database"
	"github.com/tridentstudios/sitepanel/database/model"
)

// UserAdminService covers the admin-only account management surface. Every
// write path normalizes the role set before persisting, so stored accounts
// always carry a non-empty, deduplicated role list.
type UserAdminService struct {
	roleService RoleService
}

func (s *UserAdminService) ListUsers() ([]model.User, error) {
	db := database.GetDB()
	var users []model.User
	if err := db.Model(model.User{}).Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		s.roleService.Normalize(&users[i])
	}
	return users, nil
}

func (s *UserAdminService) GetUser(id int) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	if err := db.Model(model.User{}).First(user, id).Error; err != nil {
		return nil, err
	}
	return s.roleService.Normalize(user), nil
}

func (s *UserAdminService) CreateUser(email, username, password string, roles []model.Role, artistCardID string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	db := database.GetDB()
	var count int64
	if err := db.Model(model.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("a user with email %s already exists", email)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		ArtistCardID: artistCardID,
		CreatedAt:    time.Now(),
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	user.SetRoleList(s.roleService.NormalizeRoles(roles, ""))
	s.roleService.Normalize(user)

	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateRoles replaces a user's role set. Normalization clears the artist
// card assignment when the artist role is removed.
func (s *UserAdminService) UpdateRoles(id int, roles []model.Role) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	user.SetRoleList(s.roleService.NormalizeRoles(roles, ""))
	s.roleService.Normalize(user)
	if err := database.GetDB().Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// AssignArtistCard binds an artist card to a user. The user must hold the
// artist role, otherwise normalization would drop the assignment again on
// the next read.
func (s *UserAdminService) AssignArtistCard(id int, cardID string) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if cardID != "" && !s.roleService.HasRole(user, model.RoleArtist) {
		return nil, fmt.Errorf("user %s does not have the %s role", user.Email, model.RoleArtist)
	}
	user.ArtistCardID = cardID
	if err := database.GetDB().Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserAdminService) SetPassword(id int, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return database.GetDB().Model(model.User{}).
		Where("id = ?", user.Id).
		Update("password", string(hash)).Error
}

func (s *UserAdminService) DeleteUser(id int) error {
	return database.GetDB().Delete(&model.User{}, id).Error
}
