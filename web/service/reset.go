package service

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tridentstudios/sitepanel/database"
	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/logger"
	"github.com/tridentstudios/sitepanel/util/random"
)

// ResetMailer delivers a password reset link to a user.
type ResetMailer interface {
	SendResetLink(email, link string) error
}

// LogMailer is the default mailer: it writes the link to the application
// log instead of sending mail. Deployments without an SMTP relay read the
// link out of the log.
type LogMailer struct{}

func (LogMailer) SendResetLink(email, link string) error {
	logger.Infof("password reset requested for %s: %s", email, link)
	return nil
}

// PasswordResetService issues and redeems single-use reset tokens.
type PasswordResetService struct {
	userService UserService
	tokenTTL    time.Duration
	mailer      ResetMailer
}

func NewPasswordResetService(tokenTTL time.Duration, mailer ResetMailer) *PasswordResetService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &PasswordResetService{tokenTTL: tokenTTL, mailer: mailer}
}

// Request issues a reset token for the given email. It reports success even
// when no such account exists, so the endpoint does not leak which emails
// are registered.
func (s *PasswordResetService) Request(email, baseURL string) error {
	user, err := s.userService.FindByEmail(email)
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		return err
	}
	if user.Provider != "" {
		// OAuth accounts have no local password to reset.
		return nil
	}

	token := random.Seq(48)
	entry := model.ResetToken{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokenTTL),
		CreatedAt: time.Now(),
	}
	db := database.GetDB()
	if err := db.Where("email = ?", user.Email).Delete(&model.ResetToken{}).Error; err != nil {
		return err
	}
	if err := db.Create(&entry).Error; err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)
	return s.mailer.SendResetLink(user.Email, link)
}

// Verify resolves a token to the email it was issued for, rejecting unknown
// and expired tokens alike.
func (s *PasswordResetService) Verify(token string) (string, error) {
	entry := model.ResetToken{}
	err := database.GetDB().Model(model.ResetToken{}).
		Where("token = ?", token).
		First(&entry).Error
	if database.IsNotFound(err) {
		return "", fmt.Errorf("invalid or expired reset token")
	} else if err != nil {
		return "", err
	}
	if time.Now().After(entry.ExpiresAt) {
		return "", fmt.Errorf("invalid or expired reset token")
	}
	return entry.Email, nil
}

// Reset redeems a token and sets the account's new password. The token is
// consumed whether or not it had time left.
func (s *PasswordResetService) Reset(token, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	email, err := s.Verify(token)
	if err != nil {
		return err
	}
	user, err := s.userService.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	db := database.GetDB()
	if err := db.Model(model.User{}).
		Where("id = ?", user.Id).
		Update("password", string(hash)).Error; err != nil {
		return err
	}
	return db.Where("email = ?", email).Delete(&model.ResetToken{}).Error
}

// PruneExpired drops tokens past their expiry and returns how many were
// removed. Run periodically from the scheduler.
func (s *PasswordResetService) PruneExpired() (int64, error) {
	result := database.GetDB().
		Where("expires_at < ?", time.Now()).
		Delete(&model.ResetToken{})
	return result.RowsAffected, result.Error
}
