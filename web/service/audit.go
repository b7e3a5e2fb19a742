package service

import (
	"time"

	"github.com/tridentstudios/sitepanel/database"
	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/logger"
)

// AuditLogService keeps the append-only record of privileged actions.
type AuditLogService struct{}

// Record appends an audit entry. Failures are logged and swallowed: losing
// an audit line must never block the publish or restore that triggered it.
func (s *AuditLogService) Record(actorEmail, action, details string) {
	db := database.GetDB()
	if db == nil {
		logger.Warningf("audit store unavailable, dropping entry: %s %s", actorEmail, action)
		return
	}

	entry := model.AuditLog{
		Timestamp:  time.Now(),
		ActorEmail: actorEmail,
		Action:     action,
		Details:    details,
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.Warningf("failed to record audit entry: actor=%s, action=%s, error=%v", actorEmail, action, err)
	}
}

// List returns the most recent entries, newest first. A non-positive limit
// defaults to 50.
func (s *AuditLogService) List(limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	db := database.GetDB()

	var entries []model.AuditLog
	err := db.Model(&model.AuditLog{}).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear truncates the log. Entries are otherwise never mutated, so this is
// the only destructive operation and the caller must hold admin.
func (s *AuditLogService) Clear(actor *model.User) error {
	var access AccessPolicy
	if err := access.Authorize(actor, ActionClearAuditLog); err != nil {
		return err
	}
	if err := database.GetDB().Where("1 = 1").Delete(&model.AuditLog{}).Error; err != nil {
		return err
	}
	email := ""
	if actor != nil {
		email = actor.Email
	}
	s.Record(email, "Cleared audit log", "")
	return nil
}
