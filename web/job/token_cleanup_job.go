package job

import (
	"github.com/tridentstudios/sitepanel/logger"
	"github.com/tridentstudios/sitepanel/web/service"
)

// TokenCleanupJob drops expired password reset tokens.
type TokenCleanupJob struct {
	resetService *service.PasswordResetService
}

func NewTokenCleanupJob(resetService *service.PasswordResetService) *TokenCleanupJob {
	return &TokenCleanupJob{resetService: resetService}
}

func (j *TokenCleanupJob) Run() {
	removed, err := j.resetService.PruneExpired()
	if err != nil {
		logger.Warning("token cleanup job err:", err)
		return
	}
	if removed > 0 {
		logger.Debugf("pruned %d expired reset tokens", removed)
	}
}
