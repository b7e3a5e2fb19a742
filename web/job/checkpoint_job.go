package job

import (
	"github.com/tridentstudios/sitepanel/database"
	"github.com/tridentstudios/sitepanel/logger"
)

// CheckpointJob flushes the sqlite WAL back into the main database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
	}
}
