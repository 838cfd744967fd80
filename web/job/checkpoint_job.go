// Package job contains the scheduled background tasks of the web server.
package job

import (
	"github.com/drinkrate/drinkrate/database"
	"github.com/drinkrate/drinkrate/logger"
	"github.com/drinkrate/drinkrate/util/common"
)

// CheckpointJob folds the SQLite write-ahead log back into the database file.
type CheckpointJob struct {
	checkpoint func() error
}

func NewCheckpointJob() *CheckpointJob {
	return &CheckpointJob{checkpoint: database.Checkpoint}
}

func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")

	if !database.IsSQLite() {
		return
	}
	if err := j.checkpoint(); err != nil {
		logger.Warning("checkpoint database failed:", err)
		return
	}
	logger.Debug("database checkpoint done")
}
