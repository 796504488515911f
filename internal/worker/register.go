package worker

import (
	"tenure-registry/internal/config"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Task type names shared with the enqueueing side.
const (
	TaskImportValidate = "import:validate"
	TaskImportCommit   = "import:commit"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	importHandler := NewImportTaskHandler(db, redis, cfg)

	mux.HandleFunc(TaskImportValidate, importHandler.HandleValidate)
	mux.HandleFunc(TaskImportCommit, importHandler.HandleCommit)
}
