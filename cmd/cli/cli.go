package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/axellelanca/coursecatalog/cmd"
	"github.com/axellelanca/coursecatalog/internal/config"
	"github.com/axellelanca/coursecatalog/internal/database"
	"github.com/axellelanca/coursecatalog/internal/logger"
)

// env is what every CLI command needs. Call close when done. Logs go to
// logOut (the command's stderr) so stdout carries only the command output.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func openEnv(logOut io.Writer) (*env, error) {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &env{cfg: cfg, log: logger.NewTo(cfg, logOut), db: db}, nil
}

func (e *env) close() {
	_ = e.log.Sync()
	_ = database.Close(e.db)
}
