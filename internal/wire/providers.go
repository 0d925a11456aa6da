package wire

import (
	"io"
	"os"

	"github.com/google/wire"
	"github.com/jmoiron/sqlx"

	"github.com/sevigo/code-critic/internal/app"
	"github.com/sevigo/code-critic/internal/config"
	"github.com/sevigo/code-critic/internal/core"
	"github.com/sevigo/code-critic/internal/db"
	"github.com/sevigo/code-critic/internal/llm"
	"github.com/sevigo/code-critic/internal/logger"
	"github.com/sevigo/code-critic/internal/reviews"
	"github.com/sevigo/code-critic/internal/server"
	"github.com/sevigo/code-critic/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	logger.NewLogger,
	config.LoadConfig,
	db.NewDatabase,
	storage.NewStore,
	reviews.NewService,
	llm.NewPromptManager,
	llm.NewClient,
	wire.Bind(new(core.CodeReviewer), new(*llm.Client)),
	wire.Bind(new(core.ReviewService), new(*reviews.Service)),
	provideLoggerConfig,
	provideLogWriter,
	provideDBConfig,
	provideLLMConfig,
	provideSQLX,
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logger
}

func provideLogWriter() io.Writer {
	return os.Stdout
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return cfg.Database
}

func provideLLMConfig(cfg *config.Config) config.LLMConfig {
	return cfg.LLM
}

func provideSQLX(conn *db.DB) *sqlx.DB {
	return conn.DB
}
