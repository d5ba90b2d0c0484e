// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"log/slog"

	"github.com/edgard/kirokubot/internal/agent"
	"github.com/edgard/kirokubot/internal/config"
	"github.com/edgard/kirokubot/internal/database"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Agent  *agent.Agent
}
