package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/maintledger/backend/api/handler"
)

type Handlers struct {
	Health *apiHandler.HealthHandler
	Ledger *apiHandler.LedgerHandler
}

// New wires the operational HTTP routes. The surface is unauthenticated; it
// is meant to sit behind the operator's own network boundary.
func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/stats", handlers.Ledger.Statistics)
	r.POST("/api/v1/reminders/run", handlers.Ledger.RunReminders)

	return r
}
