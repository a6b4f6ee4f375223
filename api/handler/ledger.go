package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/maintledger/backend/domain"
	appLogger "github.com/maintledger/backend/pkg/logger"
	"github.com/maintledger/backend/pkg/httpcontext"
	"github.com/maintledger/backend/internal/services"
	"github.com/maintledger/backend/usecase/ledger"
)

type LedgerHandler struct {
	baseHandler
	engine   *ledger.Service
	reminder *services.ReminderJob
}

func NewLedgerHandler(engine *ledger.Service, reminder *services.ReminderJob, adapter *httpcontext.Adapter, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
		reminder:    reminder,
	}
}

// Statistics serves the monthly collected/outstanding report. Year and month
// default to the current calendar month.
func (h *LedgerHandler) Statistics(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	now := time.Now()
	year, err := queryInt(ctx, "year", now.Year())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	month, err := queryInt(ctx, "month", int(now.Month()))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if month < 1 || month > 12 {
		h.respondError(ctx, domain.NewError(domain.ErrCodeValidation, "month must be between 1 and 12"))
		return
	}

	stats, err := h.engine.MonthlyStatistics(stdCtx, year, month)
	if err != nil {
		appLogger.WithRequestID(stdCtx, h.logger).Error("statistics request failed", zap.Error(err))
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// RunReminders triggers one reminder scan outside the cron schedule.
func (h *LedgerHandler) RunReminders(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sent, err := h.reminder.Run(stdCtx)
	if err != nil {
		appLogger.WithRequestID(stdCtx, h.logger).Error("manual reminder run failed", zap.Error(err))
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"reminders_sent": sent,
	})
}

func queryInt(ctx *fasthttp.RequestCtx, name string, fallback int) (int, error) {
	raw := string(ctx.QueryArgs().Peek(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewError(domain.ErrCodeValidation, name+" must be an integer")
	}
	return value, nil
}
