package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/pkg/logger"
	"github.com/maintledger/backend/repository"
	"github.com/maintledger/backend/usecase/ledger"
)

// Handler routes Telegram updates to the ledger engine.
type Handler struct {
	bot             *Bot
	ledger          *ledger.Service
	states          repository.ChatStateRepository
	logger          *zap.Logger
	projectsPerPage int
	statsPerPage    int
	requestTimeout  time.Duration
}

func NewHandler(
	bot *Bot,
	ledgerSvc *ledger.Service,
	states repository.ChatStateRepository,
	log *zap.Logger,
	projectsPerPage, statsPerPage int,
	requestTimeout time.Duration,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if projectsPerPage <= 0 {
		projectsPerPage = 10
	}
	if statsPerPage <= 0 {
		statsPerPage = 5
	}
	if requestTimeout <= 0 {
		requestTimeout = 5 * time.Second
	}
	return &Handler{
		bot:             bot,
		ledger:          ledgerSvc,
		states:          states,
		logger:          log,
		projectsPerPage: projectsPerPage,
		statsPerPage:    statsPerPage,
		requestTimeout:  requestTimeout,
	}
}

// HandleUpdate processes one inbound update to completion.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		h.handleCommand(ctx, update.Message)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ctx = logger.ContextWithChatID(ctx, chatID)
	command := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	h.logger.Info("command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", command))

	switch command {
	case "start", "help":
		h.reply(chatID, helpText, nil)
	case "list":
		h.showProjectList(ctx, chatID, 0, 0)
	case "total":
		now := time.Now()
		h.showStatistics(ctx, chatID, now.Year(), int(now.Month()), 0, 0)
	case "details":
		h.cmdDetails(ctx, chatID, args)
	case "add_project":
		h.cmdAddProject(ctx, chatID, args)
	case "edit_project":
		h.cmdEditProject(ctx, chatID, args)
	case "add_record":
		h.cmdAddRecord(ctx, chatID, args)
	case "edit_record":
		h.cmdEditRecord(ctx, chatID, args)
	case "restore_project":
		h.cmdRestoreProject(ctx, chatID, args)
	case "restore_record":
		h.cmdRestoreRecord(ctx, chatID, args)
	case "deleted_projects":
		h.cmdDeletedProjects(ctx, chatID)
	case "deleted_records":
		h.cmdDeletedRecords(ctx, chatID, args)
	default:
		h.reply(chatID, "Unknown command. Use /start for the command list.", nil)
	}
}

func (h *Handler) cmdDetails(ctx context.Context, chatID int64, args string) {
	if args == "" {
		h.reply(chatID, "Usage: /details &lt;projectId&gt;", nil)
		return
	}
	h.showProjectDetails(ctx, chatID, 0, args)
}

func (h *Handler) cmdAddProject(ctx context.Context, chatID int64, args string) {
	project, err := ParseProjectPayload(args)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	created, err := h.ledger.CreateProject(ctx, project)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Project <b>%s</b> created.", created.ProjectID), nil)
	h.showProjectDetails(ctx, chatID, 0, created.ProjectID)
}

func (h *Handler) cmdEditProject(ctx context.Context, chatID int64, args string) {
	projectID, payload, ok := splitArgs(args)
	if !ok {
		h.reply(chatID, "Usage: /edit_project &lt;id&gt; &lt;name|startDate|note|openingFee|isOpeningFee&gt;", nil)
		return
	}
	patch, err := ParseProjectPatch(payload)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if _, err := h.ledger.UpdateProject(ctx, projectID, patch); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Project <b>%s</b> updated.", projectID), nil)
	h.showProjectDetails(ctx, chatID, 0, projectID)
}

func (h *Handler) cmdAddRecord(ctx context.Context, chatID int64, args string) {
	projectID, payload, ok := splitArgs(args)
	if !ok {
		h.reply(chatID, "Usage: /add_record &lt;id&gt; &lt;paymentDate|amount|isPayment|note&gt;", nil)
		return
	}
	record, err := ParseRecordPayload(payload)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	_, index, err := h.ledger.AddMaintenanceRecord(ctx, projectID, record)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Record %d added to <b>%s</b>.", index, projectID), nil)
	h.showProjectDetails(ctx, chatID, 0, projectID)
}

func (h *Handler) cmdEditRecord(ctx context.Context, chatID int64, args string) {
	projectID, rest, ok := splitArgs(args)
	if !ok {
		h.reply(chatID, "Usage: /edit_record &lt;id&gt; &lt;index&gt; &lt;paymentDate|amount|isPayment|note&gt;", nil)
		return
	}
	indexRaw, payload, ok := splitArgs(rest)
	if !ok {
		h.reply(chatID, "Usage: /edit_record &lt;id&gt; &lt;index&gt; &lt;paymentDate|amount|isPayment|note&gt;", nil)
		return
	}
	index, err := strconv.Atoi(indexRaw)
	if err != nil {
		h.replyError(chatID, domain.ErrRecordIndex)
		return
	}
	record, err := ParseRecordPayload(payload)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if _, err := h.ledger.UpdateMaintenanceRecord(ctx, projectID, index, RecordPatch(record)); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Record %d of <b>%s</b> updated.", index, projectID), nil)
	h.showProjectDetails(ctx, chatID, 0, projectID)
}

func (h *Handler) cmdRestoreProject(ctx context.Context, chatID int64, args string) {
	if args == "" {
		h.reply(chatID, "Usage: /restore_project &lt;id&gt;", nil)
		return
	}
	project, err := h.ledger.RestoreProject(ctx, args)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Project <b>%s</b> restored.", project.ProjectID), nil)
	h.showProjectDetails(ctx, chatID, 0, project.ProjectID)
}

func (h *Handler) cmdRestoreRecord(ctx context.Context, chatID int64, args string) {
	projectID, indexRaw, ok := splitArgs(args)
	if !ok {
		h.reply(chatID, "Usage: /restore_record &lt;id&gt; &lt;index&gt;", nil)
		return
	}
	index, err := strconv.Atoi(indexRaw)
	if err != nil {
		h.replyError(chatID, domain.ErrRecordIndex)
		return
	}
	if _, err := h.ledger.RestoreMaintenanceRecord(ctx, projectID, index); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Record %d of <b>%s</b> restored.", index, projectID), nil)
	h.showProjectDetails(ctx, chatID, 0, projectID)
}

func (h *Handler) cmdDeletedProjects(ctx context.Context, chatID int64) {
	projects, err := h.ledger.DeletedProjects(ctx)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, formatDeletedProjects(projects), nil)
}

func (h *Handler) cmdDeletedRecords(ctx context.Context, chatID int64, args string) {
	if args == "" {
		h.reply(chatID, "Usage: /deleted_records &lt;projectId&gt;", nil)
		return
	}
	records, err := h.ledger.DeletedMaintenanceRecords(ctx, args)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, formatDeletedRecords(args, records), nil)
}

// showProjectList renders one page of the project list. A zero messageID
// sends a fresh message; otherwise the existing one is edited in place.
func (h *Handler) showProjectList(ctx context.Context, chatID int64, messageID, page int) {
	listed, err := h.ledger.ListProjects(ctx, page, h.projectsPerPage)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.saveState(ctx, &domain.ChatState{
		ChatID: chatID,
		View:   domain.ViewProjectList,
		Page:   listed.Page,
	})
	h.render(chatID, messageID, formatProjectList(listed), projectListKeyboard(listed))
}

func (h *Handler) showProjectDetails(ctx context.Context, chatID int64, messageID int, projectID string) {
	project, err := h.ledger.GetProject(ctx, projectID)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.saveState(ctx, &domain.ChatState{
		ChatID:    chatID,
		View:      domain.ViewProject,
		ProjectID: projectID,
	})
	h.render(chatID, messageID, formatProjectDetails(project), projectDetailsKeyboard(project))
}

func (h *Handler) showStatistics(ctx context.Context, chatID int64, year, month, messageID, page int) {
	stats, err := h.ledger.MonthlyStatistics(ctx, year, month)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	details := paginateBreakdown(stats.ProjectDetails, page, h.statsPerPage)
	h.saveState(ctx, &domain.ChatState{
		ChatID: chatID,
		View:   domain.ViewStatsDetails,
		Page:   details.Page,
	})
	h.render(chatID, messageID, formatStatistics(stats, details), statisticsKeyboard(details))
}

func (h *Handler) saveState(ctx context.Context, state *domain.ChatState) {
	if err := h.states.Save(ctx, state); err != nil {
		h.logger.Warn("chat state save failed",
			zap.Int64("chat_id", state.ChatID),
			zap.Error(err))
	}
}

func (h *Handler) render(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	var err error
	if messageID != 0 {
		err = h.bot.EditHTML(chatID, messageID, text, keyboard)
	} else {
		err = h.bot.ReplyHTML(chatID, text, keyboard)
	}
	if err != nil {
		h.logger.Error("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handler) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	h.render(chatID, 0, text, keyboard)
}

func (h *Handler) replyError(chatID int64, err error) {
	h.logger.Warn("command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	h.reply(chatID, errorMessage(err), nil)
}

// splitArgs splits "head rest..." at the first whitespace run.
func splitArgs(args string) (string, string, bool) {
	args = strings.TrimSpace(args)
	fields := strings.SplitN(args, " ", 2)
	if len(fields) < 2 {
		return "", "", false
	}
	head := strings.TrimSpace(fields[0])
	rest := strings.TrimSpace(fields[1])
	if head == "" || rest == "" {
		return "", "", false
	}
	return head, rest, true
}
