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
	"github.com/maintledger/backend/pkg/paginate"
)

func (h *Handler) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		h.bot.AnswerCallback(query.ID)
		return
	}
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID
	ctx = logger.ContextWithChatID(ctx, chatID)
	data := query.Data

	h.logger.Debug("callback received",
		zap.Int64("chat_id", chatID),
		zap.String("data", data))
	h.bot.AnswerCallback(query.ID)

	switch {
	case data == "back_to_list":
		h.showProjectList(ctx, chatID, messageID, h.statePage(ctx, chatID, domain.ViewProjectList))
	case data == "add_project":
		h.reply(chatID, "Send: /add_project id|name|startDate|note|openingFee|isOpeningFee|serverTime", nil)
	case strings.HasPrefix(data, "list_page_"):
		h.callbackListPage(ctx, chatID, messageID, data)
	case strings.HasPrefix(data, "project_details_page_"):
		h.callbackStatsPage(ctx, chatID, messageID, data)
	case strings.HasPrefix(data, "details_"):
		h.showProjectDetails(ctx, chatID, messageID, strings.TrimPrefix(data, "details_"))
	case strings.HasPrefix(data, "edit_project_"):
		projectID := strings.TrimPrefix(data, "edit_project_")
		h.reply(chatID, fmt.Sprintf("Send: /edit_project %s name|startDate|note|openingFee|isOpeningFee", projectID), nil)
	case strings.HasPrefix(data, "add_record_"):
		projectID := strings.TrimPrefix(data, "add_record_")
		h.reply(chatID, fmt.Sprintf("Send: /add_record %s paymentDate|amount|isPayment|note", projectID), nil)
	case strings.HasPrefix(data, "edit_record_"):
		h.callbackEditRecordHint(chatID, data)
	case strings.HasPrefix(data, "confirm_delete_record_"):
		h.callbackDeleteRecord(ctx, chatID, messageID, strings.TrimPrefix(data, "confirm_delete_record_"))
	case strings.HasPrefix(data, "delete_record_"):
		h.callbackConfirmRecordDelete(chatID, messageID, strings.TrimPrefix(data, "delete_record_"))
	case strings.HasPrefix(data, "confirm_delete_"):
		h.callbackDeleteProject(ctx, chatID, messageID, strings.TrimPrefix(data, "confirm_delete_"))
	case strings.HasPrefix(data, "delete_project_"):
		h.callbackConfirmProjectDelete(chatID, messageID, strings.TrimPrefix(data, "delete_project_"))
	case strings.HasPrefix(data, "restore_record_"):
		h.callbackRestoreRecord(ctx, chatID, messageID, strings.TrimPrefix(data, "restore_record_"))
	default:
		h.logger.Warn("unknown callback", zap.String("data", data))
	}
}

func (h *Handler) callbackListPage(ctx context.Context, chatID int64, messageID int, data string) {
	page, err := strconv.Atoi(strings.TrimPrefix(data, "list_page_"))
	if err != nil {
		page = 0
	}
	h.showProjectList(ctx, chatID, messageID, page)
}

func (h *Handler) callbackStatsPage(ctx context.Context, chatID int64, messageID int, data string) {
	page, err := strconv.Atoi(strings.TrimPrefix(data, "project_details_page_"))
	if err != nil {
		page = 0
	}
	now := time.Now()
	h.showStatistics(ctx, chatID, now.Year(), int(now.Month()), messageID, page)
}

func (h *Handler) callbackEditRecordHint(chatID int64, data string) {
	projectID, index, ok := splitRecordRef(strings.TrimPrefix(data, "edit_record_"))
	if !ok {
		h.replyError(chatID, domain.ErrInvalidPayload)
		return
	}
	h.reply(chatID, fmt.Sprintf("Send: /edit_record %s %d paymentDate|amount|isPayment|note", projectID, index), nil)
}

func (h *Handler) callbackConfirmProjectDelete(chatID int64, messageID int, projectID string) {
	text := fmt.Sprintf("⚠️ Delete project <b>%s</b>? It can be restored with /restore_project later.", projectID)
	h.render(chatID, messageID, text, confirmKeyboard("confirm_delete_"+projectID))
}

func (h *Handler) callbackDeleteProject(ctx context.Context, chatID int64, messageID int, projectID string) {
	if _, err := h.ledger.DeleteProject(ctx, projectID); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("\U0001F5D1 Project <b>%s</b> deleted. Restore with /restore_project %s.", projectID, projectID), nil)
	h.showProjectList(ctx, chatID, messageID, 0)
}

func (h *Handler) callbackConfirmRecordDelete(chatID int64, messageID int, ref string) {
	projectID, index, ok := splitRecordRef(ref)
	if !ok {
		h.replyError(chatID, domain.ErrInvalidPayload)
		return
	}
	text := fmt.Sprintf("⚠️ Delete record %d of <b>%s</b>? It can be restored with /restore_record later.", index, projectID)
	h.render(chatID, messageID, text, confirmKeyboard("confirm_delete_record_"+ref))
}

func (h *Handler) callbackDeleteRecord(ctx context.Context, chatID int64, messageID int, ref string) {
	projectID, index, ok := splitRecordRef(ref)
	if !ok {
		h.replyError(chatID, domain.ErrInvalidPayload)
		return
	}
	if _, err := h.ledger.DeleteMaintenanceRecord(ctx, projectID, index); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("\U0001F5D1 Record %d of <b>%s</b> deleted.", index, projectID), nil)
	h.showProjectDetails(ctx, chatID, messageID, projectID)
}

func (h *Handler) callbackRestoreRecord(ctx context.Context, chatID int64, messageID int, ref string) {
	projectID, index, ok := splitRecordRef(ref)
	if !ok {
		h.replyError(chatID, domain.ErrInvalidPayload)
		return
	}
	if _, err := h.ledger.RestoreMaintenanceRecord(ctx, projectID, index); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Record %d of <b>%s</b> restored.", index, projectID), nil)
	h.showProjectDetails(ctx, chatID, messageID, projectID)
}

// statePage recalls the last page of a view from the chat-state store so
// back-navigation lands where the operator left off.
func (h *Handler) statePage(ctx context.Context, chatID int64, view string) int {
	state, err := h.states.Get(ctx, chatID)
	if err != nil || state.View != view {
		return 0
	}
	return state.Page
}

// splitRecordRef parses "<projectId>_<index>". Project ids may themselves
// contain underscores, so the index is taken from the last segment.
func splitRecordRef(ref string) (string, int, bool) {
	cut := strings.LastIndex(ref, "_")
	if cut <= 0 || cut == len(ref)-1 {
		return "", 0, false
	}
	index, err := strconv.Atoi(ref[cut+1:])
	if err != nil || index < 0 {
		return "", 0, false
	}
	return ref[:cut], index, true
}

func paginateBreakdown(items []domain.ProjectBreakdown, page, pageSize int) paginate.Page[domain.ProjectBreakdown] {
	return paginate.Slice(items, page, pageSize)
}
