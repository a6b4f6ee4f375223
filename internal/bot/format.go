package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/pkg/paginate"
)

const helpText = `<b>Maintenance Ledger Bot</b>

/list - project list
/details &lt;id&gt; - project details
/total - current month statistics
/add_project &lt;id|name|startDate|note|openingFee|isOpeningFee|serverTime&gt;
/edit_project &lt;id&gt; &lt;name|startDate|note|openingFee|isOpeningFee&gt;
/add_record &lt;id&gt; &lt;paymentDate|amount|isPayment|note&gt;
/edit_record &lt;id&gt; &lt;index&gt; &lt;paymentDate|amount|isPayment|note&gt;
/restore_project &lt;id&gt;
/restore_record &lt;id&gt; &lt;index&gt;
/deleted_projects - soft-deleted projects
/deleted_records &lt;id&gt; - soft-deleted records of a project`

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func formatProjectList(page paginate.Page[domain.Project]) string {
	if page.Total == 0 {
		return "No projects yet. Use /add_project to create one."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\U0001F4CB <b>Projects</b> (page %d/%d, %d total)\n\n",
		page.Page+1, page.TotalPages, page.Total))
	for _, project := range page.Items {
		fees := project.Fees()
		sb.WriteString(fmt.Sprintf("\U0001F194 <b>%s</b> — %s\n", project.ProjectID, project.ProjectName))
		sb.WriteString(fmt.Sprintf("    total %s, unpaid %s USDT\n", fees.TotalFee, fees.UnpaidFee))
	}
	return sb.String()
}

func projectListKeyboard(page paginate.Page[domain.Project]) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, project := range page.Items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("\U0001F4CA %s", project.ProjectName),
				"details_"+project.ProjectID),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page.HasPrev {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("list_page_%d", page.Page-1)))
	}
	if page.HasNext {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("list_page_%d", page.Page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Add project", "add_project"),
	))

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func formatProjectDetails(project *domain.Project) string {
	fees := project.Fees()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\U0001F4CA <b>%s</b> (ID: %s)\n\n", project.ProjectName, project.ProjectID))
	sb.WriteString(fmt.Sprintf("\U0001F4C5 Start date: %s\n", project.StartDate))
	sb.WriteString(fmt.Sprintf("\U0001F5A5 Server time: %s\n", project.ServerTime))
	if project.MaintenanceDetails != "" {
		sb.WriteString(fmt.Sprintf("\U0001F4C4 Note: %s\n", project.MaintenanceDetails))
	}
	sb.WriteString(fmt.Sprintf("\U0001F4B0 Opening fee: %s USDT (collected: %s)\n",
		project.OpeningFee, yesNo(project.IsOpeningFee)))
	sb.WriteString(fmt.Sprintf("\U0001F4B5 Total fee: %s USDT, unpaid: %s USDT\n",
		fees.TotalFee, fees.UnpaidFee))

	sb.WriteString("\n<b>Maintenance records</b>\n")
	active := 0
	for index, record := range project.MaintenanceRecords {
		if record.IsDeleted {
			continue
		}
		active++
		status := "❌ unpaid"
		if record.IsPayment {
			status = "✅ paid"
		}
		sb.WriteString(fmt.Sprintf("%d. %s — %s USDT — %s", index, record.PaymentDate, record.PaymentAmount, status))
		if record.Details != "" {
			sb.WriteString(" — " + record.Details)
		}
		sb.WriteString("\n")
	}
	if active == 0 {
		sb.WriteString("none\n")
	}
	return sb.String()
}

func projectDetailsKeyboard(project *domain.Project) *tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit project", "edit_project_"+project.ProjectID),
			tgbotapi.NewInlineKeyboardButtonData("\U0001F5D1 Delete project", "delete_project_"+project.ProjectID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add record", "add_record_"+project.ProjectID),
		),
	}

	for index, record := range project.MaintenanceRecords {
		if record.IsDeleted {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✏️ Record %d", index),
				fmt.Sprintf("edit_record_%s_%d", project.ProjectID, index)),
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("\U0001F5D1 Record %d", index),
				fmt.Sprintf("delete_record_%s_%d", project.ProjectID, index)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to list", "back_to_list"),
	))

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func formatStatistics(stats *domain.MonthlyStatistics, details paginate.Page[domain.ProjectBreakdown]) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\U0001F4C8 <b>Statistics %d-%02d</b>\n\n", stats.Period.Year, stats.Period.Month))
	sb.WriteString(fmt.Sprintf("✅ Received: <b>%s</b> USDT\n", stats.TotalReceived))
	sb.WriteString(fmt.Sprintf("❌ Outstanding: <b>%s</b> USDT\n", stats.TotalUnpaid))
	sb.WriteString(fmt.Sprintf("\U0001F4B0 Total: <b>%s</b> USDT\n", stats.TotalAmount))

	if details.Total == 0 {
		sb.WriteString("\nNo activity this month.")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\n<b>Per project</b> (page %d/%d)\n", details.Page+1, details.TotalPages))
	for _, item := range details.Items {
		sb.WriteString(fmt.Sprintf("• %s (ID: %s): received %s, unpaid %s\n",
			item.ProjectName, item.ProjectID, item.Received, item.Unpaid))
	}
	return sb.String()
}

func statisticsKeyboard(details paginate.Page[domain.ProjectBreakdown]) *tgbotapi.InlineKeyboardMarkup {
	var nav []tgbotapi.InlineKeyboardButton
	if details.HasPrev {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("project_details_page_%d", details.Page-1)))
	}
	if details.HasNext {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("project_details_page_%d", details.Page+1)))
	}
	if len(nav) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(nav)
	return &markup
}

func formatDeletedProjects(projects []domain.Project) string {
	if len(projects) == 0 {
		return "No deleted projects."
	}

	var sb strings.Builder
	sb.WriteString("\U0001F5D1 <b>Deleted projects</b>\n\n")
	for _, project := range projects {
		deletedAt := "unknown"
		if project.DeletedAt != nil {
			deletedAt = project.DeletedAt.Format("2006-01-02 15:04")
		}
		sb.WriteString(fmt.Sprintf("\U0001F194 %s — %s (deleted %s)\n", project.ProjectID, project.ProjectName, deletedAt))
	}
	sb.WriteString("\nRestore with /restore_project &lt;id&gt;")
	return sb.String()
}

func formatDeletedRecords(projectID string, records []domain.MaintenanceRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("Project %s has no deleted records.", projectID)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\U0001F5D1 <b>Deleted records of %s</b>\n\n", projectID))
	for _, record := range records {
		sb.WriteString(fmt.Sprintf("• %s — %s USDT", record.PaymentDate, record.PaymentAmount))
		if record.Details != "" {
			sb.WriteString(" — " + record.Details)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func confirmKeyboard(confirmData string) *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", confirmData),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "back_to_list"),
		),
	)
	return &markup
}

// errorMessage translates a domain error into operator-facing text; raw
// storage errors are never shown.
func errorMessage(err error) string {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return "❌ " + err.Error()
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return "❌ " + err.Error()
	case domain.IsDomainError(err, domain.ErrCodeInvalidState):
		return "⚠️ " + err.Error()
	case domain.IsDomainError(err, domain.ErrCodeOutOfRange):
		return "⚠️ " + err.Error()
	case domain.IsDomainError(err, domain.ErrCodeValidation):
		return "⚠️ " + err.Error()
	default:
		return "❌ Something went wrong while handling your request."
	}
}
