package domain

import "time"

// Chat view identifiers used by the bot's callback buttons.
const (
	ViewProjectList  = "project_list"
	ViewStatsDetails = "stats_details"
	ViewProject      = "project"
)

// ChatState is the per-chat UI state (active view, current page, selected
// project) kept so pagination buttons keep working across restarts.
type ChatState struct {
	ChatID    int64     `json:"chat_id"`
	View      string    `json:"view"`
	Page      int       `json:"page"`
	ProjectID string    `json:"project_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
