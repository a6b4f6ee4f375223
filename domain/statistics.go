package domain

import "github.com/shopspring/decimal"

// Period identifies the calendar month a statistics report covers.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ProjectBreakdown is one project's share of a monthly statistics report.
// Projects with zero activity in the window are omitted entirely.
type ProjectBreakdown struct {
	ProjectID   string          `json:"projectId"`
	ProjectName string          `json:"projectName"`
	Received    decimal.Decimal `json:"received"`
	Unpaid      decimal.Decimal `json:"unpaid"`
}

// MonthlyStatistics is the time-windowed collected/outstanding report across
// all visible projects.
type MonthlyStatistics struct {
	TotalReceived  decimal.Decimal    `json:"totalReceived"`
	TotalUnpaid    decimal.Decimal    `json:"totalUnpaid"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"`
	ProjectDetails []ProjectBreakdown `json:"projectDetails"`
	Period         Period             `json:"period"`
}

// UpcomingPayment is one unpaid record due inside the reminder look-ahead
// window, flattened with its project identity for notification dispatch.
type UpcomingPayment struct {
	ProjectID     string `json:"projectId"`
	ProjectName   string `json:"projectName"`
	PaymentDate   string `json:"paymentDate"`
	PaymentAmount string `json:"paymentAmount"`
	DaysLeft      int    `json:"daysLeft"`
	Details       string `json:"details"`
}
