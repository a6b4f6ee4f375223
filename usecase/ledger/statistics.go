package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/repository"
)

// MonthlyStatistics computes the collected/outstanding breakdown for one
// calendar month across all visible projects. The window is inclusive on both
// ends: the first day of the month through its last instant.
func (s *Service) MonthlyStatistics(ctx context.Context, year, month int) (*domain.MonthlyStatistics, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	projects, err := s.listAll(ctx, repository.ProjectFilter{})
	if err != nil {
		return nil, err
	}

	stats := &domain.MonthlyStatistics{
		TotalReceived: decimal.Zero,
		TotalUnpaid:   decimal.Zero,
		Period:        domain.Period{Year: year, Month: month},
	}

	for _, project := range projects {
		received := decimal.Zero
		unpaid := decimal.Zero

		for _, record := range project.ActiveRecords() {
			due, ok := domain.ParseDate(record.PaymentDate)
			if !ok {
				s.logger.Warn("unparseable payment date excluded from statistics",
					zap.String("project_id", project.ProjectID),
					zap.String("payment_date", record.PaymentDate))
				continue
			}
			if due.Before(start) || due.After(end) {
				continue
			}

			amount, ok := domain.ParseAmount(record.PaymentAmount)
			if !ok {
				s.logger.Warn("malformed payment amount counted as zero",
					zap.String("project_id", project.ProjectID),
					zap.String("payment_amount", record.PaymentAmount))
			}
			if record.IsPayment {
				received = received.Add(amount)
				stats.TotalReceived = stats.TotalReceived.Add(amount)
			} else {
				unpaid = unpaid.Add(amount)
				stats.TotalUnpaid = stats.TotalUnpaid.Add(amount)
			}
		}

		if received.IsPositive() || unpaid.IsPositive() {
			stats.ProjectDetails = append(stats.ProjectDetails, domain.ProjectBreakdown{
				ProjectID:   project.ProjectID,
				ProjectName: project.ProjectName,
				Received:    received,
				Unpaid:      unpaid,
			})
		}
	}

	// Stable partition: projects that collected anything come first, ties
	// keep the store's id ordering.
	sort.SliceStable(stats.ProjectDetails, func(i, j int) bool {
		return stats.ProjectDetails[i].Received.IsPositive() &&
			!stats.ProjectDetails[j].Received.IsPositive()
	})

	stats.TotalAmount = stats.TotalReceived.Add(stats.TotalUnpaid)
	return stats, nil
}
