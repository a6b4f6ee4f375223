package ledger

import (
	"context"
	"math"
	"time"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/repository"
)

// UpcomingPayments scans every visible project for unpaid, non-deleted
// records due between today and today+lookAheadDays, both bounds inclusive.
// Records already overdue are deliberately not included; the window only
// looks forward. Results keep project-then-record insertion order.
func (s *Service) UpcomingPayments(ctx context.Context, lookAheadDays int) ([]domain.UpcomingPayment, error) {
	today := truncateToMidnight(s.now())
	horizon := today.AddDate(0, 0, lookAheadDays)

	projects, err := s.listAll(ctx, repository.ProjectFilter{})
	if err != nil {
		return nil, err
	}

	var upcoming []domain.UpcomingPayment
	for _, project := range projects {
		for _, record := range project.MaintenanceRecords {
			if record.IsDeleted || record.IsPayment {
				continue
			}
			due, ok := domain.ParseDate(record.PaymentDate)
			if !ok {
				continue
			}
			if due.Before(today) || due.After(horizon) {
				continue
			}
			upcoming = append(upcoming, domain.UpcomingPayment{
				ProjectID:     project.ProjectID,
				ProjectName:   project.ProjectName,
				PaymentDate:   record.PaymentDate,
				PaymentAmount: record.PaymentAmount,
				DaysLeft:      daysUntil(today, due),
				Details:       record.Details,
			})
		}
	}
	return upcoming, nil
}

func truncateToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysUntil rounds up so a due date later today counts as zero days left and
// partial days (DST shifts) still land on the calendar-day boundary.
func daysUntil(today, due time.Time) int {
	return int(math.Ceil(due.Sub(today).Hours() / 24))
}
