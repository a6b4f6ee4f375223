package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintledger/backend/domain"
)

func TestMonthlyStatistics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedProject(t, svc, "s1", "Shop",
		domain.MaintenanceRecord{PaymentDate: "2025-07-05", PaymentAmount: "100", IsPayment: true},
		domain.MaintenanceRecord{PaymentDate: "2025-07-20", PaymentAmount: "50", IsPayment: false},
		domain.MaintenanceRecord{PaymentDate: "2025-06-30", PaymentAmount: "999", IsPayment: true},
		domain.MaintenanceRecord{PaymentDate: "2025-08-01", PaymentAmount: "888", IsPayment: false},
	)

	t.Run("window is the calendar month, both bounds inclusive", func(t *testing.T) {
		stats, err := svc.MonthlyStatistics(ctx, 2025, 7)
		require.NoError(t, err)
		assert.True(t, stats.TotalReceived.Equal(decimal.NewFromInt(100)), "received %s", stats.TotalReceived)
		assert.True(t, stats.TotalUnpaid.Equal(decimal.NewFromInt(50)))
		assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, domain.Period{Year: 2025, Month: 7}, stats.Period)

		require.Len(t, stats.ProjectDetails, 1)
		assert.Equal(t, "s1", stats.ProjectDetails[0].ProjectID)
	})

	t.Run("first and last day of the month count", func(t *testing.T) {
		seedProject(t, svc, "s2", "Edges",
			domain.MaintenanceRecord{PaymentDate: "2025-07-01", PaymentAmount: "1", IsPayment: true},
			domain.MaintenanceRecord{PaymentDate: "2025-07-31", PaymentAmount: "2", IsPayment: false},
		)
		stats, err := svc.MonthlyStatistics(ctx, 2025, 7)
		require.NoError(t, err)
		assert.True(t, stats.TotalReceived.Equal(decimal.NewFromInt(101)))
		assert.True(t, stats.TotalUnpaid.Equal(decimal.NewFromInt(52)))
	})

	t.Run("deleted record drops out, restore brings it back", func(t *testing.T) {
		_, err := svc.DeleteMaintenanceRecord(ctx, "s1", 1)
		require.NoError(t, err)

		stats, err := svc.MonthlyStatistics(ctx, 2025, 7)
		require.NoError(t, err)
		assert.True(t, stats.TotalUnpaid.Equal(decimal.NewFromInt(2)), "only the edge record remains unpaid")
		assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(103)))

		_, err = svc.RestoreMaintenanceRecord(ctx, "s1", 1)
		require.NoError(t, err)
		stats, err = svc.MonthlyStatistics(ctx, 2025, 7)
		require.NoError(t, err)
		assert.True(t, stats.TotalUnpaid.Equal(decimal.NewFromInt(52)))
	})

	t.Run("deleted project excluded entirely", func(t *testing.T) {
		_, err := svc.DeleteProject(ctx, "s2")
		require.NoError(t, err)
		defer func() {
			_, err := svc.RestoreProject(ctx, "s2")
			require.NoError(t, err)
		}()

		stats, err := svc.MonthlyStatistics(ctx, 2025, 7)
		require.NoError(t, err)
		require.Len(t, stats.ProjectDetails, 1)
		assert.Equal(t, "s1", stats.ProjectDetails[0].ProjectID)
	})

	t.Run("unparseable dates are skipped", func(t *testing.T) {
		seedProject(t, svc, "s3", "Sloppy",
			domain.MaintenanceRecord{PaymentDate: "July 5th", PaymentAmount: "1000", IsPayment: true},
		)
		stats, err := svc.MonthlyStatistics(ctx, 2025, 7)
		require.NoError(t, err)
		assert.True(t, stats.TotalReceived.Equal(decimal.NewFromInt(101)), "garbage date contributes nothing")
	})

	t.Run("malformed amount counts as zero inside the window", func(t *testing.T) {
		seedProject(t, svc, "s4", "Typo",
			domain.MaintenanceRecord{PaymentDate: "2025-07-10", PaymentAmount: "abc", IsPayment: true},
		)
		stats, err := svc.MonthlyStatistics(ctx, 2025, 7)
		require.NoError(t, err)
		assert.True(t, stats.TotalReceived.Equal(decimal.NewFromInt(101)))
	})

	t.Run("projects with received money sort first, ties stay stable", func(t *testing.T) {
		stats, err := svc.MonthlyStatistics(ctx, 2025, 7)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(stats.ProjectDetails), 2)

		seenUnpaidOnly := false
		for _, item := range stats.ProjectDetails {
			if item.Received.IsPositive() {
				assert.False(t, seenUnpaidOnly, "received projects must precede unpaid-only ones")
			} else {
				seenUnpaidOnly = true
			}
		}
	})

	t.Run("empty month", func(t *testing.T) {
		stats, err := svc.MonthlyStatistics(ctx, 2024, 2)
		require.NoError(t, err)
		assert.True(t, stats.TotalAmount.IsZero())
		assert.Empty(t, stats.ProjectDetails)
	})
}
