package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFees(t *testing.T) {
	records := []MaintenanceRecord{
		{PaymentDate: "2025-07-01", PaymentAmount: "100", IsPayment: true},
		{PaymentDate: "2025-07-15", PaymentAmount: "50", IsPayment: false},
		{PaymentDate: "2025-08-01", PaymentAmount: "25.50", IsPayment: false},
	}

	t.Run("sums active records and their unpaid subset", func(t *testing.T) {
		fees := ComputeFees(records)
		assert.True(t, fees.TotalFee.Equal(decimal.RequireFromString("175.50")), "total %s", fees.TotalFee)
		assert.True(t, fees.UnpaidFee.Equal(decimal.RequireFromString("75.50")), "unpaid %s", fees.UnpaidFee)
	})

	t.Run("order independent", func(t *testing.T) {
		shuffled := append([]MaintenanceRecord(nil), records...)
		rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.True(t, ComputeFees(shuffled).TotalFee.Equal(ComputeFees(records).TotalFee))
		assert.True(t, ComputeFees(shuffled).UnpaidFee.Equal(ComputeFees(records).UnpaidFee))
	})

	t.Run("deleted records never contribute", func(t *testing.T) {
		tombstoned := append([]MaintenanceRecord(nil), records...)
		tombstoned[1].IsDeleted = true
		fees := ComputeFees(tombstoned)
		assert.True(t, fees.TotalFee.Equal(decimal.RequireFromString("125.50")))
		assert.True(t, fees.UnpaidFee.Equal(decimal.RequireFromString("25.50")))
	})

	t.Run("malformed amounts count as zero", func(t *testing.T) {
		fees := ComputeFees([]MaintenanceRecord{
			{PaymentDate: "2025-07-01", PaymentAmount: "not-a-number"},
			{PaymentDate: "2025-07-02", PaymentAmount: "10"},
		})
		assert.True(t, fees.TotalFee.Equal(decimal.NewFromInt(10)))
		assert.True(t, fees.UnpaidFee.Equal(decimal.NewFromInt(10)))
	})

	t.Run("empty set yields zeroes", func(t *testing.T) {
		fees := ComputeFees(nil)
		assert.True(t, fees.TotalFee.IsZero())
		assert.True(t, fees.UnpaidFee.IsZero())
	})

	t.Run("unpaid never exceeds total", func(t *testing.T) {
		fees := ComputeFees(records)
		assert.True(t, fees.UnpaidFee.LessThanOrEqual(fees.TotalFee))
	})
}

func TestParseDate(t *testing.T) {
	t.Run("canonical layout", func(t *testing.T) {
		parsed, ok := ParseDate("2025-07-18")
		require.True(t, ok)
		assert.Equal(t, 2025, parsed.Year())
		assert.Equal(t, time.July, parsed.Month())
		assert.Equal(t, 18, parsed.Day())
	})

	t.Run("slash fallback", func(t *testing.T) {
		_, ok := ParseDate("2025/07/18")
		assert.True(t, ok)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, ok := ParseDate("18.07.2025")
		assert.False(t, ok)
		_, ok = ParseDate("")
		assert.False(t, ok)
	})
}

func TestProjectValidate(t *testing.T) {
	valid := Project{
		ProjectID:   "42",
		ProjectName: "Shop",
		StartDate:   "2025-01-01",
		ServerTime:  "2026-01-01",
	}
	require.NoError(t, valid.Validate())

	missing := valid
	missing.ProjectID = ""
	assert.Error(t, missing.Validate())
}

func TestRecordPatchApply(t *testing.T) {
	deletedAt := time.Now()
	record := MaintenanceRecord{
		PaymentDate:   "2025-07-01",
		PaymentAmount: "100",
		IsPayment:     false,
		Details:       "hosting",
		IsDeleted:     true,
		DeletedAt:     &deletedAt,
	}

	amount := "150"
	patched := RecordPatch{PaymentAmount: &amount}.Apply(record)

	assert.Equal(t, "150", patched.PaymentAmount)
	assert.Equal(t, "2025-07-01", patched.PaymentDate, "unset fields preserved")
	assert.True(t, patched.IsDeleted, "delete state untouched")
	assert.Equal(t, &deletedAt, patched.DeletedAt)
}

func TestProjectPatchApply(t *testing.T) {
	project := Project{
		ProjectID:   "7",
		ProjectName: "Old",
		StartDate:   "2024-01-01",
		ServerTime:  "2025-01-01",
		MaintenanceRecords: []MaintenanceRecord{
			{PaymentDate: "2024-02-01", PaymentAmount: "10"},
		},
	}

	name := "New"
	patched := ProjectPatch{ProjectName: &name}.Apply(project)

	assert.Equal(t, "New", patched.ProjectName)
	assert.Equal(t, "7", patched.ProjectID, "identity immutable")
	assert.Len(t, patched.MaintenanceRecords, 1, "records untouched")
}

func TestRecordPartition(t *testing.T) {
	project := &Project{
		MaintenanceRecords: []MaintenanceRecord{
			{PaymentDate: "a", PaymentAmount: "1"},
			{PaymentDate: "b", PaymentAmount: "2", IsDeleted: true},
			{PaymentDate: "c", PaymentAmount: "3"},
		},
	}

	assert.Len(t, project.ActiveRecords(), 2)
	assert.Len(t, project.DeletedRecords(), 1)
	assert.Equal(t, "b", project.DeletedRecords()[0].PaymentDate)
}
