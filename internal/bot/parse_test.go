package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintledger/backend/domain"
)

func TestParseProjectPayload(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		project, err := ParseProjectPayload("42 | Web shop | 2025-01-01 | monthly hosting | 500 | true | 2026-01-01")
		require.NoError(t, err)
		assert.Equal(t, "42", project.ProjectID)
		assert.Equal(t, "Web shop", project.ProjectName)
		assert.Equal(t, "2025-01-01", project.StartDate)
		assert.Equal(t, "monthly hosting", project.MaintenanceDetails)
		assert.Equal(t, "500", project.OpeningFee)
		assert.True(t, project.IsOpeningFee)
		assert.Equal(t, "2026-01-01", project.ServerTime)
	})

	t.Run("empty note allowed", func(t *testing.T) {
		project, err := ParseProjectPayload("1|Name|2025-01-01||0|false|2026-01-01")
		require.NoError(t, err)
		assert.Empty(t, project.MaintenanceDetails)
	})

	t.Run("wrong arity rejected", func(t *testing.T) {
		_, err := ParseProjectPayload("1|Name|2025-01-01")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
	})

	t.Run("bad boolean rejected", func(t *testing.T) {
		_, err := ParseProjectPayload("1|Name|2025-01-01||0|yes|2026-01-01")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
	})
}

func TestParseProjectPatch(t *testing.T) {
	patch, err := ParseProjectPatch("New name|2025-02-01|note|100|false")
	require.NoError(t, err)
	require.NotNil(t, patch.ProjectName)
	assert.Equal(t, "New name", *patch.ProjectName)
	require.NotNil(t, patch.IsOpeningFee)
	assert.False(t, *patch.IsOpeningFee)

	_, err = ParseProjectPatch("only|four|segments|here")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
}

func TestParseRecordPayload(t *testing.T) {
	t.Run("parses all fields", func(t *testing.T) {
		record, err := ParseRecordPayload("2025-07-20 | 120.50 | false | quarterly fee")
		require.NoError(t, err)
		assert.Equal(t, "2025-07-20", record.PaymentDate)
		assert.Equal(t, "120.50", record.PaymentAmount)
		assert.False(t, record.IsPayment)
		assert.Equal(t, "quarterly fee", record.Details)
	})

	t.Run("boolean is strict", func(t *testing.T) {
		_, err := ParseRecordPayload("2025-07-20|120|1|note")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
	})
}

func TestRecordPatchConversion(t *testing.T) {
	record := domain.MaintenanceRecord{
		PaymentDate:   "2025-07-20",
		PaymentAmount: "120",
		IsPayment:     true,
		Details:       "note",
	}
	patch := RecordPatch(record)

	applied := patch.Apply(domain.MaintenanceRecord{PaymentDate: "old", PaymentAmount: "0"})
	assert.Equal(t, record.PaymentDate, applied.PaymentDate)
	assert.Equal(t, record.PaymentAmount, applied.PaymentAmount)
	assert.True(t, applied.IsPayment)
	assert.Equal(t, "note", applied.Details)
}

func TestSplitRecordRef(t *testing.T) {
	t.Run("plain id", func(t *testing.T) {
		id, index, ok := splitRecordRef("web_3")
		require.True(t, ok)
		assert.Equal(t, "web", id)
		assert.Equal(t, 3, index)
	})

	t.Run("id containing underscores", func(t *testing.T) {
		id, index, ok := splitRecordRef("my_shop_v2_10")
		require.True(t, ok)
		assert.Equal(t, "my_shop_v2", id)
		assert.Equal(t, 10, index)
	})

	t.Run("malformed refs", func(t *testing.T) {
		for _, ref := range []string{"", "web", "web_", "_3", "web_x", "web_-1"} {
			_, _, ok := splitRecordRef(ref)
			assert.False(t, ok, "ref %q", ref)
		}
	})
}

func TestSplitArgs(t *testing.T) {
	head, rest, ok := splitArgs("web 2025-07-20|120|true|note")
	require.True(t, ok)
	assert.Equal(t, "web", head)
	assert.Equal(t, "2025-07-20|120|true|note", rest)

	_, _, ok = splitArgs("single")
	assert.False(t, ok)
	_, _, ok = splitArgs("")
	assert.False(t, ok)
}
