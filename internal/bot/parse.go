package bot

import (
	"fmt"
	"strings"

	"github.com/maintledger/backend/domain"
)

// Field payloads arrive as pipe-separated values, the operator workflow the
// bot has always used. Empty segments are kept so notes may be blank.

// ParseProjectPayload parses the /add_project payload:
// id|name|startDate|note|openingFee|isOpeningFee|serverTime.
func ParseProjectPayload(data string) (*domain.Project, error) {
	parts := splitPayload(data, 7)
	if parts == nil {
		return nil, domain.NewError(domain.ErrCodeValidation,
			"expected: id|name|startDate|note|openingFee|isOpeningFee|serverTime")
	}

	isOpeningFee, err := parseBool(parts[5])
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		ProjectID:          parts[0],
		ProjectName:        parts[1],
		StartDate:          parts[2],
		MaintenanceDetails: parts[3],
		OpeningFee:         parts[4],
		IsOpeningFee:       isOpeningFee,
		ServerTime:         parts[6],
	}, nil
}

// ParseProjectPatch parses the /edit_project payload:
// name|startDate|note|openingFee|isOpeningFee.
func ParseProjectPatch(data string) (domain.ProjectPatch, error) {
	parts := splitPayload(data, 5)
	if parts == nil {
		return domain.ProjectPatch{}, domain.NewError(domain.ErrCodeValidation,
			"expected: name|startDate|note|openingFee|isOpeningFee")
	}

	isOpeningFee, err := parseBool(parts[4])
	if err != nil {
		return domain.ProjectPatch{}, err
	}

	return domain.ProjectPatch{
		ProjectName:        &parts[0],
		StartDate:          &parts[1],
		MaintenanceDetails: &parts[2],
		OpeningFee:         &parts[3],
		IsOpeningFee:       &isOpeningFee,
	}, nil
}

// ParseRecordPayload parses the /add_record and /edit_record payload:
// paymentDate|amount|isPayment|note.
func ParseRecordPayload(data string) (domain.MaintenanceRecord, error) {
	parts := splitPayload(data, 4)
	if parts == nil {
		return domain.MaintenanceRecord{}, domain.NewError(domain.ErrCodeValidation,
			"expected: paymentDate|amount|isPayment|note")
	}

	isPayment, err := parseBool(parts[2])
	if err != nil {
		return domain.MaintenanceRecord{}, err
	}

	return domain.MaintenanceRecord{
		PaymentDate:   parts[0],
		PaymentAmount: parts[1],
		IsPayment:     isPayment,
		Details:       parts[3],
	}, nil
}

// RecordPatch converts a full record payload into a patch; every field of an
// edited record is resupplied by the operator.
func RecordPatch(record domain.MaintenanceRecord) domain.RecordPatch {
	return domain.RecordPatch{
		PaymentDate:   &record.PaymentDate,
		PaymentAmount: &record.PaymentAmount,
		IsPayment:     &record.IsPayment,
		Details:       &record.Details,
	}
}

func splitPayload(data string, arity int) []string {
	parts := strings.Split(data, "|")
	if len(parts) != arity {
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, domain.NewError(domain.ErrCodeValidation,
			fmt.Sprintf("expected true or false, got %q", value))
	}
}
