package postgres

import (
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/maintledger/backend/domain"
)

func marshalRecords(records []domain.MaintenanceRecord) ([]byte, error) {
	if records == nil {
		records = []domain.MaintenanceRecord{}
	}
	return json.Marshal(records)
}

func scanProject(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Project, error) {
	var project domain.Project
	var records []byte

	if err := row.Scan(
		&project.ProjectID,
		&project.ProjectName,
		&project.StartDate,
		&project.MaintenanceDetails,
		&project.OpeningFee,
		&project.IsOpeningFee,
		&project.ServerTime,
		&records,
		&project.IsDeleted,
		&project.DeletedAt,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}

	project.MaintenanceRecords = []domain.MaintenanceRecord{}
	if len(records) > 0 {
		if err := json.Unmarshal(records, &project.MaintenanceRecords); err != nil {
			return nil, err
		}
	}

	return &project, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
