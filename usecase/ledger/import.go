package ledger

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/repository"
)

// ImportProjects upserts a JSON-encoded project document or array of
// documents by project id. Re-importing an id overwrites rather than
// duplicates, so the import is idempotent.
func (s *Service) ImportProjects(ctx context.Context, data []byte) (int, error) {
	var projects []domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		var single domain.Project
		if err := json.Unmarshal(data, &single); err != nil {
			return 0, domain.WrapError(domain.ErrCodeValidation, "malformed import payload", err)
		}
		projects = []domain.Project{single}
	}

	for i := range projects {
		if projects[i].MaintenanceRecords == nil {
			projects[i].MaintenanceRecords = []domain.MaintenanceRecord{}
		}
		if projects[i].OpeningFee == "" {
			projects[i].OpeningFee = "0"
		}
		if err := s.projects.Upsert(ctx, &projects[i]); err != nil {
			return i, err
		}
	}

	s.logger.Info("projects imported", zap.Int("count", len(projects)))
	return len(projects), nil
}

// ImportFromFile seeds the store from a JSON file, but only when the store
// has no visible projects yet.
func (s *Service) ImportFromFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	total, err := s.projects.Count(ctx, repository.ProjectFilter{})
	if err != nil {
		return 0, err
	}
	if total > 0 {
		s.logger.Info("store already populated, skipping initial import", zap.Int("projects", total))
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("initial import file not found", zap.String("path", path))
			return 0, nil
		}
		return 0, err
	}
	return s.ImportProjects(ctx, data)
}
