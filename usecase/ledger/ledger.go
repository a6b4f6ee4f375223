// Package ledger implements the maintenance ledger engine: the project and
// record lifecycle, derived fee aggregates, monthly statistics and the
// payment reminder scan.
package ledger

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/pkg/paginate"
	"github.com/maintledger/backend/repository"
)

// listBatchSize bounds single store reads when scanning every project.
const listBatchSize = 100

// Service is the single writer of the project store. Statistics and reminder
// scans are read-only and safe to run concurrently with writes.
type Service struct {
	projects repository.ProjectRepository
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source, used by date-window tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(projects repository.ProjectRepository, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		projects: projects,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProject stores a new project. The id must be absent from the store
// entirely; a soft-deleted project still owns its id.
func (s *Service) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := project.Validate(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeValidation, "invalid project", err)
	}

	if project.OpeningFee == "" {
		project.OpeningFee = "0"
	}
	if project.MaintenanceRecords == nil {
		project.MaintenanceRecords = []domain.MaintenanceRecord{}
	}
	project.IsDeleted = false
	project.DeletedAt = nil

	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("project created", zap.String("project_id", project.ProjectID))
	return project, nil
}

// GetProject fetches one visible project; soft-deleted projects read as absent.
func (s *Service) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, projectID, false)
}

// ListProjects returns one page of visible projects sorted by project id.
func (s *Service) ListProjects(ctx context.Context, page, pageSize int) (paginate.Page[domain.Project], error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page < 0 {
		page = 0
	}

	filter := repository.ProjectFilter{Limit: pageSize, Offset: page * pageSize}
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return paginate.Page[domain.Project]{}, err
	}
	total, err := s.projects.Count(ctx, repository.ProjectFilter{})
	if err != nil {
		return paginate.Page[domain.Project]{}, err
	}

	totalPages := paginate.TotalPages(total, pageSize)
	return paginate.Page[domain.Project]{
		Items:      projects,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 0,
		HasNext:    page+1 < totalPages,
	}, nil
}

// DeletedProjects lists soft-deleted projects, newest deletion first.
func (s *Service) DeletedProjects(ctx context.Context) ([]domain.Project, error) {
	return s.listAll(ctx, repository.ProjectFilter{DeletedOnly: true})
}

// UpdateProject patches the mutable fields of a visible project.
func (s *Service) UpdateProject(ctx context.Context, projectID string, patch domain.ProjectPatch) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID, false)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*project)
	if err := updated.Validate(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeValidation, "invalid project", err)
	}
	if err := s.projects.Update(ctx, &updated); err != nil {
		return nil, err
	}
	s.logger.Info("project updated", zap.String("project_id", projectID))
	return &updated, nil
}

// DeleteProject flips the project's soft-delete tombstone. Reversible.
func (s *Service) DeleteProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	project.IsDeleted = true
	project.DeletedAt = &now
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("project soft-deleted", zap.String("project_id", projectID))
	return project, nil
}

// RestoreProject clears the project's soft-delete tombstone.
func (s *Service) RestoreProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID, true)
	if err != nil {
		return nil, err
	}
	if !project.IsDeleted {
		return nil, domain.ErrProjectNotDeleted
	}

	project.IsDeleted = false
	project.DeletedAt = nil
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("project restored", zap.String("project_id", projectID))
	return project, nil
}

// AddMaintenanceRecord appends a record to a visible project and returns the
// updated project with the index assigned to the new record.
func (s *Service) AddMaintenanceRecord(ctx context.Context, projectID string, record domain.MaintenanceRecord) (*domain.Project, int, error) {
	if err := record.Validate(); err != nil {
		return nil, 0, domain.WrapError(domain.ErrCodeValidation, "invalid maintenance record", err)
	}

	project, err := s.projects.GetByID(ctx, projectID, false)
	if err != nil {
		return nil, 0, err
	}

	record.IsDeleted = false
	record.DeletedAt = nil
	project.MaintenanceRecords = append(project.MaintenanceRecords, record)
	index := len(project.MaintenanceRecords) - 1

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, 0, err
	}
	s.logger.Info("maintenance record added",
		zap.String("project_id", projectID),
		zap.Int("record_index", index))
	return project, index, nil
}

// UpdateMaintenanceRecord patches the record at index in place. Soft-deleted
// records must be restored before they can be edited.
func (s *Service) UpdateMaintenanceRecord(ctx context.Context, projectID string, index int, patch domain.RecordPatch) (*domain.Project, error) {
	project, record, err := s.recordAt(ctx, projectID, index)
	if err != nil {
		return nil, err
	}
	if record.IsDeleted {
		return nil, domain.ErrRecordDeleted
	}

	updated := patch.Apply(*record)
	if err := updated.Validate(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeValidation, "invalid maintenance record", err)
	}
	project.MaintenanceRecords[index] = updated

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("maintenance record updated",
		zap.String("project_id", projectID),
		zap.Int("record_index", index))
	return project, nil
}

// DeleteMaintenanceRecord tombstones the record at index. The record keeps
// its slot so previously issued indices stay valid.
func (s *Service) DeleteMaintenanceRecord(ctx context.Context, projectID string, index int) (*domain.Project, error) {
	project, record, err := s.recordAt(ctx, projectID, index)
	if err != nil {
		return nil, err
	}
	if record.IsDeleted {
		return nil, domain.ErrRecordDeleted
	}

	now := s.now()
	record.IsDeleted = true
	record.DeletedAt = &now
	project.MaintenanceRecords[index] = *record

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("maintenance record soft-deleted",
		zap.String("project_id", projectID),
		zap.Int("record_index", index))
	return project, nil
}

// RestoreMaintenanceRecord clears the tombstone at index; every other field
// is preserved exactly as it was before the delete.
func (s *Service) RestoreMaintenanceRecord(ctx context.Context, projectID string, index int) (*domain.Project, error) {
	project, record, err := s.recordAt(ctx, projectID, index)
	if err != nil {
		return nil, err
	}
	if !record.IsDeleted {
		return nil, domain.ErrRecordNotDeleted
	}

	record.IsDeleted = false
	record.DeletedAt = nil
	project.MaintenanceRecords[index] = *record

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("maintenance record restored",
		zap.String("project_id", projectID),
		zap.Int("record_index", index))
	return project, nil
}

// DeletedMaintenanceRecords lists the tombstoned records of a visible project.
func (s *Service) DeletedMaintenanceRecords(ctx context.Context, projectID string) ([]domain.MaintenanceRecord, error) {
	project, err := s.projects.GetByID(ctx, projectID, false)
	if err != nil {
		return nil, err
	}
	return project.DeletedRecords(), nil
}

func (s *Service) recordAt(ctx context.Context, projectID string, index int) (*domain.Project, *domain.MaintenanceRecord, error) {
	project, err := s.projects.GetByID(ctx, projectID, false)
	if err != nil {
		return nil, nil, err
	}
	if index < 0 || index >= len(project.MaintenanceRecords) {
		return nil, nil, domain.ErrRecordIndex
	}
	record := project.MaintenanceRecords[index]
	return project, &record, nil
}

// listAll drains the store in batches; the workload is a single operator's
// project list, so unbounded accumulation is fine.
func (s *Service) listAll(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	var all []domain.Project
	filter.Limit = listBatchSize
	for offset := 0; ; offset += listBatchSize {
		filter.Offset = offset
		batch, err := s.projects.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < listBatchSize {
			return all, nil
		}
	}
}
