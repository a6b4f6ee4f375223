package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/repository"
)

const projectColumns = `
	project_id, project_name, start_date, maintenance_details,
	opening_fee, is_opening_fee, server_time, maintenance_records,
	is_deleted, deleted_at, created_at, updated_at`

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation of
// ProjectRepository. Maintenance records live in a JSONB column so a project
// document commits as a single row write.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Insert(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO projects (project_id, project_name, start_date, maintenance_details,
		opening_fee, is_opening_fee, server_time, maintenance_records, is_deleted, deleted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`

	records, err := marshalRecords(project.MaintenanceRecords)
	if err != nil {
		return err
	}

	if err := r.pool.QueryRow(ctx, query,
		project.ProjectID,
		project.ProjectName,
		project.StartDate,
		project.MaintenanceDetails,
		project.OpeningFee,
		project.IsOpeningFee,
		project.ServerTime,
		records,
		project.IsDeleted,
		project.DeletedAt,
	).Scan(&project.CreatedAt, &project.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProjectExists
		}
		return err
	}

	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, projectID string, includeDeleted bool) (*domain.Project, error) {
	query := `SELECT` + projectColumns + `
	FROM projects
	WHERE project_id = $1`
	if !includeDeleted {
		query += ` AND is_deleted = FALSE`
	}

	row := r.pool.QueryRow(ctx, query, projectID)
	return scanProject(row)
}

func (r *projectRepository) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	query := `SELECT` + projectColumns + `
	FROM projects
	WHERE ` + filterClause(filter) + `
	ORDER BY ` + orderClause(filter) + `
	LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Count(ctx context.Context, filter repository.ProjectFilter) (int, error) {
	query := `SELECT COUNT(*) FROM projects WHERE ` + filterClause(filter)

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE projects
	SET project_name = $2,
		start_date = $3,
		maintenance_details = $4,
		opening_fee = $5,
		is_opening_fee = $6,
		server_time = $7,
		maintenance_records = $8,
		is_deleted = $9,
		deleted_at = $10,
		updated_at = NOW()
	WHERE project_id = $1
	RETURNING updated_at
	`

	records, err := marshalRecords(project.MaintenanceRecords)
	if err != nil {
		return err
	}

	if err := r.pool.QueryRow(ctx, query,
		project.ProjectID,
		project.ProjectName,
		project.StartDate,
		project.MaintenanceDetails,
		project.OpeningFee,
		project.IsOpeningFee,
		project.ServerTime,
		records,
		project.IsDeleted,
		project.DeletedAt,
	).Scan(&project.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProjectNotFound
		}
		return err
	}

	return nil
}

func (r *projectRepository) Upsert(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO projects (project_id, project_name, start_date, maintenance_details,
		opening_fee, is_opening_fee, server_time, maintenance_records, is_deleted, deleted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (project_id) DO UPDATE
	SET project_name = EXCLUDED.project_name,
		start_date = EXCLUDED.start_date,
		maintenance_details = EXCLUDED.maintenance_details,
		opening_fee = EXCLUDED.opening_fee,
		is_opening_fee = EXCLUDED.is_opening_fee,
		server_time = EXCLUDED.server_time,
		maintenance_records = EXCLUDED.maintenance_records,
		is_deleted = EXCLUDED.is_deleted,
		deleted_at = EXCLUDED.deleted_at,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	records, err := marshalRecords(project.MaintenanceRecords)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx, query,
		project.ProjectID,
		project.ProjectName,
		project.StartDate,
		project.MaintenanceDetails,
		project.OpeningFee,
		project.IsOpeningFee,
		project.ServerTime,
		records,
		project.IsDeleted,
		project.DeletedAt,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
}

func filterClause(filter repository.ProjectFilter) string {
	switch {
	case filter.DeletedOnly:
		return "is_deleted = TRUE"
	case filter.IncludeDeleted:
		return "TRUE"
	default:
		return "is_deleted = FALSE"
	}
}

func orderClause(filter repository.ProjectFilter) string {
	if filter.DeletedOnly {
		return "deleted_at DESC NULLS LAST"
	}
	return "project_id ASC"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
