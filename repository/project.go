package repository

import (
	"context"

	"github.com/maintledger/backend/domain"
)

// ProjectFilter narrows project listings. The zero value lists visible
// (non-deleted) projects sorted by project id ascending.
type ProjectFilter struct {
	// IncludeDeleted keeps soft-deleted projects in the result set.
	IncludeDeleted bool
	// DeletedOnly restricts the listing to soft-deleted projects, sorted by
	// deletion time descending (newest first). Implies IncludeDeleted.
	DeletedOnly bool
	Limit       int
	Offset      int
}

// ProjectRepository is the durable ledger store. Implementations must treat a
// single project document as the atomicity unit: Update replaces the whole
// document in one write.
type ProjectRepository interface {
	// Insert stores a new project and fails with domain.ErrProjectExists when
	// the id is already taken, soft-deleted projects included.
	Insert(ctx context.Context, project *domain.Project) error
	// GetByID fetches one project. Soft-deleted projects are only visible
	// when includeDeleted is set; otherwise domain.ErrProjectNotFound.
	GetByID(ctx context.Context, projectID string, includeDeleted bool) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int, error)
	// Update persists the full project document, matched by project id
	// regardless of soft-delete state.
	Update(ctx context.Context, project *domain.Project) error
	// Upsert inserts or overwrites by project id; used by the initial import.
	Upsert(ctx context.Context, project *domain.Project) error
}
