package ledger

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maintledger/backend/domain"
	"github.com/maintledger/backend/repository"
)

// memoryRepo is an in-memory ProjectRepository used by the engine tests. It
// mirrors the store contract: ids are unique across deleted projects too and
// listings come back ordered by project id.
type memoryRepo struct {
	mu       sync.Mutex
	projects map[string]domain.Project
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{projects: make(map[string]domain.Project)}
}

func (r *memoryRepo) Insert(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.projects[project.ProjectID]; exists {
		return domain.ErrProjectExists
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.projects[project.ProjectID] = *project
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, projectID string, includeDeleted bool) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[projectID]
	if !ok || (project.IsDeleted && !includeDeleted) {
		return nil, domain.ErrProjectNotFound
	}
	clone := project
	clone.MaintenanceRecords = append([]domain.MaintenanceRecord(nil), project.MaintenanceRecords...)
	return &clone, nil
}

func (r *memoryRepo) List(_ context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Project
	for _, project := range r.projects {
		if !matches(project, filter) {
			continue
		}
		out = append(out, project)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID < out[j].ProjectID })

	start := filter.Offset
	if start > len(out) {
		start = len(out)
	}
	end := len(out)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return out[start:end], nil
}

func (r *memoryRepo) Count(_ context.Context, filter repository.ProjectFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, project := range r.projects {
		if matches(project, filter) {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepo) Update(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ProjectID]; !ok {
		return domain.ErrProjectNotFound
	}
	project.UpdatedAt = time.Now()
	r.projects[project.ProjectID] = *project
	return nil
}

func (r *memoryRepo) Upsert(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.UpdatedAt = time.Now()
	r.projects[project.ProjectID] = *project
	return nil
}

func matches(project domain.Project, filter repository.ProjectFilter) bool {
	switch {
	case filter.DeletedOnly:
		return project.IsDeleted
	case filter.IncludeDeleted:
		return true
	default:
		return !project.IsDeleted
	}
}

func fixedClock(value string) Option {
	at, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		panic(err)
	}
	return WithClock(func() time.Time { return at })
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	return New(repo, zap.NewNop(), fixedClock("2025-07-18")), repo
}

func seedProject(t *testing.T, svc *Service, id, name string, records ...domain.MaintenanceRecord) *domain.Project {
	t.Helper()
	project, err := svc.CreateProject(context.Background(), &domain.Project{
		ProjectID:          id,
		ProjectName:        name,
		StartDate:          "2025-01-01",
		ServerTime:         "2026-01-01",
		MaintenanceRecords: records,
	})
	require.NoError(t, err)
	return project
}

func TestCreateProject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		created := seedProject(t, svc, "1", "Alpha")
		assert.Equal(t, "0", created.OpeningFee)
		assert.NotNil(t, created.MaintenanceRecords)
		assert.False(t, created.IsDeleted)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := svc.CreateProject(ctx, &domain.Project{
			ProjectID: "1", ProjectName: "Copy", StartDate: "2025-01-01", ServerTime: "2026-01-01",
		})
		assert.ErrorIs(t, err, domain.ErrProjectExists)
	})

	t.Run("soft-deleted project still owns its id", func(t *testing.T) {
		seedProject(t, svc, "5", "Doomed")
		_, err := svc.DeleteProject(ctx, "5")
		require.NoError(t, err)

		_, err = svc.CreateProject(ctx, &domain.Project{
			ProjectID: "5", ProjectName: "Reborn", StartDate: "2025-01-01", ServerTime: "2026-01-01",
		})
		assert.ErrorIs(t, err, domain.ErrProjectExists)
	})

	t.Run("missing required fields rejected", func(t *testing.T) {
		_, err := svc.CreateProject(ctx, &domain.Project{ProjectID: "9"})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
	})
}

func TestProjectLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedProject(t, svc, "p1", "Site", domain.MaintenanceRecord{
		PaymentDate: "2025-07-10", PaymentAmount: "100",
	})

	t.Run("delete hides the project", func(t *testing.T) {
		deleted, err := svc.DeleteProject(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, deleted.IsDeleted)
		require.NotNil(t, deleted.DeletedAt)

		_, err = svc.GetProject(ctx, "p1")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("deleted listing shows it", func(t *testing.T) {
		deleted, err := svc.DeletedProjects(ctx)
		require.NoError(t, err)
		require.Len(t, deleted, 1)
		assert.Equal(t, "p1", deleted[0].ProjectID)
	})

	t.Run("restore brings records back untouched", func(t *testing.T) {
		restored, err := svc.RestoreProject(ctx, "p1")
		require.NoError(t, err)
		assert.False(t, restored.IsDeleted)
		assert.Nil(t, restored.DeletedAt)
		require.Len(t, restored.MaintenanceRecords, 1)
		assert.Equal(t, "100", restored.MaintenanceRecords[0].PaymentAmount)
	})

	t.Run("restoring a live project fails", func(t *testing.T) {
		_, err := svc.RestoreProject(ctx, "p1")
		assert.ErrorIs(t, err, domain.ErrProjectNotDeleted)
	})

	t.Run("deleting a missing project fails", func(t *testing.T) {
		_, err := svc.DeleteProject(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestUpdateProject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedProject(t, svc, "u1", "Before")

	name := "After"
	updated, err := svc.UpdateProject(ctx, "u1", domain.ProjectPatch{ProjectName: &name})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.ProjectName)
	assert.Equal(t, "2025-01-01", updated.StartDate, "unset fields preserved")

	empty := ""
	_, err = svc.UpdateProject(ctx, "u1", domain.ProjectPatch{ProjectName: &empty})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
}

func TestMaintenanceRecordLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedProject(t, svc, "r1", "Records")

	t.Run("add assigns next index", func(t *testing.T) {
		_, index, err := svc.AddMaintenanceRecord(ctx, "r1", domain.MaintenanceRecord{
			PaymentDate: "2025-07-01", PaymentAmount: "100", IsPayment: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, index)

		_, index, err = svc.AddMaintenanceRecord(ctx, "r1", domain.MaintenanceRecord{
			PaymentDate: "2025-07-15", PaymentAmount: "50", Details: "renewal",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, index)
	})

	t.Run("delete keeps the slot", func(t *testing.T) {
		project, err := svc.DeleteMaintenanceRecord(ctx, "r1", 0)
		require.NoError(t, err)
		require.Len(t, project.MaintenanceRecords, 2, "tombstone keeps the slot")
		assert.True(t, project.MaintenanceRecords[0].IsDeleted)
		assert.NotNil(t, project.MaintenanceRecords[0].DeletedAt)
		assert.False(t, project.MaintenanceRecords[1].IsDeleted)
	})

	t.Run("double delete fails", func(t *testing.T) {
		_, err := svc.DeleteMaintenanceRecord(ctx, "r1", 0)
		assert.ErrorIs(t, err, domain.ErrRecordDeleted)
	})

	t.Run("deleted record cannot be edited", func(t *testing.T) {
		amount := "999"
		_, err := svc.UpdateMaintenanceRecord(ctx, "r1", 0, domain.RecordPatch{PaymentAmount: &amount})
		assert.ErrorIs(t, err, domain.ErrRecordDeleted)
	})

	t.Run("deleted records listing", func(t *testing.T) {
		deleted, err := svc.DeletedMaintenanceRecords(ctx, "r1")
		require.NoError(t, err)
		require.Len(t, deleted, 1)
		assert.Equal(t, "2025-07-01", deleted[0].PaymentDate)
	})

	t.Run("restore reverts the record exactly", func(t *testing.T) {
		project, err := svc.RestoreMaintenanceRecord(ctx, "r1", 0)
		require.NoError(t, err)
		record := project.MaintenanceRecords[0]
		assert.False(t, record.IsDeleted)
		assert.Nil(t, record.DeletedAt)
		assert.Equal(t, "100", record.PaymentAmount)
		assert.True(t, record.IsPayment)
	})

	t.Run("restoring a live record fails", func(t *testing.T) {
		_, err := svc.RestoreMaintenanceRecord(ctx, "r1", 0)
		assert.ErrorIs(t, err, domain.ErrRecordNotDeleted)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := svc.DeleteMaintenanceRecord(ctx, "r1", 7)
		assert.ErrorIs(t, err, domain.ErrRecordIndex)
		_, err = svc.DeleteMaintenanceRecord(ctx, "r1", -1)
		assert.ErrorIs(t, err, domain.ErrRecordIndex)
	})

	t.Run("edit patches in place", func(t *testing.T) {
		amount := "75"
		project, err := svc.UpdateMaintenanceRecord(ctx, "r1", 1, domain.RecordPatch{PaymentAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, "75", project.MaintenanceRecords[1].PaymentAmount)
		assert.Equal(t, "renewal", project.MaintenanceRecords[1].Details)
	})
}

func TestListProjects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		seedProject(t, svc, id, "Project "+id)
	}

	page, err := svc.ListProjects(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasPrev)
	assert.True(t, page.HasNext)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].ProjectID)

	last, err := svc.ListProjects(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "e", last.Items[0].ProjectID)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)

	_, err = svc.DeleteProject(ctx, "b")
	require.NoError(t, err)
	visible, err := svc.ListProjects(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, visible.Total, "soft-deleted projects hidden")
}

func TestImportProjects(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	t.Run("array payload", func(t *testing.T) {
		count, err := svc.ImportProjects(ctx, []byte(`[
			{"projectId":"i1","projectName":"One","startDate":"2025-01-01","serverTime":"2026-01-01"},
			{"projectId":"i2","projectName":"Two","startDate":"2025-01-01","serverTime":"2026-01-01"}
		]`))
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("single document payload", func(t *testing.T) {
		count, err := svc.ImportProjects(ctx, []byte(
			`{"projectId":"i3","projectName":"Three","startDate":"2025-01-01","serverTime":"2026-01-01"}`))
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("idempotent by id", func(t *testing.T) {
		_, err := svc.ImportProjects(ctx, []byte(
			`{"projectId":"i1","projectName":"One Renamed","startDate":"2025-01-01","serverTime":"2026-01-01"}`))
		require.NoError(t, err)

		total, err := repo.Count(ctx, repository.ProjectFilter{IncludeDeleted: true})
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		project, err := svc.GetProject(ctx, "i1")
		require.NoError(t, err)
		assert.Equal(t, "One Renamed", project.ProjectName)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := svc.ImportProjects(ctx, []byte(`{broken`))
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
	})
}
