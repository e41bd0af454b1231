package territory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository mirrors the Upsert semantics of the SQL repository:
// area_code is the unique key and reassignment overwrites in place.
type memoryRepository struct {
	mu          sync.Mutex
	assignments map[string]*Assignment
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{assignments: make(map[string]*Assignment)}
}

func (m *memoryRepository) GetByAreaCode(areaCode string) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[areaCode]
	if !ok {
		return nil, ErrAssignmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memoryRepository) List() ([]Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memoryRepository) ListByFranchisee(franchiseeID uuid.UUID) ([]Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Assignment
	for _, a := range m.assignments {
		if a.FranchiseeID != nil && *a.FranchiseeID == franchiseeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memoryRepository) Upsert(areaCode string, franchiseeID *uuid.UUID, status ProtectionStatus, kpiScore float64, assignedBy *uuid.UUID) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[areaCode]
	if !ok {
		a = &Assignment{ID: uuid.New(), AreaCode: areaCode}
		m.assignments[areaCode] = a
	}
	a.FranchiseeID = franchiseeID
	a.Status = status
	a.KPIScore = kpiScore
	a.AssignedBy = assignedBy
	copied := *a
	return &copied, nil
}

func TestAssign_LastWriteWins(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	franchiseeA := uuid.New()
	franchiseeB := uuid.New()

	_, err := svc.Assign(ctx, AssignRequest{
		AreaCode:     "3A8",
		FranchiseeID: franchiseeA.String(),
		Status:       "protected",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Assign(ctx, AssignRequest{
		AreaCode:     "3A8",
		FranchiseeID: franchiseeB.String(),
		Status:       "protected",
	}, nil)
	require.NoError(t, err)

	resolved, err := svc.ResolveFranchisee(ctx, "3A8")
	require.NoError(t, err)
	require.NotNil(t, resolved.FranchiseeID)
	assert.Equal(t, franchiseeB.String(), *resolved.FranchiseeID)

	// franchiseeA no longer holds the area
	held, err := svc.ListByFranchisee(ctx, franchiseeA)
	require.NoError(t, err)
	assert.Empty(t, held)
}

func TestAssign_OneHolderPerArea(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	// Churn the same areas across several franchisees
	franchisees := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	areas := []string{"3A8", "0B1", "2K9"}
	for i := 0; i < 12; i++ {
		_, err := svc.Assign(ctx, AssignRequest{
			AreaCode:     areas[i%len(areas)],
			FranchiseeID: franchisees[i%len(franchisees)].String(),
			Status:       "protected",
		}, nil)
		require.NoError(t, err)
	}

	all, err := svc.ListAssignments(ctx)
	require.NoError(t, err)

	holders := make(map[string]int)
	for _, a := range all {
		if a.Status != StatusUnassigned {
			holders[a.AreaCode]++
		}
	}
	for area, count := range holders {
		assert.Equal(t, 1, count, "area %s has %d holders", area, count)
	}
}

func TestResolveFranchisee_NonRoutableStatuses(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	franchisee := uuid.New()

	for _, status := range []string{"unassigned", "inactive"} {
		req := AssignRequest{AreaCode: "3A8", FranchiseeID: franchisee.String(), Status: status}
		_, err := svc.Assign(ctx, req, nil)
		require.NoError(t, err)

		_, err = svc.ResolveFranchisee(ctx, "3A8")
		assert.ErrorIs(t, err, ErrNoFranchisee, "status %s", status)
	}

	for _, status := range []string{"protected", "probation", "overflow"} {
		req := AssignRequest{AreaCode: "3A8", FranchiseeID: franchisee.String(), Status: status}
		_, err := svc.Assign(ctx, req, nil)
		require.NoError(t, err)

		resolved, err := svc.ResolveFranchisee(ctx, "3A8")
		require.NoError(t, err, "status %s", status)
		assert.Equal(t, ProtectionStatus(status), resolved.Status)
	}
}

func TestResolveFranchisee_UnknownArea(t *testing.T) {
	svc := NewService(newMemoryRepository())

	_, err := svc.ResolveFranchisee(context.Background(), "9Z9")
	assert.ErrorIs(t, err, ErrNoFranchisee)
}

func TestResolveByPostalCode(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	franchisee := uuid.New()
	_, err := svc.Assign(ctx, AssignRequest{
		AreaCode:     "3A8",
		FranchiseeID: franchisee.String(),
		Status:       "protected",
	}, nil)
	require.NoError(t, err)

	resolved, err := svc.ResolveByPostalCode(ctx, "m5v 3a8")
	require.NoError(t, err)
	assert.Equal(t, "3A8", resolved.AreaCode)

	_, err = svc.ResolveByPostalCode(ctx, "bogus")
	var invalid *InvalidPostalCodeError
	assert.ErrorAs(t, err, &invalid)
}

func TestAssign_FromPostalCode(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	resp, err := svc.Assign(context.Background(), AssignRequest{
		PostalCode:   "K1A 0B1",
		FranchiseeID: uuid.New().String(),
		Status:       "overflow",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "0B1", resp.AreaCode)
}

func TestAssign_InvalidStatus(t *testing.T) {
	svc := NewService(newMemoryRepository())

	_, err := svc.Assign(context.Background(), AssignRequest{
		AreaCode:     "3A8",
		FranchiseeID: uuid.New().String(),
		Status:       "exclusive",
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
