package onboarding

import (
	"context"
	"strings"
	"sync"
	"testing"

	"cleangrid/internal/territory"
	"cleangrid/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryApplicationRepo struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*FranchiseeApplication
}

func newMemoryApplicationRepo() *memoryApplicationRepo {
	return &memoryApplicationRepo{apps: make(map[uuid.UUID]*FranchiseeApplication)}
}

func (r *memoryApplicationRepo) Create(application *FranchiseeApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	cp := *application
	r.apps[application.ID] = &cp
	return nil
}

func (r *memoryApplicationRepo) GetByID(id uuid.UUID) (*FranchiseeApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (r *memoryApplicationRepo) EmailExists(email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryApplicationRepo) List(status ApplicationStatus) ([]FranchiseeApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []FranchiseeApplication
	for _, app := range r.apps {
		if status == "" || app.Status == status {
			list = append(list, *app)
		}
	}
	return list, nil
}

func (r *memoryApplicationRepo) Update(application *FranchiseeApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[application.ID]; !ok {
		return ErrApplicationNotFound
	}
	cp := *application
	r.apps[application.ID] = &cp
	return nil
}

type fakeUserDirectory struct {
	byEmail map[string]*users.User
	updated map[string]users.Role
}

func newFakeUserDirectory() *fakeUserDirectory {
	return &fakeUserDirectory{
		byEmail: make(map[string]*users.User),
		updated: make(map[string]users.Role),
	}
}

func (d *fakeUserDirectory) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := d.byEmail[email]
	if !ok {
		return nil, assert.AnError
	}
	return user, nil
}

func (d *fakeUserDirectory) UpdateUserRole(ctx context.Context, userID string, role users.Role) error {
	d.updated[userID] = role
	return nil
}

type assignedArea struct {
	areaCode     string
	franchiseeID string
	status       string
}

type fakeTerritoryAssigner struct {
	assigned []assignedArea
}

func (a *fakeTerritoryAssigner) Assign(ctx context.Context, req territory.AssignRequest, assignedBy *uuid.UUID) (*territory.AssignmentResponse, error) {
	a.assigned = append(a.assigned, assignedArea{
		areaCode:     req.AreaCode,
		franchiseeID: req.FranchiseeID,
		status:       req.Status,
	})
	return &territory.AssignmentResponse{AreaCode: req.AreaCode}, nil
}

func applyRequest() *ApplyRequest {
	return &ApplyRequest{
		LegalName:     "Sparkle Team Inc.",
		LegalType:     "corporation",
		OperatingName: "Sparkle Team",
		ContactName:   "Dana Li",
		Email:         "Dana@SparkleTeam.ca",
		Phone:         "416-555-0101",
		AddressLine:   "12 Queen St W",
		City:          "Toronto",
		Province:      "on",
		PostalCode:    "m5v 3a8",

		PreferredAreaCodes:        []string{"3a8", "2T6"},
		VehicleAccess:             true,
		AgreesToInsuranceMinimums: true,
	}
}

func newTestService(repo Repository, dir UserDirectory, assigner TerritoryAssigner) Service {
	return NewService(repo, dir, assigner)
}

func TestApply_CreatesSubmittedApplication(t *testing.T) {
	repo := newMemoryApplicationRepo()
	svc := newTestService(repo, newFakeUserDirectory(), &fakeTerritoryAssigner{})

	app, err := svc.Apply(context.Background(), applyRequest())
	require.NoError(t, err)

	assert.Equal(t, ApplicationSubmitted, app.Status)
	assert.Equal(t, "dana@sparkleteam.ca", app.Email)
	assert.Equal(t, "M5V3A8", app.PostalCode)
	assert.Equal(t, "ON", app.Province)
	assert.Equal(t, "3A8,2T6", app.PreferredAreaCodes)
	assert.NotEqual(t, uuid.Nil, app.ID)
}

func TestApply_RejectsDuplicateEmail(t *testing.T) {
	repo := newMemoryApplicationRepo()
	svc := newTestService(repo, newFakeUserDirectory(), &fakeTerritoryAssigner{})

	_, err := svc.Apply(context.Background(), applyRequest())
	require.NoError(t, err)

	// Same email, different casing
	req := applyRequest()
	req.Email = strings.ToUpper(req.Email)
	_, err = svc.Apply(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestApply_RejectsMalformedPostalCode(t *testing.T) {
	svc := newTestService(newMemoryApplicationRepo(), newFakeUserDirectory(), &fakeTerritoryAssigner{})

	req := applyRequest()
	req.PostalCode = "12345"
	_, err := svc.Apply(context.Background(), req)

	var invalidErr *territory.InvalidPostalCodeError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestApprove_StagesAreaCodes(t *testing.T) {
	repo := newMemoryApplicationRepo()
	svc := newTestService(repo, newFakeUserDirectory(), &fakeTerritoryAssigner{})
	adminID := uuid.New()

	app, err := svc.Apply(context.Background(), applyRequest())
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), app.ID, adminID, &ApproveRequest{
		AssignedAreaCodes: []string{"3a8"},
	})
	require.NoError(t, err)

	assert.Equal(t, ApplicationApproved, approved.Status)
	assert.Equal(t, "3A8", approved.AssignedAreaCodes)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, adminID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
}

func TestApprove_OnlyFromSubmittedOrUnderReview(t *testing.T) {
	repo := newMemoryApplicationRepo()
	svc := newTestService(repo, newFakeUserDirectory(), &fakeTerritoryAssigner{})
	adminID := uuid.New()

	app, err := svc.Apply(context.Background(), applyRequest())
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), app.ID, "incomplete insurance details")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), app.ID, adminID, &ApproveRequest{})
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, ApplicationRejected, stateErr.Status)
}

func TestReject_RecordsReason(t *testing.T) {
	repo := newMemoryApplicationRepo()
	svc := newTestService(repo, newFakeUserDirectory(), &fakeTerritoryAssigner{})

	app, err := svc.Apply(context.Background(), applyRequest())
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), app.ID, "no coverage in requested areas")
	require.NoError(t, err)

	assert.Equal(t, ApplicationRejected, rejected.Status)
	assert.Equal(t, "no coverage in requested areas", rejected.RejectionReason)
	assert.NotNil(t, rejected.RejectedAt)
}

func TestActivate_PromotesAccountAndAssignsTerritories(t *testing.T) {
	repo := newMemoryApplicationRepo()
	dir := newFakeUserDirectory()
	assigner := &fakeTerritoryAssigner{}
	svc := newTestService(repo, dir, assigner)
	adminID := uuid.New()

	userID := uuid.New()
	dir.byEmail["dana@sparkleteam.ca"] = &users.User{
		ID:    userID,
		Email: "dana@sparkleteam.ca",
		Role:  users.RoleCustomer,
	}

	app, err := svc.Apply(context.Background(), applyRequest())
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), app.ID, adminID, &ApproveRequest{
		AssignedAreaCodes: []string{"3A8", "2T6"},
	})
	require.NoError(t, err)

	activated, err := svc.Activate(context.Background(), app.ID, adminID)
	require.NoError(t, err)

	assert.Equal(t, ApplicationActivated, activated.Status)
	assert.NotNil(t, activated.ActivatedAt)
	assert.Equal(t, users.RoleFranchisee, dir.updated[userID.String()])

	require.Len(t, assigner.assigned, 2)
	assert.Equal(t, "3A8", assigner.assigned[0].areaCode)
	assert.Equal(t, userID.String(), assigner.assigned[0].franchiseeID)
	assert.Equal(t, string(territory.StatusProtected), assigner.assigned[0].status)
	assert.Equal(t, "2T6", assigner.assigned[1].areaCode)
}

func TestActivate_RequiresApprovedStatus(t *testing.T) {
	repo := newMemoryApplicationRepo()
	svc := newTestService(repo, newFakeUserDirectory(), &fakeTerritoryAssigner{})

	app, err := svc.Apply(context.Background(), applyRequest())
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), app.ID, uuid.New())
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, ApplicationSubmitted, stateErr.Status)
}

func TestActivate_RequiresLinkedAccount(t *testing.T) {
	repo := newMemoryApplicationRepo()
	svc := newTestService(repo, newFakeUserDirectory(), &fakeTerritoryAssigner{})
	adminID := uuid.New()

	app, err := svc.Apply(context.Background(), applyRequest())
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), app.ID, adminID, &ApproveRequest{})
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), app.ID, adminID)
	assert.ErrorIs(t, err, ErrNoLinkedAccount)
}
