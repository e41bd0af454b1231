package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cleangrid/internal/territory"
	"cleangrid/internal/users"

	"github.com/google/uuid"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

var (
	ErrDuplicateApplication = errors.New("an application with this email already exists")
	ErrNoLinkedAccount      = errors.New("no registered account matches the application email")
)

// InvalidStateError reports an application whose status forbids the
// requested review action.
type InvalidStateError struct {
	Status ApplicationStatus
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s an application in status %s", e.Action, e.Status)
}

// UserDirectory links applications to registered accounts and promotes
// them on activation. The auth repository satisfies it.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*users.User, error)
	UpdateUserRole(ctx context.Context, userID string, role users.Role) error
}

// TerritoryAssigner grants area-code claims to an activated
// franchisee. The territory service satisfies it.
type TerritoryAssigner interface {
	Assign(ctx context.Context, req territory.AssignRequest, assignedBy *uuid.UUID) (*territory.AssignmentResponse, error)
}

type Service interface {
	Apply(ctx context.Context, req *ApplyRequest) (*FranchiseeApplication, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*ApplicationStatusResponse, error)
	List(ctx context.Context, status ApplicationStatus) ([]FranchiseeApplication, error)
	Approve(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req *ApproveRequest) (*FranchiseeApplication, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*FranchiseeApplication, error)
	Activate(ctx context.Context, id uuid.UUID, adminID uuid.UUID) (*FranchiseeApplication, error)
}

type service struct {
	repo        Repository
	users       UserDirectory
	territories TerritoryAssigner
}

func NewService(repo Repository, users UserDirectory, territories TerritoryAssigner) Service {
	return &service{repo: repo, users: users, territories: territories}
}

// Apply files a new application. Public: anyone can apply, one
// application per email.
func (s *service) Apply(ctx context.Context, req *ApplyRequest) (*FranchiseeApplication, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing applications: %w", err)
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	postalCode, err := territory.NormalizePostalCode(req.PostalCode)
	if err != nil {
		return nil, err
	}

	application := &FranchiseeApplication{
		LegalName:      req.LegalName,
		LegalType:      req.LegalType,
		OperatingName:  req.OperatingName,
		BusinessNumber: req.BusinessNumber,
		TaxNumber:      req.TaxNumber,

		ContactName: req.ContactName,
		Email:       email,
		Phone:       req.Phone,
		AddressLine: req.AddressLine,
		City:        req.City,
		Province:    strings.ToUpper(req.Province),
		PostalCode:  postalCode,

		PreferredAreaCodes: joinAreaCodes(req.PreferredAreaCodes),
		VehicleAccess:      req.VehicleAccess,
		Experience:         req.Experience,

		AgreesToInsuranceMinimums: req.AgreesToInsuranceMinimums,

		Status: ApplicationSubmitted,
	}

	if err := s.repo.Create(application); err != nil {
		return nil, fmt.Errorf("failed to save application: %w", err)
	}
	return application, nil
}

func (s *service) GetStatus(ctx context.Context, id uuid.UUID) (*ApplicationStatusResponse, error) {
	application, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &ApplicationStatusResponse{
		ApplicationID:     application.ID.String(),
		OperatingName:     application.OperatingName,
		Status:            application.Status,
		SubmittedAt:       application.SubmittedAt,
		AssignedAreaCodes: application.AreaCodeList(),
	}, nil
}

func (s *service) List(ctx context.Context, status ApplicationStatus) ([]FranchiseeApplication, error) {
	return s.repo.List(status)
}

// Approve marks a submitted application for onboarding, optionally
// staging the area codes it will hold once activated.
func (s *service) Approve(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req *ApproveRequest) (*FranchiseeApplication, error) {
	application, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if application.Status != ApplicationSubmitted && application.Status != ApplicationUnderReview {
		return nil, &InvalidStateError{Status: application.Status, Action: "approve"}
	}

	now := nowUTC()
	application.Status = ApplicationApproved
	application.ApprovedBy = &adminID
	application.ApprovedAt = &now
	if len(req.AssignedAreaCodes) > 0 {
		application.AssignedAreaCodes = joinAreaCodes(req.AssignedAreaCodes)
	}

	if err := s.repo.Update(application); err != nil {
		return nil, err
	}
	return application, nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID, reason string) (*FranchiseeApplication, error) {
	application, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if application.Status == ApplicationActivated {
		return nil, &InvalidStateError{Status: application.Status, Action: "reject"}
	}

	now := nowUTC()
	application.Status = ApplicationRejected
	application.RejectedAt = &now
	application.RejectionReason = reason

	if err := s.repo.Update(application); err != nil {
		return nil, err
	}
	return application, nil
}

// Activate turns an approved application into a working franchisee:
// the matching registered account gets the FRANCHISEE role and each
// staged area code becomes a protected assignment. The applicant must
// have registered with the application email first.
func (s *service) Activate(ctx context.Context, id uuid.UUID, adminID uuid.UUID) (*FranchiseeApplication, error) {
	application, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if application.Status != ApplicationApproved {
		return nil, &InvalidStateError{Status: application.Status, Action: "activate"}
	}

	user, err := s.users.GetUserByEmail(ctx, application.Email)
	if err != nil {
		return nil, ErrNoLinkedAccount
	}

	if user.Role != users.RoleFranchisee && user.Role != users.RoleAdmin {
		if err := s.users.UpdateUserRole(ctx, user.ID.String(), users.RoleFranchisee); err != nil {
			return nil, fmt.Errorf("failed to promote account: %w", err)
		}
	}

	for _, areaCode := range application.AreaCodeList() {
		_, err := s.territories.Assign(ctx, territory.AssignRequest{
			AreaCode:     areaCode,
			FranchiseeID: user.ID.String(),
			Status:       string(territory.StatusProtected),
			KPIScore:     100,
		}, &adminID)
		if err != nil {
			return nil, fmt.Errorf("failed to assign area code %s: %w", areaCode, err)
		}
	}

	now := nowUTC()
	application.Status = ApplicationActivated
	application.ActivatedAt = &now

	if err := s.repo.Update(application); err != nil {
		return nil, err
	}
	return application, nil
}

func joinAreaCodes(codes []string) string {
	upper := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			upper = append(upper, c)
		}
	}
	return strings.Join(upper, ",")
}
