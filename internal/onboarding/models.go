package onboarding

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the franchisee application lifecycle state
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "submitted"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationApproved    ApplicationStatus = "approved"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationActivated   ApplicationStatus = "activated"
)

// IsValidApplicationStatus reports whether a status filter names a
// real lifecycle state.
func IsValidApplicationStatus(status string) bool {
	switch ApplicationStatus(status) {
	case ApplicationSubmitted, ApplicationUnderReview, ApplicationApproved, ApplicationRejected, ApplicationActivated:
		return true
	default:
		return false
	}
}

// FranchiseeApplication is a prospective operator's intake record. It
// moves submitted → approved → activated, or submitted → rejected;
// activation is what grants the FRANCHISEE role and territory claims.
type FranchiseeApplication struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`

	// Business identity
	LegalName      string `json:"legal_name" gorm:"not null;size:200"`
	LegalType      string `json:"legal_type" gorm:"type:varchar(30);not null"`
	OperatingName  string `json:"operating_name" gorm:"not null;size:200"`
	BusinessNumber string `json:"business_number" gorm:"size:30"`
	TaxNumber      string `json:"tax_number" gorm:"size:30"`

	// Contact
	ContactName string `json:"contact_name" gorm:"not null;size:200"`
	Email       string `json:"email" gorm:"uniqueIndex;not null"`
	Phone       string `json:"phone" gorm:"not null;size:20"`
	AddressLine string `json:"address_line" gorm:"not null;size:255"`
	City        string `json:"city" gorm:"not null;size:100"`
	Province    string `json:"province" gorm:"size:2"`
	PostalCode  string `json:"postal_code" gorm:"type:varchar(6);not null"`

	// Preferences
	PreferredAreaCodes string `json:"preferred_area_codes" gorm:"size:255"`
	VehicleAccess      bool   `json:"vehicle_access" gorm:"default:false"`
	Experience         string `json:"experience" gorm:"type:text"`

	AgreesToInsuranceMinimums bool `json:"agrees_to_insurance_minimums" gorm:"default:false"`

	Status ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'submitted';index"`

	// Review trail
	AssignedAreaCodes string     `json:"assigned_area_codes" gorm:"size:255"`
	ApprovedBy        *uuid.UUID `json:"approved_by" gorm:"type:uuid"`
	ApprovedAt        *time.Time `json:"approved_at"`
	RejectedAt        *time.Time `json:"rejected_at"`
	RejectionReason   string     `json:"rejection_reason" gorm:"size:500"`
	ActivatedAt       *time.Time `json:"activated_at"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (FranchiseeApplication) TableName() string {
	return "franchisee_applications"
}

// AreaCodeList splits the stored comma-joined assigned area codes
func (a *FranchiseeApplication) AreaCodeList() []string {
	if a.AssignedAreaCodes == "" {
		return nil
	}
	parts := strings.Split(a.AssignedAreaCodes, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}

type ApplyRequest struct {
	LegalName      string `json:"legal_name" binding:"required,min=2,max=200"`
	LegalType      string `json:"legal_type" binding:"required,oneof=sole_proprietorship partnership corporation"`
	OperatingName  string `json:"operating_name" binding:"required,min=2,max=200"`
	BusinessNumber string `json:"business_number" binding:"omitempty,max=30"`
	TaxNumber      string `json:"tax_number" binding:"omitempty,max=30"`

	ContactName string `json:"contact_name" binding:"required,min=2,max=200"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required,min=7,max=20"`
	AddressLine string `json:"address_line" binding:"required,min=3,max=255"`
	City        string `json:"city" binding:"required,min=1,max=100"`
	Province    string `json:"province" binding:"omitempty,len=2"`
	PostalCode  string `json:"postal_code" binding:"required"`

	PreferredAreaCodes []string `json:"preferred_area_codes" binding:"omitempty,max=10,dive,len=3"`
	VehicleAccess      bool     `json:"vehicle_access"`
	Experience         string   `json:"experience" binding:"omitempty,max=2000"`

	AgreesToInsuranceMinimums bool `json:"agrees_to_insurance_minimums"`
}

type ApproveRequest struct {
	AssignedAreaCodes []string `json:"assigned_area_codes" binding:"omitempty,max=10,dive,len=3"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// ApplicationStatusResponse is the public status-check payload: just
// enough for an applicant to track progress, nothing internal.
type ApplicationStatusResponse struct {
	ApplicationID     string            `json:"application_id"`
	OperatingName     string            `json:"operating_name"`
	Status            ApplicationStatus `json:"status"`
	SubmittedAt       time.Time         `json:"submitted_at"`
	AssignedAreaCodes []string          `json:"assigned_area_codes"`
}
