package territory

import (
	"time"

	"github.com/google/uuid"
)

// ProtectionStatus is the strength of a franchisee's claim on an area
type ProtectionStatus string

const (
	StatusProtected  ProtectionStatus = "protected"
	StatusProbation  ProtectionStatus = "probation"
	StatusOverflow   ProtectionStatus = "overflow"
	StatusUnassigned ProtectionStatus = "unassigned"
	StatusInactive   ProtectionStatus = "inactive"
)

func IsValidProtectionStatus(s ProtectionStatus) bool {
	switch s {
	case StatusProtected, StatusProbation, StatusOverflow, StatusUnassigned, StatusInactive:
		return true
	}
	return false
}

// IsRoutable reports whether the assignment should receive new bookings
func (s ProtectionStatus) IsRoutable() bool {
	switch s {
	case StatusProtected, StatusProbation, StatusOverflow:
		return true
	}
	return false
}

// Assignment maps one area code to at most one franchisee. AreaCode is
// the unique key; reassignment overwrites the previous holder in place
// so the one-holder invariant is enforced by the schema itself.
type Assignment struct {
	ID           uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	AreaCode     string           `json:"area_code" gorm:"type:varchar(3);not null;uniqueIndex"`
	FranchiseeID *uuid.UUID       `json:"franchisee_id" gorm:"type:uuid"`
	Status       ProtectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'unassigned'"`
	KPIScore     float64          `json:"kpi_score" gorm:"default:0"`

	AssignedBy *uuid.UUID `json:"assigned_by" gorm:"type:uuid"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type AssignRequest struct {
	PostalCode   string  `json:"postal_code"`
	AreaCode     string  `json:"area_code"`
	FranchiseeID string  `json:"franchisee_id" binding:"omitempty,uuid"`
	Status       string  `json:"status" binding:"required,oneof=protected probation overflow unassigned inactive"`
	KPIScore     float64 `json:"kpi_score" binding:"min=0,max=100"`
}

type AssignmentResponse struct {
	AreaCode     string           `json:"area_code"`
	FranchiseeID *string          `json:"franchisee_id"`
	Status       ProtectionStatus `json:"status"`
	KPIScore     float64          `json:"kpi_score"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func toAssignmentResponse(a *Assignment) *AssignmentResponse {
	resp := &AssignmentResponse{
		AreaCode:  a.AreaCode,
		Status:    a.Status,
		KPIScore:  a.KPIScore,
		UpdatedAt: a.UpdatedAt,
	}
	if a.FranchiseeID != nil {
		id := a.FranchiseeID.String()
		resp.FranchiseeID = &id
	}
	return resp
}
