package models

import "time"

// Role identifies a party in the daily approval flow. Users carry a Role
// too; admin never appears in a work order's approval map.
type Role string

const (
	RoleOpgaveansvarlig Role = "opgaveansvarlig"
	RoleDrift           Role = "drift"
	RoleEntreprenor     Role = "entreprenor"
	RoleAdmin           Role = "admin"
)

// ApprovalRoles is the closed set of roles that owe a daily approval, in
// the order reminders are dispatched.
var ApprovalRoles = []Role{RoleOpgaveansvarlig, RoleDrift, RoleEntreprenor}

// IsApprovalRole reports whether r may appear in a work order's approvals.
func (r Role) IsApprovalRole() bool {
	switch r {
	case RoleOpgaveansvarlig, RoleDrift, RoleEntreprenor:
		return true
	}
	return false
}

// IsValid reports whether r is any known role, including admin.
func (r Role) IsValid() bool {
	return r.IsApprovalRole() || r == RoleAdmin
}

type WorkOrderStatus string

const (
	StatusPlanning  WorkOrderStatus = "planning"
	StatusActive    WorkOrderStatus = "active"
	StatusCompleted WorkOrderStatus = "completed"
)

func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// DateLayout is the wire format for approval and reminder dates.
const DateLayout = "2006-01-02"

// WorkOrder represents a permit-to-work record (PostgreSQL).
//
// Approval dates are denormalized into one nullable column per role: the
// role set is closed, so a fixed-key mapping beats a join table here. A
// nil column means that role has never approved. The reminded_* columns
// guard the reminder batch against duplicate same-day sends.
type WorkOrder struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Number      string          `json:"number" gorm:"size:30;uniqueIndex"`
	Title       string          `json:"title" gorm:"size:200"`
	Description string          `json:"description"`
	Location    string          `json:"location" gorm:"size:200"`
	Status      WorkOrderStatus `json:"status" gorm:"type:varchar(20);index;default:planning"`

	EntreprenorFirma     string `json:"entreprenor_firma" gorm:"size:100;index"`
	JobansvarligID       *uint  `json:"jobansvarlig_id" gorm:"index"`
	Jobansvarlig         *User  `json:"jobansvarlig,omitempty" gorm:"foreignKey:JobansvarligID"`
	EntreprenorKontaktID *uint  `json:"entreprenor_kontakt_id" gorm:"index"`
	EntreprenorKontakt   *User  `json:"entreprenor_kontakt,omitempty" gorm:"foreignKey:EntreprenorKontaktID"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	ApprovedOpgaveansvarlig *string `json:"approved_opgaveansvarlig,omitempty" gorm:"size:10"`
	ApprovedDrift           *string `json:"approved_drift,omitempty" gorm:"size:10"`
	ApprovedEntreprenor     *string `json:"approved_entreprenor,omitempty" gorm:"size:10"`

	RemindedOpgaveansvarlig *string `json:"-" gorm:"size:10"`
	RemindedDrift           *string `json:"-" gorm:"size:10"`
	RemindedEntreprenor     *string `json:"-" gorm:"size:10"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

func (w *WorkOrder) approvalField(role Role) **string {
	switch role {
	case RoleOpgaveansvarlig:
		return &w.ApprovedOpgaveansvarlig
	case RoleDrift:
		return &w.ApprovedDrift
	case RoleEntreprenor:
		return &w.ApprovedEntreprenor
	}
	return nil
}

func (w *WorkOrder) remindedField(role Role) **string {
	switch role {
	case RoleOpgaveansvarlig:
		return &w.RemindedOpgaveansvarlig
	case RoleDrift:
		return &w.RemindedDrift
	case RoleEntreprenor:
		return &w.RemindedEntreprenor
	}
	return nil
}

// ApprovalDate returns the last date the role approved, or "" if never.
func (w *WorkOrder) ApprovalDate(role Role) string {
	f := w.approvalField(role)
	if f == nil || *f == nil {
		return ""
	}
	return **f
}

// SetApproval records date as the role's last approval.
func (w *WorkOrder) SetApproval(role Role, date string) {
	if f := w.approvalField(role); f != nil {
		d := date
		*f = &d
	}
}

// RemindedDate returns the last date the role was sent a reminder, or "".
func (w *WorkOrder) RemindedDate(role Role) string {
	f := w.remindedField(role)
	if f == nil || *f == nil {
		return ""
	}
	return **f
}

// SetReminded stamps date as the role's last reminder day.
func (w *WorkOrder) SetReminded(role Role, date string) {
	if f := w.remindedField(role); f != nil {
		d := date
		*f = &d
	}
}

// Approvals returns the role→last-approved-date mapping. Roles that have
// never approved are absent.
func (w *WorkOrder) Approvals() map[Role]string {
	out := make(map[Role]string, len(ApprovalRoles))
	for _, role := range ApprovalRoles {
		if d := w.ApprovalDate(role); d != "" {
			out[role] = d
		}
	}
	return out
}

// HasAnyApproval reports whether any role has ever approved.
func (w *WorkOrder) HasAnyApproval() bool {
	return len(w.Approvals()) > 0
}

type CreateWorkOrderRequest struct {
	Number               string  `json:"number" validate:"required,min=3,max=30"`
	Title                string  `json:"title" validate:"required,min=3,max=200"`
	Description          string  `json:"description,omitempty"`
	Location             string  `json:"location,omitempty" validate:"omitempty,max=200"`
	EntreprenorFirma     string  `json:"entreprenor_firma,omitempty" validate:"omitempty,max=100"`
	JobansvarligID       *uint   `json:"jobansvarlig_id,omitempty"`
	EntreprenorKontaktID *uint   `json:"entreprenor_kontakt_id,omitempty"`
	StartDate            *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate              *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateWorkOrderRequest struct {
	Title                *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description          *string `json:"description,omitempty"`
	Location             *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Status               *string `json:"status,omitempty" validate:"omitempty,oneof=planning active completed"`
	EntreprenorFirma     *string `json:"entreprenor_firma,omitempty" validate:"omitempty,max=100"`
	JobansvarligID       *uint   `json:"jobansvarlig_id,omitempty"`
	EntreprenorKontaktID *uint   `json:"entreprenor_kontakt_id,omitempty"`
	StartDate            *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate              *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
