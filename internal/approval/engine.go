// Package approval implements the daily multi-role approval state machine
// for work orders: each of the three responsible roles confirms a work
// order once per calendar day, and the first approval ever recorded moves
// the order from planning to active.
package approval

import (
	"errors"
	"fmt"
	"log"

	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"gorm.io/gorm"
)

// saveAttempts bounds the CAS retry loop in ApplyApproval.
const saveAttempts = 3

// Engine applies role-scoped daily approvals against the work order store
// and emits notifications as a side effect.
type Engine struct {
	workOrders    repositories.WorkOrderRepository
	notifications repositories.NotificationRepository
}

func NewEngine(workOrders repositories.WorkOrderRepository, notifications repositories.NotificationRepository) *Engine {
	return &Engine{
		workOrders:    workOrders,
		notifications: notifications,
	}
}

// ApplyApproval records that role confirmed the work order for today
// (formatted per models.DateLayout). Re-applying the same role/day is a
// no-op that still succeeds. The save is a compare-and-swap on updated_at
// so two roles approving in the same instant never lose an update.
func (e *Engine) ApplyApproval(workOrderID uint, role models.Role, actorUserID uint, today string) (*models.WorkOrder, error) {
	if !role.IsApprovalRole() {
		return nil, ErrInvalidRole
	}

	for attempt := 0; attempt < saveAttempts; attempt++ {
		wo, err := e.workOrders.Get(workOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		if wo.Status == models.StatusCompleted {
			return nil, ErrTerminalState
		}

		if wo.ApprovalDate(role) == today {
			// Already satisfied for the day; report success, change nothing.
			return wo, nil
		}

		firstEver := !wo.HasAnyApproval()
		wo.SetApproval(role, today)
		if firstEver && wo.Status == models.StatusPlanning {
			wo.Status = models.StatusActive
		}

		err = e.workOrders.SaveConditional(wo, wo.UpdatedAt)
		if errors.Is(err, repositories.ErrStaleWorkOrder) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		e.notifyApproved(wo, role, actorUserID, today)
		return wo, nil
	}

	return nil, ErrConflict
}

// notifyApproved tells the work order's named parties that a role signed
// off. Best effort: a failed insert is logged, never surfaced to the
// approving actor.
func (e *Engine) notifyApproved(wo *models.WorkOrder, role models.Role, actorUserID uint, today string) {
	if e.notifications == nil {
		return
	}

	recipients := make(map[uint]struct{})
	if wo.JobansvarligID != nil {
		recipients[*wo.JobansvarligID] = struct{}{}
	}
	if wo.EntreprenorKontaktID != nil {
		recipients[*wo.EntreprenorKontaktID] = struct{}{}
	}
	delete(recipients, actorUserID)

	for userID := range recipients {
		notif := &models.Notification{
			UserID:  userID,
			Type:    models.NotificationApproval,
			Title:   fmt.Sprintf("Godkendelse: %s (%s)", wo.Number, role),
			Message: fmt.Sprintf("%s registrerede dagens godkendelse for %s den %s", role, wo.Number, today),
			Link:    fmt.Sprintf("/workorders/%d", wo.ID),
		}
		if err := e.notifications.CreateNotification(notif); err != nil {
			log.Printf("approval: notify user %d about %s: %v", userID, wo.Number, err)
		}
	}
}

// IsFullyApprovedToday reports whether all three roles approved today.
// Pure; must never disagree with MissingRolesToday.
func IsFullyApprovedToday(wo *models.WorkOrder, today string) bool {
	return len(MissingRolesToday(wo, today)) == 0
}

// MissingRolesToday returns the roles whose daily approval is still owed,
// in the fixed dispatch order (opgaveansvarlig, drift, entreprenor).
func MissingRolesToday(wo *models.WorkOrder, today string) []models.Role {
	var missing []models.Role
	for _, role := range models.ApprovalRoles {
		if wo.ApprovalDate(role) != today {
			missing = append(missing, role)
		}
	}
	return missing
}
