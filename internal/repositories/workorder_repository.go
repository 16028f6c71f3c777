package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"gorm.io/gorm"
)

// ErrStaleWorkOrder signals a conditional save losing a concurrent update
// race; the caller re-reads and retries.
var ErrStaleWorkOrder = errors.New("work order modified concurrently")

// WorkOrderFilter narrows listing to rows visible to a firma and/or user.
// Zero values mean "no constraint".
type WorkOrderFilter struct {
	Status *models.WorkOrderStatus
	Firma  string
	UserID uint
}

// WorkOrderRepository defines the interface for work order persistence
type WorkOrderRepository interface {
	Get(id uint) (*models.WorkOrder, error)
	Create(wo *models.WorkOrder) error
	Save(wo *models.WorkOrder) error
	SaveConditional(wo *models.WorkOrder, expectedUpdatedAt time.Time) error
	StampReminded(id uint, role models.Role, date string) error
	Delete(id uint) error
	QueryPendingApprovals(olderThan time.Time) ([]models.WorkOrder, error)
	FindByFirmaOrUser(filter WorkOrderFilter) ([]models.WorkOrder, error)
	FindUpdatedSince(since time.Time) ([]models.WorkOrder, error)
}

type postgresWorkOrderRepository struct {
	db *gorm.DB
}

func NewPostgresWorkOrderRepository(db *gorm.DB) WorkOrderRepository {
	return &postgresWorkOrderRepository{db: db}
}

func (r *postgresWorkOrderRepository) Get(id uint) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := r.db.Preload("Jobansvarlig").Preload("EntreprenorKontakt").
		First(&wo, id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *postgresWorkOrderRepository) Create(wo *models.WorkOrder) error {
	if wo.Status == "" {
		wo.Status = models.StatusPlanning
	}
	return r.db.Create(wo).Error
}

func (r *postgresWorkOrderRepository) Save(wo *models.WorkOrder) error {
	return r.db.Save(wo).Error
}

// SaveConditional writes the mutable work order fields only if the row
// still carries expectedUpdatedAt, i.e. a compare-and-swap on updated_at.
// Serializes concurrent approvals without holding row locks.
func (r *postgresWorkOrderRepository) SaveConditional(wo *models.WorkOrder, expectedUpdatedAt time.Time) error {
	now := time.Now()
	res := r.db.Model(&models.WorkOrder{}).
		Where("id = ? AND updated_at = ?", wo.ID, expectedUpdatedAt).
		Updates(map[string]interface{}{
			"title":                    wo.Title,
			"description":              wo.Description,
			"location":                 wo.Location,
			"status":                   wo.Status,
			"entreprenor_firma":        wo.EntreprenorFirma,
			"jobansvarlig_id":          wo.JobansvarligID,
			"entreprenor_kontakt_id":   wo.EntreprenorKontaktID,
			"start_date":               wo.StartDate,
			"end_date":                 wo.EndDate,
			"approved_opgaveansvarlig": wo.ApprovedOpgaveansvarlig,
			"approved_drift":           wo.ApprovedDrift,
			"approved_entreprenor":     wo.ApprovedEntreprenor,
			"reminded_opgaveansvarlig": wo.RemindedOpgaveansvarlig,
			"reminded_drift":           wo.RemindedDrift,
			"reminded_entreprenor":     wo.RemindedEntreprenor,
			"updated_at":               now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleWorkOrder
	}
	wo.UpdatedAt = now
	return nil
}

// StampReminded records date as the role's last reminder day. It touches
// only that role's reminded column, so a concurrent write through the
// conditional-save path (an approval landing mid-batch) is never
// overwritten with a stale row copy.
func (r *postgresWorkOrderRepository) StampReminded(id uint, role models.Role, date string) error {
	var col string
	switch role {
	case models.RoleOpgaveansvarlig:
		col = "reminded_opgaveansvarlig"
	case models.RoleDrift:
		col = "reminded_drift"
	case models.RoleEntreprenor:
		col = "reminded_entreprenor"
	default:
		return fmt.Errorf("role %q has no reminder column", role)
	}
	return r.db.Model(&models.WorkOrder{}).
		Where("id = ?", id).
		Update(col, date).Error
}

func (r *postgresWorkOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.WorkOrder{}, id).Error
}

// QueryPendingApprovals returns non-completed work orders created before
// olderThan, with the responsible parties preloaded for recipient
// resolution.
func (r *postgresWorkOrderRepository) QueryPendingApprovals(olderThan time.Time) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := r.db.
		Where("status IN ? AND created_at < ?",
			[]models.WorkOrderStatus{models.StatusPlanning, models.StatusActive}, olderThan).
		Preload("Jobansvarlig").Preload("EntreprenorKontakt").
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *postgresWorkOrderRepository) FindByFirmaOrUser(filter WorkOrderFilter) ([]models.WorkOrder, error) {
	q := r.db.Preload("Jobansvarlig").Preload("EntreprenorKontakt").
		Order("created_at DESC")

	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	switch {
	case filter.Firma != "" && filter.UserID != 0:
		q = q.Where("entreprenor_firma = ? OR jobansvarlig_id = ? OR entreprenor_kontakt_id = ?",
			filter.Firma, filter.UserID, filter.UserID)
	case filter.Firma != "":
		q = q.Where("entreprenor_firma = ?", filter.Firma)
	case filter.UserID != 0:
		q = q.Where("jobansvarlig_id = ? OR entreprenor_kontakt_id = ?",
			filter.UserID, filter.UserID)
	}

	var orders []models.WorkOrder
	err := q.Find(&orders).Error
	return orders, err
}

// FindUpdatedSince backs the stateless change-polling endpoint.
func (r *postgresWorkOrderRepository) FindUpdatedSince(since time.Time) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := r.db.Where("updated_at > ?", since).
		Order("updated_at ASC").
		Find(&orders).Error
	return orders, err
}
