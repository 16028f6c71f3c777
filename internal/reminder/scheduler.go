// Package reminder implements the daily batch job that chases missing
// work order approvals: scan stale non-completed orders, resolve who owes
// today's sign-off, and send each of them an email plus an inbox
// notification.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/1711821-sketch/PTW-sub001/internal/approval"
	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// Mailer sends one reminder email. Implementations live in pkg/mailer.
type Mailer interface {
	Send(toEmail, toName, subject, htmlBody, textBody string) error
}

// Logger receives one line per recipient action.
type Logger interface {
	Printf(format string, args ...any)
}

// Config tunes a scheduler run.
type Config struct {
	// Threshold is the staleness cutoff: only work orders created earlier
	// than now-Threshold are scanned. Defaults to 24h.
	Threshold time.Duration
	// Workers bounds the per-recipient dispatch pool. Defaults to 4.
	Workers int
	// DryRun logs what would be dispatched without sending, notifying, or
	// stamping reminder dates.
	DryRun bool
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Stats summarizes one run.
type Stats struct {
	Scanned int // work orders inspected
	Sent    int // reminders dispatched (email + notification)
	Skipped int // recipients without an email, or roles with no contact
	Failed  int // dispatch attempts that errored
	Deduped int // roles already reminded today
}

type Scheduler struct {
	workOrders    repositories.WorkOrderRepository
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	mailer        Mailer
	log           Logger

	threshold time.Duration
	workers   int
	dryRun    bool
	now       func() time.Time
}

func NewScheduler(
	workOrders repositories.WorkOrderRepository,
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	mailer Mailer,
	log Logger,
	cfg Config,
) *Scheduler {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 24 * time.Hour
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		workOrders:    workOrders,
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		log:           log,
		threshold:     cfg.Threshold,
		workers:       cfg.Workers,
		dryRun:        cfg.DryRun,
		now:           cfg.Now,
	}
}

// dispatch is one independent unit of work: one reminder to one recipient.
type dispatch struct {
	wo        *models.WorkOrder
	role      models.Role
	recipient models.User
}

// Run executes one batch pass. A failing initial store query is fatal and
// returned; everything after that is isolated per recipient and only
// logged. Roles already stamped with today's reminder date are skipped, so
// re-running the job within the same day never duplicates sends.
func (s *Scheduler) Run(ctx context.Context) (Stats, error) {
	now := s.now()
	today := now.Format(models.DateLayout)

	orders, err := s.workOrders.QueryPendingApprovals(now.Add(-s.threshold))
	if err != nil {
		return Stats{}, fmt.Errorf("query pending work orders: %w", err)
	}

	var stats Stats
	for i := range orders {
		wo := &orders[i]
		stats.Scanned++
		s.remindWorkOrder(ctx, wo, today, &stats)
	}

	s.log.Printf("run complete: scanned=%d sent=%d skipped=%d failed=%d deduped=%d",
		stats.Scanned, stats.Sent, stats.Skipped, stats.Failed, stats.Deduped)
	return stats, nil
}

func (s *Scheduler) remindWorkOrder(ctx context.Context, wo *models.WorkOrder, today string, stats *Stats) {
	var units []dispatch
	pendingRoles := make(map[models.Role]bool)

	for _, role := range approval.MissingRolesToday(wo, today) {
		if wo.RemindedDate(role) == today {
			s.log.Printf("%s: %s already reminded today, skipping", wo.Number, role)
			stats.Deduped++
			continue
		}

		recipients := s.resolveRecipients(wo, role)
		if len(recipients) == 0 {
			s.log.Printf("%s: no recipient for role %s, skipping", wo.Number, role)
			stats.Skipped++
			continue
		}

		for _, u := range recipients {
			if u.Email == "" {
				s.log.Printf("%s: %s recipient %q has no email, skipping", wo.Number, role, u.Name)
				stats.Skipped++
				continue
			}
			units = append(units, dispatch{wo: wo, role: role, recipient: u})
			pendingRoles[role] = true
		}
	}

	if len(units) == 0 {
		return
	}

	// Dispatches are independent; fan out bounded by the worker pool. A
	// failure for one recipient never cancels the siblings, so the group
	// error is always nil.
	var mu sync.Mutex
	sentPerRole := make(map[models.Role]int)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, unit := range units {
		unit := unit
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			ok := s.dispatchOne(unit, today)
			mu.Lock()
			if ok {
				stats.Sent++
				sentPerRole[unit.role]++
			} else {
				stats.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if s.dryRun {
		return
	}

	// Stamp the de-dup guard only for roles where at least one reminder
	// actually went out. Each stamp is a targeted single-column update;
	// writing the whole row here would overwrite approvals applied
	// concurrently between the initial scan and this point. A failing
	// stamp just means the next run retries that role.
	for role := range pendingRoles {
		if sentPerRole[role] == 0 {
			continue
		}
		if err := s.workOrders.StampReminded(wo.ID, role, today); err != nil {
			s.log.Printf("%s: stamp reminded date for %s: %v", wo.Number, role, err)
		}
	}
}

// resolveRecipients maps a missing role to the users who owe the approval:
// the order's own contact for entreprenor and opgaveansvarlig, the whole
// approved drift staff for drift.
func (s *Scheduler) resolveRecipients(wo *models.WorkOrder, role models.Role) []models.User {
	switch role {
	case models.RoleOpgaveansvarlig:
		if wo.Jobansvarlig != nil {
			return []models.User{*wo.Jobansvarlig}
		}
	case models.RoleEntreprenor:
		if wo.EntreprenorKontakt != nil {
			return []models.User{*wo.EntreprenorKontakt}
		}
	case models.RoleDrift:
		users, err := s.users.GetApprovedByRole(models.RoleDrift)
		if err != nil {
			s.log.Printf("%s: resolve drift recipients: %v", wo.Number, err)
			return nil
		}
		return users
	}
	return nil
}

// dispatchOne sends the email and writes the inbox row for one recipient.
// Returns false if either leg failed; a sent email with a failed inbox row
// still counts as failed. Retry is per role, not per recipient: a role is
// only retried next run when none of its recipients got through, since the
// de-dup stamp covers the whole role.
func (s *Scheduler) dispatchOne(unit dispatch, today string) bool {
	wo, role, u := unit.wo, unit.role, unit.recipient

	subject := fmt.Sprintf("Påmindelse: %s mangler dagens godkendelse (%s)", wo.Number, role)
	text := fmt.Sprintf("Arbejdstilladelse %s (%s) mangler godkendelse fra %s for %s.",
		wo.Number, wo.Title, role, today)
	html := fmt.Sprintf("<p>Arbejdstilladelse <strong>%s</strong> (%s) mangler godkendelse fra <strong>%s</strong> for %s.</p>",
		wo.Number, wo.Title, role, today)

	if s.dryRun {
		s.log.Printf("%s: would remind %s <%s> for role %s", wo.Number, u.Name, u.Email, role)
		return true
	}

	if err := s.mailer.Send(u.Email, u.Name, subject, html, text); err != nil {
		s.log.Printf("%s: email %s <%s> for role %s: %v", wo.Number, u.Name, u.Email, role, err)
		return false
	}

	notif := &models.Notification{
		UserID:  u.ID,
		Type:    models.NotificationReminder,
		Title:   subject,
		Message: text,
		Link:    fmt.Sprintf("/workorders/%d", wo.ID),
	}
	if err := s.notifications.CreateNotification(notif); err != nil {
		s.log.Printf("%s: notification for %s (user %d): %v", wo.Number, role, u.ID, err)
		return false
	}

	s.log.Printf("%s: reminded %s <%s> for role %s", wo.Number, u.Name, u.Email, role)
	return true
}
