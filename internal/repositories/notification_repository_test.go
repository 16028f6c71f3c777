package repositories

import (
	"testing"

	"github.com/1711821-sketch/PTW-sub001/internal/models"
)

func createTestNotification(t *testing.T, repo NotificationRepository, userID uint, title string) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID: userID,
		Type:   models.NotificationInfo,
		Title:  title,
	}
	if err := repo.CreateNotification(n); err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}
	return n
}

func TestNotificationRepository_MarkAllAsRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	createTestNotification(t, repo, 1, "one")
	createTestNotification(t, repo, 1, "two")
	createTestNotification(t, repo, 2, "other user")

	if err := repo.MarkAllAsRead(1); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}

	unread, err := repo.GetUnread(1, 50)
	if err != nil {
		t.Fatalf("GetUnread: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected no unread after MarkAllAsRead, got %d", len(unread))
	}

	// User 2's inbox is untouched.
	count, _ := repo.GetUnreadCount(2)
	if count != 1 {
		t.Errorf("user 2 unread count = %d, want 1", count)
	}
}

func TestNotificationRepository_MarkAsReadOwnership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	n := createTestNotification(t, repo, 1, "private")

	// A different user marking it read is a silent no-op.
	if err := repo.MarkAsRead(n.ID, 2); err != nil {
		t.Fatalf("MarkAsRead by non-owner returned error: %v", err)
	}

	var stored models.Notification
	if err := db.First(&stored, n.ID).Error; err != nil {
		t.Fatalf("reload notification: %v", err)
	}
	if stored.ReadAt != nil {
		t.Error("non-owner mark_read changed read_at")
	}

	// The owner succeeds.
	if err := repo.MarkAsRead(n.ID, 1); err != nil {
		t.Fatalf("MarkAsRead by owner: %v", err)
	}
	if err := db.First(&stored, n.ID).Error; err != nil {
		t.Fatalf("reload notification: %v", err)
	}
	if stored.ReadAt == nil {
		t.Error("owner mark_read did not set read_at")
	}
}

func TestNotificationRepository_MarkAsReadIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	n := createTestNotification(t, repo, 1, "once")
	if err := repo.MarkAsRead(n.ID, 1); err != nil {
		t.Fatalf("first MarkAsRead: %v", err)
	}

	var stored models.Notification
	db.First(&stored, n.ID)
	first := *stored.ReadAt

	if err := repo.MarkAsRead(n.ID, 1); err != nil {
		t.Fatalf("second MarkAsRead: %v", err)
	}
	db.First(&stored, n.ID)
	if !stored.ReadAt.Equal(first) {
		t.Error("second mark_read moved read_at")
	}
}

func TestNotificationRepository_DeleteScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	n := createTestNotification(t, repo, 1, "mine")

	if err := repo.DeleteNotification(n.ID, 2); err != nil {
		t.Fatalf("delete by non-owner returned error: %v", err)
	}
	count, _ := repo.GetUnreadCount(1)
	if count != 1 {
		t.Error("non-owner delete removed the row")
	}

	if err := repo.DeleteNotification(n.ID, 1); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
	count, _ = repo.GetUnreadCount(1)
	if count != 0 {
		t.Error("owner delete left the row")
	}
}

func TestNotificationRepository_GetUnreadOrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	for _, title := range []string{"first", "second", "third"} {
		createTestNotification(t, repo, 1, title)
	}

	unread, err := repo.GetUnread(1, 2)
	if err != nil {
		t.Fatalf("GetUnread: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(unread))
	}
	if unread[0].CreatedAt.Before(unread[1].CreatedAt) {
		t.Error("unread list not ordered newest first")
	}
}

func TestNotificationRepository_GetByUserIDPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	for i := 0; i < 25; i++ {
		createTestNotification(t, repo, 1, "n")
	}

	page1, total, err := repo.GetByUserID(1, 1, 20)
	if err != nil {
		t.Fatalf("GetByUserID page 1: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(page1) != 20 {
		t.Errorf("page 1 size = %d, want 20", len(page1))
	}

	page2, _, err := repo.GetByUserID(1, 2, 20)
	if err != nil {
		t.Fatalf("GetByUserID page 2: %v", err)
	}
	if len(page2) != 5 {
		t.Errorf("page 2 size = %d, want 5", len(page2))
	}
}
