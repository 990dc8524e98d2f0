package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ops-portal-backend/internal/adapter/repository/mysql"
	"ops-portal-backend/internal/domain/notification"
	"ops-portal-backend/internal/infrastructure/db"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func sample() notification.Notification {
	return notification.Notification{UserID: "emp-1", Role: "employee", Type: notification.TypeTimesheetApproved, Title: "Timesheet approved"}
}

func TestStore_PersistsAndPublishes(t *testing.T) {
	gdb := openDB(t)
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, "ops:notifications:emp-1")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	repo := mysql.NewNotificationRepository(gdb)
	store := NewStore(repo, rdb, "ops:notifications")
	if err := store.Create(ctx, sample()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var got notification.Notification
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if got.UserID != "emp-1" || got.Type != notification.TypeTimesheetApproved {
			t.Fatalf("unexpected message: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no message published")
	}

	list, err := repo.ListForUser(ctx, "emp-1", 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("persisted: %v %v", list, err)
	}
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *notification.Notification) error {
	return errors.New("db down")
}

func (failingRepo) ListForUser(context.Context, string, int) ([]notification.Notification, error) {
	return nil, nil
}

func TestAsync_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := NewAsync(NewStore(failingRepo{}, nil, "ops:notifications"), zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	a.Notify(ctx, sample())
	// delivery must outlive the caller's context
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for logs.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	entries := logs.FilterMessage("notification delivery failed").All()
	if len(entries) != 1 {
		t.Fatalf("want one warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["user_id"] != "emp-1" {
		t.Fatalf("fields: %v", entries[0].ContextMap())
	}
}

func TestAsync_Delivers(t *testing.T) {
	gdb := openDB(t)
	repo := mysql.NewNotificationRepository(gdb)
	a := NewAsync(NewStore(repo, nil, "ops:notifications"), zap.NewNop())
	a.Notify(context.Background(), sample())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if list, _ := repo.ListForUser(context.Background(), "emp-1", 10); len(list) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("notification never stored")
}

func TestSync_SwallowsErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	NewSync(NewStore(failingRepo{}, nil, "c"), zap.New(core)).Notify(context.Background(), sample())
	if logs.Len() != 1 {
		t.Fatalf("want one warning, got %d", logs.Len())
	}
}
