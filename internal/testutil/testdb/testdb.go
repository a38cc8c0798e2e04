package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"proposal-review-service/internal/domain/activity"
	"proposal-review-service/internal/domain/review"
	"proposal-review-service/internal/infrastructure/db"
	"proposal-review-service/pkg/id"
)

// Open returns a migrated in-memory SQLite database private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// SeedActivity creates an activity with one template per entry of quantities.
// Templates are named "T1", "T2", ... in order.
func SeedActivity(t *testing.T, gdb *gorm.DB, quantities ...uint) *activity.Activity {
	t.Helper()
	a := &activity.Activity{ID: id.NewUUID(), Name: "Community Grant", Slug: "grant-" + id.NewID32()[:8]}
	for i, q := range quantities {
		a.Templates = append(a.Templates, activity.Template{
			ID:           id.NewUUID(),
			Name:         "T" + string(rune('1'+i)),
			Quantity:     q,
			IsRequired:   true,
			DisplayOrder: i,
		})
	}
	if err := gdb.Create(a).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedReviewer(t *testing.T, gdb *gorm.DB, role review.Role) *review.Reviewer {
	t.Helper()
	suffix := id.NewID32()[:8]
	u := &review.Reviewer{
		ID:       id.NewUUID(),
		Email:    "rev-" + suffix + "@example.org",
		Username: "rev-" + suffix,
		FullName: "Reviewer " + suffix,
		Role:     role,
		Password: "$2a$10$hash",
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed reviewer: %v", err)
	}
	return u
}
