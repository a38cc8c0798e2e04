package db

import (
	"context"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"proposal-review-service/internal/domain/activity"
	"proposal-review-service/internal/domain/proposal"
	"proposal-review-service/internal/domain/review"
)

// OpenGorm connects to MySQL. Production keeps SQL logs at Warn.
func OpenGorm(dsn string, production bool) (*gorm.DB, error) {
	level := logger.Info
	if production {
		level = logger.Warn
	}
	return OpenGormWithDialector(mysql.Open(dsn), level)
}

func OpenGormWithDialector(dial gorm.Dialector, level ...logger.LogLevel) (*gorm.DB, error) {
	lvl := logger.Info
	if len(level) > 0 {
		lvl = level[0]
	}
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(lvl),
		// surfaces gorm.ErrDuplicatedKey for unique-index violations
		TranslateError: true,
		// single ping below, after the pool is sized
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Models lists every table owned by this service, parents first.
func Models() []any {
	return []any{
		&activity.Activity{},
		&activity.Template{},
		&review.Reviewer{},
		&proposal.Proposal{},
		&proposal.DocumentProposal{},
		&proposal.ExtraDocumentProposal{},
		&review.Review{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
