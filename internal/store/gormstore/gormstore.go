// Package gormstore persists the portal snapshot as a single row of the
// portal_states table through GORM.
package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	statedm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/state"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type Backend struct {
	db    *gorm.DB
	key   string
	owned bool
}

// New wraps an already opened connection. Close leaves it open.
func New(db *gorm.DB, key string) *Backend {
	return &Backend{db: db, key: key}
}

// OpenSQLite opens (and owns) a SQLite database and creates the table.
func OpenSQLite(dsn, key string) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	b := &Backend{db: db, key: key, owned: true}
	if err := b.Migrate(); err != nil {
		return nil, err
	}
	return b, nil
}

// OpenPostgres layers GORM over a pgx connection pool and takes ownership of
// it. The schema is managed by the migrate command.
func OpenPostgres(conn *sql.DB, key string) (*Backend, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &Backend{db: db, key: key, owned: true}, nil
}

func (b *Backend) Migrate() error {
	if err := b.db.AutoMigrate(&statedm.PortalState{}); err != nil {
		return fmt.Errorf("migrate portal_states: %w", err)
	}
	return nil
}

func (b *Backend) Read(ctx context.Context) (store.Snapshot, error) {
	var row statedm.PortalState
	err := b.db.WithContext(ctx).Where("state_key = ?", b.key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Snapshot{}, store.ErrEmpty
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read portal state: %w", err)
	}
	return store.Snapshot{Revision: row.Revision, Payload: []byte(row.Payload)}, nil
}

func (b *Backend) Write(ctx context.Context, snap store.Snapshot) error {
	db := b.db.WithContext(ctx)

	if snap.Revision == 1 {
		row := statedm.PortalState{Key: b.key, Revision: 1, Payload: string(snap.Payload)}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return fmt.Errorf("insert portal state: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrStale
		}
		return nil
	}

	res := db.Model(&statedm.PortalState{}).
		Where("state_key = ? AND revision = ?", b.key, snap.Revision-1).
		Updates(map[string]any{
			"revision":   snap.Revision,
			"payload":    string(snap.Payload),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update portal state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrStale
	}
	return nil
}

// Ping checks the underlying SQL connection.
func (b *Backend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *Backend) Close() error {
	if !b.owned {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
