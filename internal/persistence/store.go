// Package persistence is the durable round-history and anomaly ledger
// (SPEC_FULL.md §12): spec.md describes GET /history's shape but
// leaves its backing store unspecified. Grounded on
// order_service/src/database/connection.go's gorm+postgres connection
// pool setup, with AutoMigrate replaced by the explicit
// internal/persistence/migrations runner.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"iaros/kitlogistics/internal/errs"
	"iaros/kitlogistics/internal/events"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/persistence/migrations"
)

// PoolConfig mirrors order_service/src/database/connection.go's
// Config: max open/idle connections and connection lifetime.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func defaultPoolConfig() PoolConfig {
	return PoolConfig{MaxOpenConns: 25, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}
}

// Store wraps the round-ledger and anomaly-ledger tables.
type Store struct {
	db *gorm.DB
}

// Open runs pending migrations then connects, applying the same
// connection-pool tuning as the teacher's Connect().
func Open(dsn string, pool PoolConfig) (*Store, error) {
	if pool == (PoolConfig{}) {
		pool = defaultPoolConfig()
	}
	if err := migrations.Run(dsn); err != nil {
		return nil, errs.Config("persistence.Open", "failed to apply schema migrations", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errs.Config("persistence.Open", "failed to connect to postgres", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errs.Config("persistence.Open", "failed to get underlying sql.DB", err)
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	if err := sqlDB.Ping(); err != nil {
		return nil, errs.Config("persistence.Open", "failed to ping postgres", err)
	}

	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RoundResult is the subset of orchestrator.RoundResult this package
// persists, restated here rather than importing internal/orchestrator
// (which would create a cycle, since orchestrator is the caller).
type RoundResult struct {
	Round              int
	Day                int
	Hour               int
	SubmittedAt        time.Time
	RoundTotalCost     float64
	Penalties          []events.Penalty
	LoadsSubmitted     map[string]kit.Vector
	PurchasesSubmitted kit.Vector
}

// SaveRound appends one completed round to the ledger.
func (s *Store) SaveRound(ctx context.Context, r RoundResult) error {
	if s == nil || s.db == nil {
		return nil
	}
	loads, err := json.Marshal(r.LoadsSubmitted)
	if err != nil {
		return fmt.Errorf("persistence: marshal loads_submitted: %w", err)
	}
	purchases, err := json.Marshal(r.PurchasesSubmitted.ToWire())
	if err != nil {
		return fmt.Errorf("persistence: marshal purchases_submitted: %w", err)
	}
	penalties, err := json.Marshal(r.Penalties)
	if err != nil {
		return fmt.Errorf("persistence: marshal penalties: %w", err)
	}

	record := RoundRecord{
		Round:              r.Round,
		Day:                r.Day,
		Hour:               r.Hour,
		SubmittedAt:        r.SubmittedAt,
		RoundTotalCost:     r.RoundTotalCost,
		LoadsSubmitted:     loads,
		PurchasesSubmitted: purchases,
		Penalties:          penalties,
	}
	return s.db.WithContext(ctx).Create(&record).Error
}

// RecentRounds returns the last limit rounds, oldest first, for
// GET /history?limit=N to serve when persistence backs the endpoint
// instead of C8's in-memory ring.
func (s *Store) RecentRounds(ctx context.Context, limit int) ([]RoundRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var records []RoundRecord
	if err := s.db.WithContext(ctx).Order("round DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("persistence: query recent rounds: %w", err)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// SaveAnomaly appends one MirrorAnomaly to the anomaly ledger.
func (s *Store) SaveAnomaly(ctx context.Context, hour int, kind, detail string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(&AnomalyRecord{Hour: hour, Kind: kind, Detail: detail}).Error
}
