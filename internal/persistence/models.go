package persistence

import "time"

// RoundRecord is the durable row backing GET /history?limit=N
// (spec.md §6.3) once persistence is enabled — one row per completed
// round, append-only. JSONB columns hold the per-class vectors/penalty
// list verbatim rather than a normalized child table, the same
// document-in-a-column shape the teacher's `models.Order` uses for its
// embedded `Metadata`/pricing breakdowns.
type RoundRecord struct {
	ID                 uint      `gorm:"primaryKey"`
	Round              int       `gorm:"column:round;index"`
	Day                int       `gorm:"column:day"`
	Hour               int       `gorm:"column:hour"`
	SubmittedAt        time.Time `gorm:"column:submitted_at"`
	RoundTotalCost     float64   `gorm:"column:round_total_cost"`
	LoadsSubmitted     []byte    `gorm:"column:loads_submitted;type:jsonb"`
	PurchasesSubmitted []byte    `gorm:"column:purchases_submitted;type:jsonb"`
	Penalties          []byte    `gorm:"column:penalties;type:jsonb"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

// TableName pins the table name so it matches the migration exactly,
// independent of gorm's default pluralization.
func (RoundRecord) TableName() string { return "round_records" }

// AnomalyRecord is one persisted MirrorAnomaly (spec.md §4.3), so a
// postmortem after a FAILED session can reconstruct exactly which
// projections went wrong and when (SPEC_FULL.md §12).
type AnomalyRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Hour      int       `gorm:"column:hour"`
	Kind      string    `gorm:"column:kind"`
	Detail    string    `gorm:"column:detail"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (AnomalyRecord) TableName() string { return "anomaly_records" }
