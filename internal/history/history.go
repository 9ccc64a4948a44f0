// Package history persists finished translations.
package history

import (
	"codeshift/internal/code_translator"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"

	DefaultListLimit = 20
	MaxListLimit     = 100
)

var ErrNotFound = errors.New("translation not found")

type Record struct {
	bun.BaseModel `bun:"table:translations,alias:t"`

	ID             string                          `bun:"id,pk" json:"id"`
	Mode           string                          `bun:"mode,notnull" json:"mode"`
	Provider       string                          `bun:"provider,notnull" json:"provider"`
	SourceLanguage string                          `bun:"source_language" json:"source_language"`
	TargetLanguage string                          `bun:"target_language,notnull" json:"target_language"`
	SourceCode     string                          `bun:"source_code,notnull" json:"source_code"`
	TranslatedCode string                          `bun:"translated_code" json:"translated_code,omitempty"`
	FullResponse   string                          `bun:"full_response" json:"full_response,omitempty"`
	Metrics        *code_translator.MetricsSummary `bun:"metrics,type:jsonb" json:"metrics,omitempty"`
	Status         string                          `bun:"status,notnull" json:"status"`
	ErrorKind      string                          `bun:"error_kind,nullzero" json:"error_kind,omitempty"`
	ErrorMessage   string                          `bun:"error_message,nullzero" json:"error_message,omitempty"`
	DurationMS     int64                           `bun:"duration_ms" json:"duration_ms"`
	CreatedAt      time.Time                       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, limit int) ([]Record, error)
}

type BunRepository struct {
	db bun.IDB
}

func NewBunRepository(db bun.IDB) *BunRepository {
	return &BunRepository{db: db}
}

// EnsureSchema creates the translations table and its index if they are missing.
func (r *BunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.createTableQuery().Exec(ctx); err != nil {
		return fmt.Errorf("create translations table: %w", err)
	}
	if _, err := r.createIndexQuery().Exec(ctx); err != nil {
		return fmt.Errorf("create translations index: %w", err)
	}
	return nil
}

func (r *BunRepository) createTableQuery() *bun.CreateTableQuery {
	return r.db.NewCreateTable().Model((*Record)(nil)).IfNotExists()
}

func (r *BunRepository) createIndexQuery() *bun.CreateIndexQuery {
	return r.db.NewCreateIndex().
		Model((*Record)(nil)).
		Index("translations_created_at_idx").
		Column("created_at").
		IfNotExists()
}

func (r *BunRepository) Save(ctx context.Context, rec *Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return fmt.Errorf("save translation %s: %w", rec.ID, err)
	}
	return nil
}

func (r *BunRepository) Get(ctx context.Context, id string) (*Record, error) {
	rec := new(Record)
	err := r.db.NewSelect().Model(rec).Where("t.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get translation %s: %w", id, err)
	}
	return rec, nil
}

func (r *BunRepository) List(ctx context.Context, limit int) ([]Record, error) {
	var records []Record
	if err := r.listQuery(&records, limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return records, nil
}

func (r *BunRepository) listQuery(dest *[]Record, limit int) *bun.SelectQuery {
	return r.db.NewSelect().
		Model(dest).
		ExcludeColumn("full_response").
		Order("t.created_at DESC").
		Limit(ClampLimit(limit))
}

// ClampLimit keeps list sizes within [1, MaxListLimit], defaulting to DefaultListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
