// Package adapters はlookupフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/feature/lookup/usecase"
)

// SearchLogModel は search_logs テーブルの行を表します。
type SearchLogModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	RequestID  string    `gorm:"size:64;index"`
	Query      string    `gorm:"size:255;not null;default:''"`
	Brand      string    `gorm:"size:64"`
	Category   string    `gorm:"size:64"`
	Outcome    string    `gorm:"size:32;not null;index"`
	MatchCount int       `gorm:"not null;default:0"`
	DurationMs int64     `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (SearchLogModel) TableName() string {
	return "search_logs"
}

type searchLogGorm struct {
	db *gorm.DB
}

var _ usecase.SearchLogRepository = (*searchLogGorm)(nil)

// NewSearchLogRepository はgormを使用したSearchLogRepositoryを生成します。
func NewSearchLogRepository(db *gorm.DB) *searchLogGorm {
	return &searchLogGorm{db: db}
}

func toSearchLogModel(e entity.SearchLog) SearchLogModel {
	return SearchLogModel{
		ID:         e.ID,
		RequestID:  e.RequestID,
		Query:      e.Query,
		Brand:      e.Brand,
		Category:   e.Category,
		Outcome:    string(e.Outcome),
		MatchCount: e.MatchCount,
		DurationMs: e.Duration.Milliseconds(),
		CreatedAt:  e.CreatedAt,
	}
}

func toSearchLogEntity(m SearchLogModel) entity.SearchLog {
	return entity.SearchLog{
		ID:         m.ID,
		RequestID:  m.RequestID,
		Query:      m.Query,
		Brand:      m.Brand,
		Category:   m.Category,
		Outcome:    entity.Outcome(m.Outcome),
		MatchCount: m.MatchCount,
		Duration:   time.Duration(m.DurationMs) * time.Millisecond,
		CreatedAt:  m.CreatedAt,
	}
}

// Create は検索ログを1件保存します。
func (r *searchLogGorm) Create(ctx context.Context, e entity.SearchLog) error {
	m := toSearchLogModel(e)
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListRecent は新しい順に最大 limit 件の検索ログを返します。
func (r *searchLogGorm) ListRecent(ctx context.Context, limit int) ([]entity.SearchLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var ms []SearchLogModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]entity.SearchLog, 0, len(ms))
	for _, m := range ms {
		out = append(out, toSearchLogEntity(m))
	}
	return out, nil
}
