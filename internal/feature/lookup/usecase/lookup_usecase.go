package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/platform/logger"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// LinkOnlyNote は動画リンクのみが送信された場合に返す案内文です。
	LinkOnlyNote = "Link ingestion is not supported yet. Please upload a screenshot of the outfit instead."

	maxLoggedTextLen = 120
)

// Annotator は画像を注釈サービスに送り、注釈結果を返すインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Annotator interface {
	Annotate(ctx context.Context, image []byte) (entity.Annotations, error)
}

// ProductSearcher はクエリ文字列で商品を検索するインターフェースです。
type ProductSearcher interface {
	Search(ctx context.Context, query string) ([]entity.MatchItem, error)
}

// SearchLogRepository はlookup結果の記録先です。
type SearchLogRepository interface {
	Create(ctx context.Context, log entity.SearchLog) error
}

// Describer は画像の短い説明文を生成します（デバッグ用途）。
type Describer interface {
	Describe(ctx context.Context, image []byte) (string, error)
}

// LookupOptions はlookupUsecaseの任意設定です。
type LookupOptions struct {
	// DryRun が true の場合、検索サービスを呼ばずに空の結果を返します。
	DryRun bool
	// SearchLog が nil の場合、記録は行いません。
	SearchLog SearchLogRepository
	// Describer が nil の場合、デバッグ情報にキャプションは含まれません。
	Describer Describer
	Logger    *zap.Logger
}

// lookupUsecase は画像から購入候補を探すオーケストレーターです。
type lookupUsecase struct {
	annotator Annotator
	searcher  ProductSearcher
	searchLog SearchLogRepository
	describer Describer
	dryRun    bool
	logger    *zap.Logger
	now       func() time.Time
}

// NewLookupUsecase はlookupUsecaseの新しいインスタンスを生成します。
func NewLookupUsecase(annotator Annotator, searcher ProductSearcher, opts LookupOptions) *lookupUsecase {
	zl := opts.Logger
	if zl == nil {
		zl = zap.NewNop()
	}
	return &lookupUsecase{
		annotator: annotator,
		searcher:  searcher,
		searchLog: opts.SearchLog,
		describer: opts.Describer,
		dryRun:    opts.DryRun,
		logger:    zl,
		now:       time.Now,
	}
}

// Lookup は入力を検証し、注釈・属性抽出・クエリ生成・商品検索を順に実行します。
// どの段階でも失敗した時点でリクエスト全体を失敗として返します。
func (u *lookupUsecase) Lookup(ctx context.Context, in entity.LookupInput) (*entity.LookupResult, error) {
	log := u.logger.With(zap.String("request_id", in.RequestID))
	u.enter(log, entity.StageAwaitingInput)

	if len(in.Image) == 0 {
		if strings.TrimSpace(in.VideoURL) == "" {
			return nil, ErrMissingInput
		}
		log.Info("video link received without screenshot", zap.String("url", in.VideoURL))
		u.enter(log, entity.StageResponded)
		return &entity.LookupResult{
			Matches: []entity.MatchItem{},
			Note:    LinkOnlyNote,
			Outcome: entity.OutcomeLinkOnly,
		}, nil
	}
	if len(in.Image) > MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(in.Image), MaxImageSize)
	}

	started := u.now()
	entry := entity.SearchLog{
		ID:        uuid.NewString(),
		RequestID: in.RequestID,
		Outcome:   entity.OutcomeError,
		CreatedAt: started,
	}
	// 抽出段階に入ったlookupは失敗時も含めて記録する
	defer func() {
		entry.Duration = u.now().Sub(started)
		u.record(ctx, log, entry)
	}()

	u.enter(log, entity.StageExtracting)
	ann, err := u.annotator.Annotate(ctx, in.Image)
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}
	attrs := InferAttributes(ExtractAttributes(ann))
	entry.Brand = attrs.Brand
	entry.Category = attrs.Category

	u.enter(log, entity.StageQuerying)
	query := BuildQuery(attrs)
	entry.Query = query

	result := &entity.LookupResult{Matches: []entity.MatchItem{}}
	switch {
	case query == "":
		result.Outcome = entity.OutcomeNoQuery
	case u.dryRun:
		result.Outcome = entity.OutcomeDryRun
	default:
		u.enter(log, entity.StageSearching)
		matches, err := u.searcher.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search products for %q: %w", query, err)
		}
		if matches != nil {
			result.Matches = matches
		}
		result.Outcome = entity.OutcomeSearched
	}
	entry.Outcome = result.Outcome
	entry.MatchCount = len(result.Matches)

	if in.Debug {
		result.Debug = &entity.DebugInfo{
			Outcome:     result.Outcome,
			Query:       query,
			Attributes:  attrs,
			Annotations: ann,
			Caption:     u.describe(ctx, log, in.Image),
		}
	}

	u.enter(log, entity.StageResponded)
	log.Info("lookup completed",
		zap.String("outcome", string(result.Outcome)),
		zap.String("query", query),
		zap.String("texts", logger.Truncate(strings.Join(attrs.Texts, " | "), maxLoggedTextLen)),
		zap.Int("matches", len(result.Matches)),
	)
	return result, nil
}

func (u *lookupUsecase) enter(log *zap.Logger, stage entity.Stage) {
	log.Debug("lookup stage", zap.String("stage", string(stage)))
}

// describe はキャプションを生成します。失敗してもリクエストは継続します。
func (u *lookupUsecase) describe(ctx context.Context, log *zap.Logger, image []byte) string {
	if u.describer == nil {
		return ""
	}
	caption, err := u.describer.Describe(ctx, image)
	if err != nil {
		log.Warn("caption generation failed", zap.Error(err))
		return ""
	}
	return caption
}

// record は検索ログを保存します（ベストエフォート）。
func (u *lookupUsecase) record(ctx context.Context, log *zap.Logger, entry entity.SearchLog) {
	if u.searchLog == nil {
		return
	}
	if err := u.searchLog.Create(ctx, entry); err != nil {
		log.Warn("failed to record search log", zap.Error(err))
	}
}
