package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/feature/lookup/usecase"
	"snapshop_backend/internal/platform/externalapi/serpapi/dto"
)

// ErrMissingAPIKey is returned by Search when no API key is configured.
var ErrMissingAPIKey = errors.New("search api key is not configured (set SERPAPI_API_KEY)")

// ShoppingSearch はSerpApiのGoogle Shoppingエンジンから商品を検索するProductSearcher実装です。
type ShoppingSearch struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// ShoppingSearchがProductSearcherを実装していることをコンパイル時に検証します。
var _ usecase.ProductSearcher = (*ShoppingSearch)(nil)

// NewShoppingSearch は指定された設定とHTTPクライアントでShoppingSearchの新しいインスタンスを生成します。
func NewShoppingSearch(cfg Config, client *http.Client, logger *zap.Logger) *ShoppingSearch {
	cfg = cfg.withDefaults()
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingSearch{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		logger:  logger,
	}
}

// Search はクエリで商品を検索し、先頭 MaxResults 件を MatchItem に変換して返します。
// 順序は検索サービスの関連度順のまま保持し、重複除去は行いません。
func (s *ShoppingSearch) Search(ctx context.Context, query string) ([]entity.MatchItem, error) {
	if s.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("serpapi rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("engine", "google_shopping")
	q.Set("q", query)
	q.Set("gl", s.cfg.Country)
	q.Set("hl", s.cfg.Language)
	q.Set("api_key", s.cfg.APIKey)

	u := fmt.Sprintf("%s/search.json?%s", s.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			s.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("serpapi http %d", res.StatusCode)
	}

	var body dto.ShoppingResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", body.Error)
	}

	n := min(len(body.ShoppingResults), MaxResults)
	items := make([]entity.MatchItem, 0, n)
	for i, r := range body.ShoppingResults[:n] {
		items = append(items, toMatchItem(i, r))
	}
	s.logger.Debug("serpapi search completed", zap.String("query", query), zap.Int("results", len(items)))
	return items, nil
}

// toMatchItem は検索結果1件をドメインエンティティに変換します。
func toMatchItem(index int, r dto.ShoppingResult) entity.MatchItem {
	id := r.ProductID
	if id == "" {
		pos := r.Position
		if pos == 0 {
			pos = index + 1
		}
		id = strconv.Itoa(pos)
	}

	link := r.Link
	if link == "" {
		link = r.ProductLink
	}

	return entity.MatchItem{
		ID:    id,
		Title: r.Title,
		Price: formatPrice(r),
		Store: r.Source,
		URL:   link,
		Image: r.Thumbnail,
	}
}

// formatPrice は整形済みの価格文字列を優先し、なければ数値価格を "$" 付き小数2桁に整形します。
func formatPrice(r dto.ShoppingResult) string {
	if r.Price != "" {
		return r.Price
	}
	if r.ExtractedPrice != nil {
		return fmt.Sprintf("$%.2f", *r.ExtractedPrice)
	}
	return ""
}
