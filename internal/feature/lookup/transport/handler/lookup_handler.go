// Package handler はlookupフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/feature/lookup/transport/http/dto"
	"snapshop_backend/internal/feature/lookup/usecase"
	"snapshop_backend/internal/platform/http/middleware"
)

const (
	// FileField は画像ファイルのフォームフィールド名です。
	FileField = "file"
	// LinkField は動画リンクのフォームフィールド名です。
	LinkField = "tiktokUrl"
)

// LookupUsecase はlookupのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LookupUsecase interface {
	Lookup(ctx context.Context, in entity.LookupInput) (*entity.LookupResult, error)
}

// LookupHandler は画像からの商品検索リクエストを処理します。
type LookupHandler struct {
	uc     LookupUsecase
	logger *zap.Logger
}

// NewLookupHandler はLookupHandlerの新しいインスタンスを生成します。
func NewLookupHandler(uc LookupUsecase, logger *zap.Logger) *LookupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupHandler{uc: uc, logger: logger}
}

// Lookup はスクリーンショットまたは動画リンクを受け取り、購入候補を返します。
//
// エンドポイント: POST /api/lookup
// Content-Type: multipart/form-data
// フィールド: file（画像ファイル、最大10MB）または tiktokUrl（文字列）
// クエリ: debug=1 で診断情報を付与
func (h *LookupHandler) Lookup(c *gin.Context) {
	log := h.logger.With(zap.String("request_id", middleware.RequestID(c)))

	image, err := readImage(c)
	if err != nil {
		log.Error("画像データの読み取りに失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("failed to read uploaded file"))
		return
	}

	in := entity.LookupInput{
		Image:     image,
		VideoURL:  c.PostForm(LinkField),
		Debug:     c.Query("debug") == "1",
		RequestID: middleware.RequestID(c),
	}

	result, err := h.uc.Lookup(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingInput), errors.Is(err, usecase.ErrImageTooLarge):
			log.Warn("lookupリクエストのバリデーションに失敗", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse(err.Error()))
		default:
			log.Error("lookupに失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromResult(result))
}

// readImage はフォームの画像ファイルを読み込みます。ファイルが無い場合は nil を返します。
func readImage(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile(FileField)
	if err != nil {
		// フィールド欠落・非multipartはいずれも「ファイルなし」として扱う
		return nil, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	// 上限+1バイトまで読み、サイズ超過はユースケース側で判定する
	return io.ReadAll(io.LimitReader(f, usecase.MaxImageSize+1))
}
