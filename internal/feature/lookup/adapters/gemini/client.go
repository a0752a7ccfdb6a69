// Package gemini はGoogle Gemini APIを使用した画像キャプション生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"snapshop_backend/internal/feature/lookup/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// CaptionPrompt は衣類の短い説明を求めるプロンプトです。
	CaptionPrompt = "Describe the main clothing item in this image in one short line: brand if visible, garment type, color and pattern."
)

// contentGenerator はテストで差し替え可能な genai.Models の最小インターフェースです。
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiDescriber はGoogle Gemini APIを使用して画像のキャプションを生成します。
type GeminiDescriber struct {
	models contentGenerator
	model  string
}

// GeminiDescriberがDescriberを実装していることをコンパイル時に検証します。
var _ usecase.Describer = (*GeminiDescriber)(nil)

// NewGeminiDescriber はGeminiDescriberの新しいインスタンスを生成します。
// apiKey が空の場合は環境変数（GOOGLE_GENAI_USE_VERTEXAI など）とADCを使用します。
func NewGeminiDescriber(ctx context.Context, apiKey, model string) (*GeminiDescriber, error) {
	var cfg *genai.ClientConfig
	if apiKey != "" {
		cfg = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiDescriber{models: client.Models, model: model}, nil
}

// Describe は画像から1行のキャプションを生成します。
func (g *GeminiDescriber) Describe(ctx context.Context, image []byte) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(CaptionPrompt),
			genai.NewPartFromBytes(image, http.DetectContentType(image)),
		}, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}
