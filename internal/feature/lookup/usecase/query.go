package usecase

import (
	"regexp"
	"strings"

	"snapshop_backend/internal/feature/lookup/domain/entity"
)

// IntentToken はクエリ末尾に付与する購入意図のトークンです。
const IntentToken = "buy"

// tshirtText は抽出テキストから t-shirt を推定するためのパターンです。
var tshirtText = regexp.MustCompile(`(?i)\b(t-?shirts?|tees?)\b`)

// InferAttributes はカテゴリ未検出の場合に生テキストから推定した新しいレコードを返します。
// 入力のレコードは変更しません。
func InferAttributes(rec entity.AttributeRecord) entity.AttributeRecord {
	out := rec.Clone()
	if out.Category == "" && tshirtText.MatchString(strings.Join(rec.Texts, " ")) {
		out.Category = "t-shirt"
	}
	return out
}

// BuildQuery は属性レコードから検索クエリを組み立てます。
// ブランドもカテゴリも得られない場合は空文字列を返します。
func BuildQuery(rec entity.AttributeRecord) string {
	rec = InferAttributes(rec)
	if !rec.HasSubject() {
		return ""
	}

	parts := make([]string, 0, 5)
	parts = appendNonEmpty(parts, rec.Brand)
	parts = appendNonEmpty(parts, rec.Category)
	if len(rec.Colors) > 0 {
		parts = appendNonEmpty(parts, rec.Colors[0])
	}
	if len(rec.Patterns) > 0 {
		parts = appendNonEmpty(parts, rec.Patterns[0])
	}
	parts = append(parts, IntentToken)
	return strings.Join(parts, " ")
}

func appendNonEmpty(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		return append(parts, s)
	}
	return parts
}
