// Package dto はlookupエンドポイントのリクエスト・レスポンス型を定義します。
package dto

// MatchItem はレスポンス中の購入候補1件です。未取得の項目は省略されます。
type MatchItem struct {
	ID    string   `json:"id"`
	Title string   `json:"title,omitempty"`
	Price string   `json:"price,omitempty"`
	Store string   `json:"store,omitempty"`
	URL   string   `json:"url,omitempty"`
	Image string   `json:"image,omitempty"`
	Match *float64 `json:"match,omitempty"`
}

// Attributes は抽出された属性の診断表示です。
type Attributes struct {
	Brand    string   `json:"brand,omitempty"`
	Category string   `json:"category,omitempty"`
	Colors   []string `json:"colors"`
	Patterns []string `json:"patterns"`
	Texts    []string `json:"texts"`
}

// Annotations は注釈サービスの結果の診断表示です。
type Annotations struct {
	Logos       []string   `json:"logos"`
	Labels      []string   `json:"labels"`
	Texts       []string   `json:"texts"`
	WebEntities []string   `json:"webEntities"`
	Objects     []string   `json:"objects"`
	Colors      [][3]uint8 `json:"colors"`
}

// Debug は debug=1 指定時に付与される診断情報です。
type Debug struct {
	Outcome     string      `json:"outcome"`
	Query       string      `json:"query"`
	Attributes  Attributes  `json:"attributes"`
	Annotations Annotations `json:"annotations"`
	Caption     string      `json:"caption,omitempty"`
}

// LookupResponse はlookupエンドポイントの共通レスポンスです。
// matches は常に配列として返します。
type LookupResponse struct {
	Matches []MatchItem `json:"matches"`
	Note    string      `json:"note,omitempty"`
	Debug   *Debug      `json:"debug,omitempty"`
	Error   string      `json:"error,omitempty"`
}
