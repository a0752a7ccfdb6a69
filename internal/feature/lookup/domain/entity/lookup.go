package entity

// Stage はリクエスト処理の段階を表します。
type Stage string

const (
	StageAwaitingInput Stage = "awaiting-input"
	StageExtracting    Stage = "extracting"
	StageQuerying      Stage = "querying"
	StageSearching     Stage = "searching"
	StageResponded     Stage = "responded"
)

// Outcome はレスポンスに至った終端理由を表します。
type Outcome string

const (
	OutcomeLinkOnly Outcome = "link-only"
	OutcomeNoQuery  Outcome = "no-query"
	OutcomeDryRun   Outcome = "dry-run"
	OutcomeSearched Outcome = "searched"
	// OutcomeError は抽出または検索に失敗したlookupです。検索ログにのみ現れます。
	OutcomeError Outcome = "error"
)

// LookupInput はアップロードされた画像または動画リンクです。
type LookupInput struct {
	Image     []byte
	VideoURL  string
	Debug     bool
	RequestID string
}

// DebugInfo は debug=1 指定時に返される診断情報です。
type DebugInfo struct {
	Outcome     Outcome
	Query       string
	Attributes  AttributeRecord
	Annotations Annotations
	Caption     string
}

// LookupResult はlookupの最終結果です。
type LookupResult struct {
	Matches []MatchItem
	Note    string
	Outcome Outcome
	Debug   *DebugInfo
}
