package entity

// MatchItem はショッピング検索サービスから得た購入候補を表します。
type MatchItem struct {
	ID    string
	Title string
	Price string
	Store string
	URL   string
	Image string
	Match *float64 // 類似度。検索サービスが提供しない場合は nil
}
