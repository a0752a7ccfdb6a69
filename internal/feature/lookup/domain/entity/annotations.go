package entity

// DominantColor は画像の支配色を表します（各成分 0〜255）。
type DominantColor struct {
	R, G, B float64
	Score   float64
}

// Annotations は注釈サービスの出力を文字列中心に縮約したものです。
type Annotations struct {
	Logos          []string
	Labels         []string
	Texts          []string
	WebEntities    []string
	Objects        []string
	DominantColors []DominantColor
}
