package dto

import (
	"math"

	"snapshop_backend/internal/feature/lookup/domain/entity"
)

// ErrorResponse は空の matches とエラーメッセージを持つレスポンスを生成します。
func ErrorResponse(msg string) LookupResponse {
	return LookupResponse{Matches: []MatchItem{}, Error: msg}
}

// FromResult はlookup結果をレスポンス形式に変換します。
func FromResult(r *entity.LookupResult) LookupResponse {
	out := LookupResponse{
		Matches: make([]MatchItem, 0, len(r.Matches)),
		Note:    r.Note,
	}
	for _, m := range r.Matches {
		out.Matches = append(out.Matches, MatchItem{
			ID:    m.ID,
			Title: m.Title,
			Price: m.Price,
			Store: m.Store,
			URL:   m.URL,
			Image: m.Image,
			Match: m.Match,
		})
	}
	if r.Debug != nil {
		out.Debug = fromDebug(r.Debug)
	}
	return out
}

func fromDebug(d *entity.DebugInfo) *Debug {
	colors := make([][3]uint8, 0, len(d.Annotations.DominantColors))
	for _, c := range d.Annotations.DominantColors {
		colors = append(colors, [3]uint8{channel(c.R), channel(c.G), channel(c.B)})
	}
	return &Debug{
		Outcome: string(d.Outcome),
		Query:   d.Query,
		Attributes: Attributes{
			Brand:    d.Attributes.Brand,
			Category: d.Attributes.Category,
			Colors:   nonNil(d.Attributes.Colors),
			Patterns: nonNil(d.Attributes.Patterns),
			Texts:    nonNil(d.Attributes.Texts),
		},
		Annotations: Annotations{
			Logos:       nonNil(d.Annotations.Logos),
			Labels:      nonNil(d.Annotations.Labels),
			Texts:       nonNil(d.Annotations.Texts),
			WebEntities: nonNil(d.Annotations.WebEntities),
			Objects:     nonNil(d.Annotations.Objects),
			Colors:      colors,
		},
		Caption: d.Caption,
	}
}

// channel は色成分を 0〜255 に丸めます。
func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
