// Package entity はlookupフィーチャーのドメインモデルを定義します。
package entity

import "strings"

// AttributeRecord は画像注釈から抽出された商品属性を表します。
// 空文字列は「未検出」を意味します。構築後は変更しないでください。
type AttributeRecord struct {
	Brand    string   // 正規化されたブランド名（例: "Nike"）
	Category string   // 正規化されたカテゴリ（例: "t-shirt"）
	Colors   []string // 色名（最大3件、重複なし、優先順）
	Patterns []string // 柄（キーワード一覧の順序）
	Texts    []string // 画像から抽出された生テキスト
}

// HasSubject はブランドまたはカテゴリのいずれかが存在するかを返します。空白のみの値は未検出とみなします。
func (a AttributeRecord) HasSubject() bool {
	return strings.TrimSpace(a.Brand) != "" || strings.TrimSpace(a.Category) != ""
}

// Clone はスライスを含めた独立したコピーを返します。
func (a AttributeRecord) Clone() AttributeRecord {
	return AttributeRecord{
		Brand:    a.Brand,
		Category: a.Category,
		Colors:   append([]string(nil), a.Colors...),
		Patterns: append([]string(nil), a.Patterns...),
		Texts:    append([]string(nil), a.Texts...),
	}
}
