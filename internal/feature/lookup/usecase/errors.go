// Package usecase はlookupフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrMissingInput は画像も動画リンクも送信されなかった場合に返されます。
	ErrMissingInput = errors.New("missing file or tiktokUrl")

	// ErrImageTooLarge はアップロード画像が MaxImageSize を超えた場合に返されます。
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)
