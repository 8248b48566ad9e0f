// Package http はHTTPサーバーの生成を提供します。
package http

import (
	"net/http"
	"time"
)

// NewServer はタイムアウトを明示的に設定した http.Server を作成します。
//
// 設定:
//   - ReadHeaderTimeout: ヘッダー受信の最大時間（Slowloris対策）
//   - ReadTimeout: フォーム本文を含むリクエスト全体の読み込み時間
//   - WriteTimeout: レスポンス書き込みの最大時間
//   - IdleTimeout: Keep-Alive 接続の維持期間
//
// 注意:
//   - http.ListenAndServe のデフォルトサーバーにはタイムアウトがないため使用しないこと
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
