// Package dateutil はフォームで扱う暦日（yyyy-MM-dd）の変換を提供します。
// すべての関数は状態を持たず、複数リクエストから同時に呼び出しても安全です。
package dateutil

import (
	"fmt"
	"time"
)

// Layout はフォームおよびビューで使用する日付形式です。
const Layout = "2006-01-02"

// ParseDate は yyyy-MM-dd 形式の文字列を loc の0時として解釈します。
// loc が nil の場合は time.Local を使用します。
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate は t を yyyy-MM-dd 形式で返します。ゼロ値の場合は空文字列です。
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// StartOfDay は t と同じ日付・ロケーションの0時を返します。
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsBeforeDay は a の日付が b の日付より前であるかを判定します。時刻部分は無視します。
func IsBeforeDay(a, b time.Time) bool {
	return StartOfDay(a).Before(StartOfDay(b.In(a.Location())))
}
