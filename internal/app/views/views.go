// Package views はサーバーサイドで描画するHTMLテンプレートを提供します。
package views

import (
	"embed"
	"errors"
	"html/template"
	"time"

	"user_backend/internal/shared/dateutil"
)

//go:embed templates/*.tmpl
var files embed.FS

// Load は埋め込まれたすべてのテンプレートを解析します。
// 各ビューは {{define "userList"}} のように名前付きで定義されています。
func Load() (*template.Template, error) {
	return template.New("views").Funcs(Funcs()).ParseFS(files, "templates/*.tmpl")
}

// Funcs はテンプレートで使用する関数を返します。
func Funcs() template.FuncMap {
	return template.FuncMap{
		"date": formatDate,
		"dict": dict,
	}
}

// dict はキーと値の組からテンプレートに渡すマップを作ります。
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

// formatDate は time.Time または *time.Time を yyyy-MM-dd 形式にします。
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return dateutil.FormatDate(t)
	case *time.Time:
		if t == nil {
			return ""
		}
		return dateutil.FormatDate(*t)
	default:
		return ""
	}
}
