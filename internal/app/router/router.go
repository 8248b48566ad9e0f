package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"user_backend/internal/app/views"
	usershandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/platform/http/middleware"
)

// Options はルーター構築時の任意設定です。
type Options struct {
	// BasePath はユーザー管理画面のルート接頭辞です（例: "/admin"）。
	BasePath string
	// CORSAllowedOrigins が空でなければ CORS ミドルウェアを有効にします。
	CORSAllowedOrigins []string
	// Health は /healthz のハンドラーです。nil なら登録しません。
	Health gin.HandlerFunc
	Logger *slog.Logger
}

func NewRouter(users *usershandler.UserHandler, opts Options) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(opts.Logger))

	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSAllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.HeaderRequestID},
			ExposeHeaders: []string{middleware.HeaderRequestID},
		}))
	}

	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// 導通確認用
	if opts.Health != nil {
		r.GET("/healthz", opts.Health)
		r.HEAD("/healthz", opts.Health)
		r.OPTIONS("/healthz", opts.Health)
	}

	// ユーザー管理画面
	g := r.Group(strings.TrimRight(opts.BasePath, "/"))
	{
		g.GET("/users", users.List)
		g.GET("/users/new", users.NewForm)
		g.GET("/users/:id/edit", users.EditForm)
		g.GET("/users/:id/delete", users.Delete)
		g.POST("/users/save", users.Save)
	}

	// 上記以外はすべて一覧へ
	r.NoRoute(users.RedirectToList)

	return r, nil
}
