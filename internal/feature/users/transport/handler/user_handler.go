// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/transport/http/dto"
	"user_backend/internal/feature/users/usecase"
)

// ビュー名
const (
	ViewUserList = "userList"
	ViewUserForm = "userForm"
	ViewEditUser = "editUser"
)

// validationMessages はフォームに表示する検証エラーメッセージです。
var validationMessages = []struct {
	err error
	msg string
}{
	{domain.ErrIdentificationExists, "Identification document already exists"},
	{domain.ErrUsernameExists, "Username already exists"},
	{domain.ErrExpirationBeforeRegistration, "Expiration date cannot be before registration date"},
	{domain.ErrInvalidDate, "Invalid date format"},
}

// UserUsecase はユーザー管理のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type UserUsecase interface {
	List(ctx context.Context) ([]entity.User, error)
	Get(ctx context.Context, id uint) (*entity.User, error)
	Delete(ctx context.Context, id uint) error
	Draft() (*entity.User, time.Time)
	Save(ctx context.Context, in usecase.SaveInput) (*entity.User, error)
}

// UserHandler はユーザー管理画面のHTTPリクエストを処理します。
// 各リクエストは独立しており、ハンドラーは状態を持ちません。
type UserHandler struct {
	uc       UserUsecase
	basePath string
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
// basePath はリダイレクト先とビュー内リンクの接頭辞です（例: "/admin"）。
func NewUserHandler(uc UserUsecase, basePath string) *UserHandler {
	return &UserHandler{uc: uc, basePath: strings.TrimRight(basePath, "/")}
}

// ListPath は一覧画面のパスを返します。
func (h *UserHandler) ListPath() string {
	return h.basePath + "/users"
}

// RedirectToList は一覧画面へリダイレクトします。未定義のルートでも使用します。
func (h *UserHandler) RedirectToList(c *gin.Context) {
	c.Redirect(http.StatusFound, h.ListPath())
}

// List はユーザー一覧を表示します。
//
// エンドポイント: GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.uc.List(c.Request.Context())
	if err != nil {
		slog.Error("ユーザー一覧の取得に失敗", "error", err)
		c.HTML(http.StatusInternalServerError, ViewUserList, h.view(gin.H{
			"users": []entity.User{},
			"error": genericMessage(err),
		}))
		return
	}
	c.HTML(http.StatusOK, ViewUserList, h.view(gin.H{"users": users}))
}

// NewForm は新規作成フォームを表示します。
// 有効期限の初期値は1年後、選択可能な最小日付は本日です。
//
// エンドポイント: GET /users/new
func (h *UserHandler) NewForm(c *gin.Context) {
	user, minDate := h.uc.Draft()
	c.HTML(http.StatusOK, ViewUserForm, h.view(gin.H{
		"user":    user,
		"minDate": minDate,
	}))
}

// EditForm は編集フォームを表示します。ユーザーが存在しない場合は一覧へリダイレクトします。
//
// エンドポイント: GET /users/:id/edit
func (h *UserHandler) EditForm(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			slog.Error("ユーザーの取得に失敗", "error", err, "id", id)
		}
		h.RedirectToList(c)
		return
	}
	c.HTML(http.StatusOK, ViewEditUser, h.view(gin.H{
		"user":    user,
		"minDate": user.RegistrationDate,
	}))
}

// Delete はユーザーを削除して一覧へリダイレクトします。
// 存在しない ID でも同様にリダイレクトします。
//
// エンドポイント: GET /users/:id/delete
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		slog.Error("ユーザーの削除に失敗", "error", err, "id", id)
	}
	h.RedirectToList(c)
}

// Save はフォーム送信を検証し、ユーザーを作成または更新します。
// 成功時は一覧へリダイレクトし、失敗時は入力値を保持したままフォームを再表示します。
//
// エンドポイント: POST /users/save
// Content-Type: application/x-www-form-urlencoded
func (h *UserHandler) Save(c *gin.Context) {
	var form dto.UserForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("フォームのバインドに失敗", "error", err, "remote_addr", c.ClientIP())
		h.renderForm(c, http.StatusBadRequest, form.ID != "", &entity.User{}, genericMessage(err))
		return
	}

	user, err := h.uc.Save(c.Request.Context(), usecase.SaveInput{
		ID:               form.ID,
		Username:         form.Username,
		Email:            form.Email,
		FirstName:        form.FirstName,
		LastName:         form.LastName,
		Identification:   form.Identification,
		Nationality:      form.Nationality,
		RegistrationDate: form.RegistrationDate,
		ExpirationDate:   form.ExpirationDate,
	})
	if err == nil {
		slog.Info("ユーザーを保存", "id", user.ID, "username", user.Username)
		h.RedirectToList(c)
		return
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		// 編集中に削除されたユーザーは保存しない
		slog.Warn("保存対象のユーザーが存在しない", "id", form.ID)
		h.RedirectToList(c)
		return
	}
	if user == nil {
		user = &entity.User{}
	}

	for _, v := range validationMessages {
		if errors.Is(err, v.err) {
			slog.Info("ユーザーの検証に失敗", "error", err, "username", form.Username)
			h.renderForm(c, http.StatusOK, form.ID != "", user, v.msg)
			return
		}
	}

	slog.Error("ユーザーの保存に失敗", "error", err, "username", form.Username)
	h.renderForm(c, http.StatusInternalServerError, form.ID != "", user, genericMessage(err))
}

// renderForm はエラーメッセージ付きでフォームを再表示します。
// ID が送信された場合は編集ビュー、それ以外は新規作成ビューを使用します。
func (h *UserHandler) renderForm(c *gin.Context, status int, editing bool, user *entity.User, msg string) {
	view := ViewUserForm
	minDate := user.RegistrationDate
	if editing {
		view = ViewEditUser
	} else {
		_, minDate = h.uc.Draft()
	}
	c.HTML(status, view, h.view(gin.H{
		"user":    user,
		"minDate": minDate,
		"error":   msg,
	}))
}

// pathID はパスの :id を解釈します。数値でない場合は400を返します。
func (h *UserHandler) pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil {
		slog.Warn("不正なユーザーID", "id", raw, "path", c.Request.URL.Path)
		c.String(http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

// view はビューモデルに共通の値を追加します。
func (h *UserHandler) view(data gin.H) gin.H {
	data["basePath"] = h.basePath
	return data
}

func genericMessage(err error) string {
	return "An error occurred: " + err.Error()
}
