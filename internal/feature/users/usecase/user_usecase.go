// Package usecase はusersフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/shared/dateutil"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーに ID を割り当てて永続化します。
	// 一意キーが重複する場合は domain.ErrDuplicateUser を返します。
	Create(ctx context.Context, user *entity.User) error

	// Update は既存ユーザーの変更を永続化します。
	// ID が存在しない場合は domain.ErrUserNotFound を返します。
	Update(ctx context.Context, user *entity.User) error

	// Delete は ID でユーザーを削除します。存在しない ID はエラーになりません。
	Delete(ctx context.Context, id uint) error

	// FindByID は ID に一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindAll はすべてのユーザーを ID 昇順で返します。
	FindAll(ctx context.Context) ([]entity.User, error)

	// FindByUsername はユーザー名に一致するユーザーを取得します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail はメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByIdentification は身分証番号に一致するユーザーを取得します。
	FindByIdentification(ctx context.Context, identification string) (*entity.User, error)
}

// SaveInput はフォームから送信されたユーザー情報です。
// ID が空の場合は新規作成、それ以外は更新として扱います。
type SaveInput struct {
	ID               string
	Username         string
	Email            string
	FirstName        string
	LastName         string
	Identification   string
	Nationality      string
	RegistrationDate string
	ExpirationDate   string
}

// Option はUserUsecaseの設定を変更します。
type Option func(*UserUsecase)

// WithClock は現在時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(u *UserUsecase) {
		if now != nil {
			u.now = now
		}
	}
}

// UserUsecase はユーザー管理のビジネスロジックを提供します。
type UserUsecase struct {
	users UserRepository
	now   func() time.Time
}

// NewUserUsecase はUserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, opts ...Option) *UserUsecase {
	u := &UserUsecase{users: users, now: time.Now}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// List はすべてのユーザーを返します。
func (u *UserUsecase) List(ctx context.Context) ([]entity.User, error) {
	return u.users.FindAll(ctx)
}

// Get は ID に一致するユーザーを返します。
func (u *UserUsecase) Get(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// Delete は ID に一致するユーザーを削除します。
func (u *UserUsecase) Delete(ctx context.Context, id uint) error {
	return u.users.Delete(ctx, id)
}

// Draft は新規作成フォーム用の空のユーザーと選択可能な最小日付を返します。
// 有効期限の初期値は本日から1年後です。
func (u *UserUsecase) Draft() (*entity.User, time.Time) {
	today := dateutil.StartOfDay(u.now())
	expiration := today.AddDate(1, 0, 0)
	return &entity.User{ExpirationDate: &expiration}, today
}

// Save は入力を検証してユーザーを作成または更新します。
//
// 検証に失敗した場合も、送信値を反映したユーザーをエラーと共に返します。
// 更新対象の ID が存在しない場合は何も保存せず domain.ErrUserNotFound を返します。
func (u *UserUsecase) Save(ctx context.Context, in SaveInput) (*entity.User, error) {
	id, err := ParseID(in.ID)
	if err != nil {
		return u.draft(in, nil), err
	}

	var existing *entity.User
	if id != nil {
		found, err := u.users.FindByID(ctx, *id)
		switch {
		case err == nil:
			existing = found
		case errors.Is(err, domain.ErrUserNotFound):
			// 検証後に判定する
		default:
			return u.draft(in, nil), fmt.Errorf("find user %d: %w", *id, err)
		}
	}

	if err := u.checkUnique(ctx, id, in); err != nil {
		return u.draft(in, existing), err
	}

	if in.ExpirationDate != "" {
		expiration, err := dateutil.ParseDate(in.ExpirationDate, u.now().Location())
		if err != nil {
			return u.draft(in, existing), fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
		}
		if dateutil.IsBeforeDay(expiration, u.now()) {
			return u.draft(in, existing), domain.ErrExpirationBeforeRegistration
		}
	}

	if id != nil && existing == nil {
		return nil, fmt.Errorf("user %d: %w", *id, domain.ErrUserNotFound)
	}

	user := existing
	if user == nil {
		user = &entity.User{}
	}
	if err := u.apply(user, in); err != nil {
		return user, err
	}

	if existing == nil {
		if err := u.users.Create(ctx, user); err != nil {
			return user, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	}
	if err := u.users.Update(ctx, user); err != nil {
		return user, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return user, nil
}

// ParseID はフォームの id 値を解釈します。空文字列は新規作成を意味し nil を返します。
// 正の整数でない場合は domain.ErrInvalidID を返します。
func ParseID(raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	id := uint(v)
	return &id, nil
}

// checkUnique は身分証番号とユーザー名が他のユーザーに使われていないか確認します。
func (u *UserUsecase) checkUnique(ctx context.Context, id *uint, in SaveInput) error {
	if in.Identification != "" {
		other, err := u.users.FindByIdentification(ctx, in.Identification)
		if cerr := conflict(other, err, id, domain.ErrIdentificationExists); cerr != nil {
			return cerr
		}
	}
	if in.Username != "" {
		other, err := u.users.FindByUsername(ctx, in.Username)
		if cerr := conflict(other, err, id, domain.ErrUsernameExists); cerr != nil {
			return cerr
		}
	}
	return nil
}

// conflict は検索結果が保存対象とは別のユーザーである場合に sentinel を返します。
// 新規作成（id が nil）の場合は一致するユーザーがいればすべて衝突です。
func conflict(other *entity.User, err error, id *uint, sentinel error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if id == nil || other.ID != *id {
		return sentinel
	}
	return nil
}

// apply は入力値をユーザーに反映します。
// 日付の解析に失敗しても他のフィールドは反映し、最初のエラーを返します。
func (u *UserUsecase) apply(user *entity.User, in SaveInput) error {
	user.Username = in.Username
	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.SetIdentification(in.Identification)
	user.Nationality = in.Nationality

	now := u.now()
	var firstErr error

	switch {
	case in.RegistrationDate != "":
		registered, err := dateutil.ParseDate(in.RegistrationDate, now.Location())
		if err != nil {
			firstErr = fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
		} else {
			user.RegistrationDate = registered
		}
	case user.RegistrationDate.IsZero():
		user.RegistrationDate = now
	}

	if in.ExpirationDate != "" {
		expiration, err := dateutil.ParseDate(in.ExpirationDate, now.Location())
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
			}
		} else {
			user.ExpirationDate = &expiration
		}
	}

	return firstErr
}

// draft はフォーム再表示用に、既存ユーザーのコピーへ入力値を反映したものを返します。
func (u *UserUsecase) draft(in SaveInput, base *entity.User) *entity.User {
	user := &entity.User{}
	if base != nil {
		cp := *base
		user = &cp
	}
	_ = u.apply(user, in)
	return user
}
