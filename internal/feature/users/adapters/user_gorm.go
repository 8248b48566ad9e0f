// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// pgUniqueViolation は PostgreSQL の一意制約違反を表す SQLSTATE です。
const pgUniqueViolation = "23505"

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQL と SQLite のどちらの接続でも動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// 一意キーが重複する場合、domain.ErrDuplicateUserを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Update は既存ユーザーの全フィールドを更新します。
// 該当行がない場合、domain.ErrUserNotFoundを返します。
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	if u == nil || u.ID == 0 {
		return domain.ErrUserNotFound
	}
	result := r.db.WithContext(ctx).
		Model(u).
		Select("*").
		Omit("id", "created_at").
		Updates(u)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete はIDでユーザーを削除します。該当行がなくてもエラーにしません。
func (r *userGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.User{}, id).Error
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindAll はID昇順ですべてのユーザーを返します。
func (r *userGorm) FindAll(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByUsername はユーザー名でユーザーを取得します。
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByIdentification は身分証番号でユーザーを取得します。
// 空文字列はNULLとして保存されるため、常に見つかりません。
func (r *userGorm) FindByIdentification(ctx context.Context, identification string) (*entity.User, error) {
	if identification == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.first(ctx, "identification = ?", identification)
}

func (r *userGorm) first(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id ASC").First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// translateError はドライバー固有の一意制約違反をdomain.ErrDuplicateUserに変換します。
// SQLite は gorm.Config.TranslateError により gorm.ErrDuplicatedKey になります。
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateUser
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrDuplicateUser
	}
	return err
}
