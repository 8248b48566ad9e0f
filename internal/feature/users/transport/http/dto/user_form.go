// Package dto はusersフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// UserForm は /users/save に送信されるフォームを表します。
// 日付は yyyy-MM-dd 形式の文字列のまま受け取り、検証はユースケース層で行います。
type UserForm struct {
	ID               string `form:"id"`
	Username         string `form:"username"`
	Email            string `form:"email"`
	FirstName        string `form:"firstName"`
	LastName         string `form:"lastName"`
	Identification   string `form:"identification"`
	Nationality      string `form:"nationality"`
	RegistrationDate string `form:"registrationDate"`
	ExpirationDate   string `form:"expirationDate"`
}
