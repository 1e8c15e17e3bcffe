package domain

import "time"

// Role представляет роль пользователя в системе
type Role string

// Возможные роли пользователей
const (
	RoleMember Role = "member" // Обычный участник
	RoleAdmin  Role = "admin"  // Администратор с расширенными правами
)

// User представляет зарегистрированного пользователя
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Никогда не отдается наружу
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin возвращает true если пользователь является администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRef представляет сокращенную проекцию пользователя
// (используется при раскрытии ссылок в задачах и командах)
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Ref возвращает сокращенную проекцию пользователя
func (u *User) Ref() UserRef {
	return UserRef{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
