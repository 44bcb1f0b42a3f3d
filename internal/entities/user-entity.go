// Файл: internal/entities/user-entity.go
package entities

// SessionUser - объект пользователя, который хранится в локальном хранилище под ключом "user".
type SessionUser struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// User - сотрудник из списка GET /users/.
type User struct {
	UserID   uint64 `json:"user_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Login    string `json:"login,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	RoleName string `json:"role_name"`
}

// Credentials раскрываются только по явному запросу менеджера и не кэшируются.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Profile - GET /users/profile. Balance и Schedule есть только у инженера.
type Profile struct {
	SessionUser
	Balance  string `json:"balance,omitempty"`
	Schedule string `json:"schedule,omitempty"`
}
