package contextkeys

type contextKey string

const (
	UserIDKey   contextKey = "UserID"
	UserRoleKey contextKey = "UserRole"
)

// Ключи echo.Context.
const (
	LoggerKey = "logger"
)
