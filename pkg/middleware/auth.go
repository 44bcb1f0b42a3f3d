package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-console/internal/authz"
	"request-console/internal/entities"
	"request-console/pkg/api"
	"request-console/pkg/contextkeys"
)

// SessionReader - то, что guard знает о сессии. Сеть не используется.
type SessionReader interface {
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*entities.SessionUser, bool)
}

type AuthMiddleware struct {
	session SessionReader
	logger  *zap.Logger
}

func NewAuthMiddleware(session SessionReader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		session: session,
		logger:  logger.Named("guard"),
	}
}

// RequireRoles пускает к группе маршрутов только вошедшего пользователя с одной из ролей.
// Для JSON-клиента перенаправление - это 401 (не вошёл) или 403 (чужая роль) с адресом в теле.
func (m *AuthMiddleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			// 1. Состояние сессии
			authenticated := m.session.IsAuthenticated(ctx)
			var role string
			var userID uint64
			if user, ok := m.session.CurrentUser(ctx); ok {
				role = user.Role
				userID = user.UserID
			}

			// 2. Решение
			decision := authz.Decide(authenticated, role, roles)
			switch decision.Verdict {
			case authz.RedirectUnauthenticated:
				m.logger.Warn("Нет сессии, перенаправление", zap.String("path", c.Path()))
				return c.JSON(http.StatusUnauthorized, api.Response[authz.Decision]{
					Status:  false,
					Message: "Требуется вход",
					Body:    decision,
				})
			case authz.RedirectForbiddenRole:
				m.logger.Warn("Роль не допущена к странице, перенаправление",
					zap.String("path", c.Path()), zap.String("role", role))
				return c.JSON(http.StatusForbidden, api.Response[authz.Decision]{
					Status:  false,
					Message: "Нет доступа к странице",
					Body:    decision,
				})
			}

			// 3. Пользователь в контексте запроса
			newCtx := context.WithValue(ctx, contextkeys.UserIDKey, userID)
			newCtx = context.WithValue(newCtx, contextkeys.UserRoleKey, role)
			c.SetRequest(c.Request().WithContext(newCtx))
			return next(c)
		}
	}
}
