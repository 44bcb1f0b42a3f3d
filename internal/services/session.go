package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"request-console/internal/dto"
	"request-console/internal/entities"
	"request-console/internal/repositories"
	"request-console/pkg/constants"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/validation"
)

const loginRequiredMessage = "Введите email и пароль"

type SessionServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResultDTO, error)
	Logout(ctx context.Context) (string, error)
	IsAuthenticated(ctx context.Context) bool
	CurrentRole(ctx context.Context) (string, bool)
	CurrentUser(ctx context.Context) (*entities.SessionUser, bool)
	Token(ctx context.Context) string
	Info(ctx context.Context) dto.SessionInfoDTO
}

// SessionService - единственное хранилище сессии консоли. Состояние живёт в локальном хранилище.
type SessionService struct {
	api       AuthAPI
	storage   repositories.LocalStorageInterface
	validator *validation.CustomValidator
	logger    *zap.Logger
}

func NewSessionService(
	api AuthAPI,
	storage repositories.LocalStorageInterface,
	validator *validation.CustomValidator,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		api:       api,
		storage:   storage,
		validator: validator,
		logger:    logger.Named("session"),
	}
}

func (s *SessionService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResultDTO, error) {
	payload.Login = strings.TrimSpace(payload.Login)
	if err := s.validator.Check(payload, loginRequiredMessage); err != nil {
		return nil, err
	}
	logger := s.logger.With(zap.String("login", payload.Login))

	resp, err := s.api.Login(ctx, payload.Login, payload.Password)
	if err != nil {
		logger.Warn("Вход не выполнен", zap.Error(err))
		return nil, apperrors.NewAuthError(apperrors.ErrInvalidCredentials.Error(), err)
	}
	if resp.AccessToken == "" || resp.User == nil {
		logger.Warn("Сервер не вернул токен или пользователя")
		return nil, apperrors.NewAuthError(apperrors.ErrInvalidCredentials.Error(), apperrors.ErrInvalidToken)
	}

	landing, ok := constants.LandingFor(resp.User.Role)
	if !ok {
		logger.Warn("Неизвестная роль пользователя", zap.String("role", resp.User.Role))
		return nil, apperrors.NewAuthError(apperrors.ErrUnknownRole.Error(), apperrors.ErrUnknownRole)
	}

	user := entities.SessionUser{
		UserID: resp.User.UserID.Value,
		Name:   resp.User.Name,
		Role:   resp.User.Role,
		Email:  resp.User.Email,
		Phone:  resp.User.Phone,
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	if err := s.storage.SetItem(ctx, constants.StorageKeyToken, resp.AccessToken); err != nil {
		logger.Error("Не удалось сохранить токен", zap.Error(err))
		return nil, err
	}
	if err := s.storage.SetItem(ctx, constants.StorageKeyUser, string(rawUser)); err != nil {
		logger.Error("Не удалось сохранить пользователя", zap.Error(err))
		// токен без пользователя оставил бы сессию, которую не пропустит ни одна страница
		if rmErr := s.storage.RemoveItem(ctx, constants.StorageKeyToken); rmErr != nil {
			logger.Error("Не удалось удалить токен", zap.Error(rmErr))
		}
		return nil, err
	}

	logger.Info("Пользователь вошёл", zap.Uint64("user_id", user.UserID), zap.String("role", user.Role))
	return &dto.AuthResultDTO{
		Token:   resp.AccessToken,
		User:    user,
		Role:    user.Role,
		Landing: landing,
	}, nil
}

// Logout только очищает локальное хранилище, сервер не вызывается.
func (s *SessionService) Logout(ctx context.Context) (string, error) {
	if err := s.storage.RemoveItem(ctx, constants.StorageKeyToken, constants.StorageKeyUser); err != nil {
		s.logger.Error("Не удалось очистить сессию", zap.Error(err))
		return "", err
	}
	s.logger.Info("Пользователь вышел")
	return constants.EntryPoint, nil
}

func (s *SessionService) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

func (s *SessionService) Token(ctx context.Context) string {
	token, _, err := s.storage.GetItem(ctx, constants.StorageKeyToken)
	if err != nil {
		s.logger.Warn("Не удалось прочитать токен", zap.Error(err))
		return ""
	}
	return token
}

func (s *SessionService) CurrentUser(ctx context.Context) (*entities.SessionUser, bool) {
	raw, found, err := s.storage.GetItem(ctx, constants.StorageKeyUser)
	if err != nil || !found || raw == "" {
		return nil, false
	}
	var user entities.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("Повреждена запись пользователя в хранилище", zap.Error(err))
		return nil, false
	}
	return &user, true
}

func (s *SessionService) CurrentRole(ctx context.Context) (string, bool) {
	user, ok := s.CurrentUser(ctx)
	if !ok || user.Role == "" {
		return "", false
	}
	return user.Role, true
}

// Info собирает состояние сессии. Токен разбирается без проверки подписи, ключа у консоли нет.
func (s *SessionService) Info(ctx context.Context) dto.SessionInfoDTO {
	info := dto.SessionInfoDTO{Authenticated: s.IsAuthenticated(ctx)}
	if !info.Authenticated {
		return info
	}
	if user, ok := s.CurrentUser(ctx); ok {
		info.User = user
		info.Role = user.Role
		info.Landing, _ = constants.LandingFor(user.Role)
	}

	token, _, err := jwt.NewParser().ParseUnverified(s.Token(ctx), jwt.MapClaims{})
	if err != nil {
		s.logger.Debug("Токен не разобран", zap.Error(err))
		return info
	}
	if sub, err := token.Claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.UTC().Format(time.RFC3339)
		info.Expired = time.Now().After(exp.Time)
	}
	return info
}
