package services

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"request-console/internal/dto"
	"request-console/internal/entities"
	"request-console/internal/integrations/backend"
	"request-console/pkg/constants"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/metrics"
	"request-console/pkg/validation"
)

const (
	amountInvalidMessage  = "Введите корректную сумму"
	userRequiredMessage   = "Заполните все обязательные поля"
	allEngineersPerPage   = 10
	defaultRosterPerPage  = 6
	defaultMaxPages       = 100
	rosterCacheName       = "roster"
	balanceUpdateEndpoint = "PUT /balance/{id}"
	deleteUserEndpoint    = "DELETE /users/{id}"
)

type RosterServiceInterface interface {
	FetchEngineersPage(ctx context.Context, page, perPage int) backend.EngineersPage
	FetchAllEngineers(ctx context.Context) []entities.Engineer
	EngineerName(id uint64) (string, bool)
	Load(ctx context.Context) dto.RosterStateDTO
	LoadNextPage(ctx context.Context) (dto.RosterStateDTO, error)
	HasMore() bool
	AdjustBalance(ctx context.Context, engineerID uint64, in dto.AdjustBalanceDTO) (*dto.BalanceResultDTO, error)
	CreateUser(ctx context.Context, in dto.CreateUserDTO) (*dto.CreateUserResultDTO, error)
	RevealCredentials(ctx context.Context, userID uint64) (*dto.CredentialsViewDTO, error)
	CloseCredentials()
	DeleteUser(ctx context.Context, userID uint64) error
	LoadEmployees(ctx context.Context) []entities.User
	BalanceHistory(ctx context.Context, engineerID uint64) []entities.BalanceHistoryEntry
	Snapshot() dto.RosterStateDTO
}

// ComputeNewBalance считает абсолютный баланс из отображаемого. Нечисловой баланс считается нулём.
func ComputeNewBalance(displayed string, amount decimal.Decimal, direction string) decimal.Decimal {
	current, err := decimal.NewFromString(strings.TrimSpace(displayed))
	if err != nil {
		current = decimal.Zero
	}
	if direction == dto.BalanceSubtract {
		return current.Sub(amount)
	}
	return current.Add(amount)
}

// RosterService - страница сотрудников менеджера: инженеры с балансом, операторы и менеджеры.
type RosterService struct {
	api       RosterAPI
	validator *validation.CustomValidator
	logger    *zap.Logger
	perPage   int
	maxPages  int

	mu          sync.Mutex
	engineers   []entities.Engineer
	total       int
	currentPage int
	seq         uint64
	busy        bool

	allEngineers []entities.Engineer
	employees    []entities.User
	credentials  *dto.CredentialsViewDTO
}

func NewRosterService(
	api RosterAPI,
	validator *validation.CustomValidator,
	perPage, maxPages int,
	logger *zap.Logger,
) *RosterService {
	if perPage <= 0 {
		perPage = defaultRosterPerPage
	}
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &RosterService{
		api:       api,
		validator: validator,
		logger:    logger.Named("roster"),
		perPage:   perPage,
		maxPages:  maxPages,
	}
}

// FetchEngineersPage - чтение страницы статистики. Сбой даёт пустую страницу.
func (s *RosterService) FetchEngineersPage(ctx context.Context, page, perPage int) backend.EngineersPage {
	result, err := s.api.EngineerStats(ctx, page, perPage)
	if err != nil {
		s.logger.Warn("Ошибка при загрузке инженеров", zap.Int("page", page), zap.Error(err))
		return backend.EngineersPage{Engineers: []entities.Engineer{}, Total: 0}
	}
	return result
}

// FetchAllEngineers проходит страницы, пока не встретит пустую или неполную, но не дальше maxPages.
func (s *RosterService) FetchAllEngineers(ctx context.Context) []entities.Engineer {
	all := make([]entities.Engineer, 0)
	for page := 1; page <= s.maxPages; page++ {
		result := s.FetchEngineersPage(ctx, page, allEngineersPerPage)
		all = append(all, result.Engineers...)
		if len(result.Engineers) < allEngineersPerPage {
			break
		}
		if page == s.maxPages {
			s.logger.Warn("Достигнут предел страниц при загрузке инженеров", zap.Int("max_pages", s.maxPages))
		}
	}

	s.mu.Lock()
	s.allEngineers = append([]entities.Engineer(nil), all...)
	s.mu.Unlock()
	return all
}

// EngineerName ищет имя в последнем полном списке инженеров.
func (s *RosterService) EngineerName(id uint64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lists := range [][]entities.Engineer{s.allEngineers, s.engineers} {
		for _, e := range lists {
			if e.UserID == id {
				return e.EngineerName, true
			}
		}
	}
	return "", false
}

// Load сбрасывает список и загружает первую страницу.
func (s *RosterService) Load(ctx context.Context) dto.RosterStateDTO {
	s.mu.Lock()
	s.engineers = nil
	s.total = 0
	s.currentPage = 1
	s.seq++
	seq := s.seq
	s.busy = true
	s.mu.Unlock()

	result := s.FetchEngineersPage(ctx, 1, s.perPage)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.discardLocked(seq)
		return s.snapshotLocked()
	}
	s.engineers = result.Engineers
	s.total = result.Total
	s.busy = false
	return s.snapshotLocked()
}

func (s *RosterService) LoadNextPage(ctx context.Context) (dto.RosterStateDTO, error) {
	s.mu.Lock()
	if s.busy {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, apperrors.ErrBusy
	}
	s.currentPage++
	page := s.currentPage
	s.seq++
	seq := s.seq
	s.busy = true
	s.mu.Unlock()

	result := s.FetchEngineersPage(ctx, page, s.perPage)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.discardLocked(seq)
		return s.snapshotLocked(), nil
	}
	s.engineers = appendUnique(s.engineers, result.Engineers, engineerKey)
	s.total = result.Total
	s.busy = false
	return s.snapshotLocked(), nil
}

func engineerKey(e entities.Engineer) uint64 { return e.UserID }

func (s *RosterService) discardLocked(seq uint64) {
	s.logger.Info("Устаревший ответ отброшен", zap.Uint64("seq", seq), zap.Uint64("latest", s.seq))
	metrics.IncStaleResponse(rosterCacheName)
}

func (s *RosterService) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.engineers) < s.total
}

// AdjustBalance отправляет на сервер новый абсолютный баланс, посчитанный от отображаемого.
func (s *RosterService) AdjustBalance(ctx context.Context, engineerID uint64, in dto.AdjustBalanceDTO) (*dto.BalanceResultDTO, error) {
	in.Amount = strings.TrimSpace(strings.ReplaceAll(in.Amount, ",", "."))
	if err := s.validator.Check(in, amountInvalidMessage); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, apperrors.NewValidationError(amountInvalidMessage)
	}

	s.mu.Lock()
	displayed := s.displayedBalanceLocked(engineerID)
	s.mu.Unlock()

	newBalance := ComputeNewBalance(displayed, amount, in.Direction)
	logger := s.logger.With(
		zap.Uint64("engineer_id", engineerID),
		zap.String("old_balance", displayed),
		zap.String("new_balance", newBalance.StringFixed(2)),
	)

	resp, err := s.api.UpdateBalance(ctx, engineerID, newBalance)
	if err != nil {
		logger.Error("Ошибка при изменении баланса", zap.Error(err))
		return nil, err
	}
	if resp.Message != constants.BalanceUpdatedMessage {
		logger.Warn("Сервер не подтвердил изменение баланса", zap.String("message", resp.Message))
		return nil, apperrors.NewServerRejection(balanceUpdateEndpoint, "изменение баланса не подтверждено: %q", resp.Message)
	}

	fixed := newBalance.StringFixed(2)
	s.mu.Lock()
	for _, list := range [][]entities.Engineer{s.engineers, s.allEngineers} {
		for i := range list {
			if list[i].UserID == engineerID {
				list[i].Balance = fixed
			}
		}
	}
	s.mu.Unlock()

	logger.Info("Баланс изменён")
	return &dto.BalanceResultDTO{EngineerID: engineerID, Balance: fixed}, nil
}

func (s *RosterService) displayedBalanceLocked(engineerID uint64) string {
	for _, list := range [][]entities.Engineer{s.engineers, s.allEngineers} {
		for _, e := range list {
			if e.UserID == engineerID {
				return e.Balance
			}
		}
	}
	return ""
}

// CreateUser регистрирует сотрудника. Новый инженер сразу появляется в начале списка, без перезагрузки.
func (s *RosterService) CreateUser(ctx context.Context, in dto.CreateUserDTO) (*dto.CreateUserResultDTO, error) {
	in.Role = strings.TrimSpace(in.Role)
	in.Name = strings.TrimSpace(in.Name)
	in.Login = strings.TrimSpace(in.Login)
	in.Password = strings.TrimSpace(in.Password)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validator.Check(in, userRequiredMessage); err != nil {
		return nil, err
	}
	code, ok := constants.RoleCode(in.Role)
	if !ok {
		return nil, apperrors.NewValidationError("%s", apperrors.ErrUnknownRole.Error())
	}

	payload := backend.RegisterUserPayload{
		RoleID:   code,
		Name:     in.Name,
		Login:    in.Login,
		Password: in.Password,
		Phone:    in.Phone,
		Email:    in.Email,
	}
	if payload.Phone == "" {
		payload.Phone = constants.DefaultUserPhone
	}
	if payload.Email == "" {
		payload.Email = constants.DefaultUserEmail
	}
	if in.Role == constants.RoleEngineer {
		payload.Schedule = constants.DefaultEngineerSchedule
	}

	userID, err := s.api.RegisterUser(ctx, payload)
	if err != nil {
		s.logger.Error("Ошибка при создании сотрудника", zap.String("login", in.Login), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	switch in.Role {
	case constants.RoleEngineer:
		synthetic := entities.Engineer{
			UserID:       userID,
			EngineerName: in.Name,
			Balance:      constants.ZeroBalance,
		}
		s.engineers = append([]entities.Engineer{synthetic}, s.engineers...)
		s.allEngineers = append(s.allEngineers, synthetic)
		s.total++
	default:
		s.employees = append(s.employees, entities.User{
			UserID:   userID,
			Name:     in.Name,
			Role:     in.Role,
			Login:    in.Login,
			Email:    payload.Email,
			Phone:    payload.Phone,
			RoleName: constants.RoleName(in.Role),
		})
	}
	s.mu.Unlock()

	s.logger.Info("Сотрудник создан", zap.Uint64("user_id", userID), zap.String("role", in.Role))
	return &dto.CreateUserResultDTO{UserID: userID, Role: in.Role}, nil
}

// RevealCredentials открывает окно учётных данных одного пользователя.
func (s *RosterService) RevealCredentials(ctx context.Context, userID uint64) (*dto.CredentialsViewDTO, error) {
	s.mu.Lock()
	s.credentials = &dto.CredentialsViewDTO{UserID: userID}
	s.mu.Unlock()

	creds, err := s.api.UserCredentials(ctx, userID)
	if err != nil {
		s.logger.Warn("Ошибка при получении учётных данных", zap.Uint64("user_id", userID), zap.Error(err))
		s.mu.Lock()
		if s.credentials != nil && s.credentials.UserID == userID {
			s.credentials = nil
		}
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Пока шёл запрос, окно могли закрыть или открыть для другого пользователя.
	if s.credentials == nil || s.credentials.UserID != userID {
		return nil, apperrors.ErrStaleResponse
	}
	s.credentials.Login = creds.Login
	s.credentials.Password = creds.Password
	view := *s.credentials
	return &view, nil
}

func (s *RosterService) CloseCredentials() {
	s.mu.Lock()
	s.credentials = nil
	s.mu.Unlock()
}

// DeleteUser убирает сотрудника из списков, только если сервер вернул тот же user_id.
func (s *RosterService) DeleteUser(ctx context.Context, userID uint64) error {
	resp, err := s.api.DeleteUser(ctx, userID)
	if err != nil {
		s.logger.Error("Ошибка при удалении сотрудника", zap.Uint64("user_id", userID), zap.Error(err))
		return err
	}
	if !resp.UserID.Valid || resp.UserID.Value != userID {
		s.logger.Warn("Сервер не подтвердил удаление сотрудника",
			zap.Uint64("user_id", userID), zap.Uint64("response_user_id", resp.UserID.Value))
		return apperrors.NewServerRejection(deleteUserEndpoint, "удаление не подтверждено для user_id=%d", userID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.engineers)
	s.engineers = removeEngineer(s.engineers, userID)
	if len(s.engineers) < before && s.total > 0 {
		s.total--
	}
	s.allEngineers = removeEngineer(s.allEngineers, userID)
	employees := s.employees[:0]
	for _, u := range s.employees {
		if u.UserID != userID {
			employees = append(employees, u)
		}
	}
	s.employees = employees
	if s.credentials != nil && s.credentials.UserID == userID {
		s.credentials = nil
	}
	s.logger.Info("Сотрудник удалён", zap.Uint64("user_id", userID))
	return nil
}

func removeEngineer(list []entities.Engineer, id uint64) []entities.Engineer {
	out := list[:0]
	for _, e := range list {
		if e.UserID != id {
			out = append(out, e)
		}
	}
	return out
}

// LoadEmployees - операторы и менеджеры из GET /users/.
func (s *RosterService) LoadEmployees(ctx context.Context) []entities.User {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		s.logger.Warn("Ошибка при загрузке сотрудников", zap.Error(err))
		users = nil
	}
	employees := make([]entities.User, 0, len(users))
	for _, u := range users {
		if u.Role == constants.RoleOperator || u.Role == constants.RoleManager {
			employees = append(employees, u)
		}
	}

	s.mu.Lock()
	s.employees = append([]entities.User(nil), employees...)
	s.mu.Unlock()
	return employees
}

func (s *RosterService) BalanceHistory(ctx context.Context, engineerID uint64) []entities.BalanceHistoryEntry {
	history, err := s.api.BalanceHistory(ctx, engineerID)
	if err != nil {
		s.logger.Warn("Ошибка при загрузке истории баланса", zap.Uint64("engineer_id", engineerID), zap.Error(err))
		return []entities.BalanceHistoryEntry{}
	}
	return history
}

func (s *RosterService) Snapshot() dto.RosterStateDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *RosterService) snapshotLocked() dto.RosterStateDTO {
	return dto.RosterStateDTO{
		Engineers:   append([]entities.Engineer{}, s.engineers...),
		Total:       s.total,
		CurrentPage: s.currentPage,
		PerPage:     s.perPage,
		HasMore:     len(s.engineers) < s.total,
		Busy:        s.busy,
	}
}
