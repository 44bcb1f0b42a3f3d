package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"request-console/internal/entities"
	"request-console/internal/integrations/backend"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/validation"
)

// fakeBackend реализует все интерфейсы API сервисов. Незаданная ручка отвечает транспортной ошибкой.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	login             func(login, password string) (backend.LoginResponse, error)
	filterRequests    func(f backend.FilterPayload) (backend.RequestsPage, error)
	createRequest     func(p backend.CreateRequestPayload) (backend.CreateRequestResponse, error)
	updateRequest     func(id uint64, p backend.RequestPatch) error
	deleteRequest     func(id uint64) (backend.DeleteRequestResponse, error)
	requestHistory    func(id uint64) ([]entities.RequestHistoryEntry, error)
	engineerStats     func(page, perPage int) (backend.EngineersPage, error)
	updateBalance     func(id uint64, b decimal.Decimal) (backend.BalanceResponse, error)
	balanceHistory    func(id uint64) ([]entities.BalanceHistoryEntry, error)
	registerUser      func(p backend.RegisterUserPayload) (uint64, error)
	userCredentials   func(id uint64) (entities.Credentials, error)
	deleteUser        func(id uint64) (backend.DeleteUserResponse, error)
	listUsers         func() ([]entities.User, error)
	engineerActive    func() (backend.EngineerRequests, error)
	engineerDay       func(date string) (backend.EngineerRequests, error)
	engineerCompleted func(page int) (backend.EngineerRequests, error)
	profile           func() (entities.Profile, error)
	balance           func(id uint64) (backend.BalanceResponse, error)
}

var errNotConfigured = &apperrors.TransportError{Endpoint: "fake", Message: "ручка не настроена"}

func (f *fakeBackend) record(format string, args ...interface{}) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	f.mu.Unlock()
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) Login(_ context.Context, login, password string) (backend.LoginResponse, error) {
	f.record("login %s", login)
	if f.login == nil {
		return backend.LoginResponse{}, errNotConfigured
	}
	return f.login(login, password)
}

func (f *fakeBackend) FilterRequests(_ context.Context, filter backend.FilterPayload) (backend.RequestsPage, error) {
	f.record("filter page=%d", filter.Page)
	if f.filterRequests == nil {
		return backend.RequestsPage{}, errNotConfigured
	}
	return f.filterRequests(filter)
}

func (f *fakeBackend) CreateRequest(_ context.Context, p backend.CreateRequestPayload) (backend.CreateRequestResponse, error) {
	f.record("create")
	if f.createRequest == nil {
		return backend.CreateRequestResponse{}, errNotConfigured
	}
	return f.createRequest(p)
}

func (f *fakeBackend) UpdateRequest(_ context.Context, id uint64, p backend.RequestPatch) error {
	f.record("update %d", id)
	if f.updateRequest == nil {
		return errNotConfigured
	}
	return f.updateRequest(id, p)
}

func (f *fakeBackend) DeleteRequest(_ context.Context, id uint64) (backend.DeleteRequestResponse, error) {
	f.record("delete %d", id)
	if f.deleteRequest == nil {
		return backend.DeleteRequestResponse{}, errNotConfigured
	}
	return f.deleteRequest(id)
}

func (f *fakeBackend) RequestHistory(_ context.Context, id uint64) ([]entities.RequestHistoryEntry, error) {
	f.record("history %d", id)
	if f.requestHistory == nil {
		return nil, errNotConfigured
	}
	return f.requestHistory(id)
}

func (f *fakeBackend) EngineerStats(_ context.Context, page, perPage int) (backend.EngineersPage, error) {
	f.record("stats page=%d", page)
	if f.engineerStats == nil {
		return backend.EngineersPage{}, errNotConfigured
	}
	return f.engineerStats(page, perPage)
}

func (f *fakeBackend) UpdateBalance(_ context.Context, id uint64, b decimal.Decimal) (backend.BalanceResponse, error) {
	f.record("balance %d %s", id, b.StringFixed(2))
	if f.updateBalance == nil {
		return backend.BalanceResponse{}, errNotConfigured
	}
	return f.updateBalance(id, b)
}

func (f *fakeBackend) BalanceHistory(_ context.Context, id uint64) ([]entities.BalanceHistoryEntry, error) {
	f.record("balance history %d", id)
	if f.balanceHistory == nil {
		return nil, errNotConfigured
	}
	return f.balanceHistory(id)
}

func (f *fakeBackend) RegisterUser(_ context.Context, p backend.RegisterUserPayload) (uint64, error) {
	f.record("register %s", p.Login)
	if f.registerUser == nil {
		return 0, errNotConfigured
	}
	return f.registerUser(p)
}

func (f *fakeBackend) UserCredentials(_ context.Context, id uint64) (entities.Credentials, error) {
	f.record("credentials %d", id)
	if f.userCredentials == nil {
		return entities.Credentials{}, errNotConfigured
	}
	return f.userCredentials(id)
}

func (f *fakeBackend) DeleteUser(_ context.Context, id uint64) (backend.DeleteUserResponse, error) {
	f.record("delete user %d", id)
	if f.deleteUser == nil {
		return backend.DeleteUserResponse{}, errNotConfigured
	}
	return f.deleteUser(id)
}

func (f *fakeBackend) ListUsers(_ context.Context) ([]entities.User, error) {
	f.record("users")
	if f.listUsers == nil {
		return nil, errNotConfigured
	}
	return f.listUsers()
}

func (f *fakeBackend) EngineerActive(_ context.Context) (backend.EngineerRequests, error) {
	f.record("active")
	if f.engineerActive == nil {
		return backend.EngineerRequests{}, errNotConfigured
	}
	return f.engineerActive()
}

func (f *fakeBackend) EngineerDay(_ context.Context, date string) (backend.EngineerRequests, error) {
	f.record("day %s", date)
	if f.engineerDay == nil {
		return backend.EngineerRequests{}, errNotConfigured
	}
	return f.engineerDay(date)
}

func (f *fakeBackend) EngineerCompleted(_ context.Context, page int) (backend.EngineerRequests, error) {
	f.record("completed page=%d", page)
	if f.engineerCompleted == nil {
		return backend.EngineerRequests{}, errNotConfigured
	}
	return f.engineerCompleted(page)
}

func (f *fakeBackend) Profile(_ context.Context) (entities.Profile, error) {
	f.record("profile")
	if f.profile == nil {
		return entities.Profile{}, errNotConfigured
	}
	return f.profile()
}

func (f *fakeBackend) Balance(_ context.Context, id uint64) (backend.BalanceResponse, error) {
	f.record("balance get %d", id)
	if f.balance == nil {
		return backend.BalanceResponse{}, errNotConfigured
	}
	return f.balance(id)
}

var (
	_ AuthAPI     = (*fakeBackend)(nil)
	_ RequestsAPI = (*fakeBackend)(nil)
	_ RosterAPI   = (*fakeBackend)(nil)
	_ DeskAPI     = (*fakeBackend)(nil)
)

// fakeUsers - фиксированный пользователь сессии.
type fakeUsers struct {
	user *entities.SessionUser
}

func (f fakeUsers) CurrentUser(context.Context) (*entities.SessionUser, bool) {
	return f.user, f.user != nil
}

func testDeps() (*validation.CustomValidator, *zap.Logger) {
	return validation.New(), zap.NewNop()
}

func request(id uint64, status int) entities.ServiceRequest {
	return entities.ServiceRequest{RequestID: id, StatusID: status}
}

func requestIDs(list []entities.ServiceRequest) []uint64 {
	out := make([]uint64, 0, len(list))
	for _, r := range list {
		out = append(out, r.RequestID)
	}
	return out
}
