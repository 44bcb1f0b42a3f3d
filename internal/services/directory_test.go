package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"request-console/internal/dto"
	"request-console/internal/entities"
	"request-console/internal/integrations/backend"
	"request-console/pkg/constants"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/utils"
)

func newDirectory(api *fakeBackend) *DirectoryService {
	v, logger := testDeps()
	return NewDirectoryService(api, v, 2, logger)
}

// pagedRequests отдаёт заявки 1..total страницами по perPage.
func pagedRequests(total int) func(backend.FilterPayload) (backend.RequestsPage, error) {
	return func(f backend.FilterPayload) (backend.RequestsPage, error) {
		page := backend.RequestsPage{Requests: []entities.ServiceRequest{}, Total: total}
		start := (f.Page-1)*f.PerPage + 1
		for id := start; id < start+f.PerPage && id <= total; id++ {
			page.Requests = append(page.Requests, request(uint64(id), constants.StatusNew))
		}
		return page, nil
	}
}

func TestFilterFromForm(t *testing.T) {
	f := FilterFromForm(dto.FilterFormDTO{StartDate: "2024-05-01", EndDate: "2024-05-31"}, 10)
	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, "2024-05-01T00:00:00", *f.StartDate)
	assert.Equal(t, "2024-05-31T23:59:59", *f.EndDate)
	assert.Equal(t, constants.DefaultFilterStatuses, f.StatusIDs)
	assert.Equal(t, 1, f.Page)
	assert.Nil(t, f.EngineerID)

	f = FilterFromForm(dto.FilterFormDTO{StatusID: utils.ToPtr(3), StartDate: "2024-05-01T08:15"}, 10)
	assert.Equal(t, []int{3}, f.StatusIDs)
	assert.Equal(t, "2024-05-01T08:15:00", *f.StartDate)
	assert.Nil(t, f.EndDate)

	f = FilterFromForm(dto.FilterFormDTO{StatusIDs: []int{1, 5}, StatusID: utils.ToPtr(3), PerPage: 25}, 10)
	assert.Equal(t, []int{1, 5}, f.StatusIDs)
	assert.Equal(t, 25, f.PerPage)
}

func TestFilterFromForm_BadDates(t *testing.T) {
	v, _ := testDeps()
	form := dto.FilterFormDTO{StartDate: "вчера", EndDate: "31/05/2024"}

	err := v.Check(form, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "filter_date", vErr.Fields["start_date"])
	assert.Equal(t, "filter_date", vErr.Fields["end_date"])

	f := FilterFromForm(form, 10)
	assert.Nil(t, f.StartDate, "неразборчивая дата не уходит на сервер")
	assert.Nil(t, f.EndDate)

	assert.NoError(t, v.Check(dto.FilterFormDTO{StartDate: "2024-05-01", EndDate: "2024-05-31T18:00"}, ""))
	assert.Error(t, v.Check(dto.FilterFormDTO{StartDate: "2024-13-01"}, ""))
}

func TestDirectoryService_ApplyFiltersAndLoadMore(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{filterRequests: pagedRequests(5)}
	s := newDirectory(api)

	state := s.Load(ctx)
	assert.Equal(t, []uint64{1, 2}, requestIDs(state.Requests))
	assert.Equal(t, 5, state.Total)
	assert.True(t, state.HasMore)
	assert.False(t, state.Busy)

	state, err := s.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3, 4}, requestIDs(state.Requests))
	assert.Equal(t, 2, state.Page)

	state, err = s.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, requestIDs(state.Requests))
	assert.False(t, s.HasMore())

	// Новый фильтр сбрасывает страницу и кэш.
	state = s.ApplyFilters(ctx, Filter{StatusIDs: []int{constants.StatusNew}})
	assert.Equal(t, []uint64{1, 2}, requestIDs(state.Requests))
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 2, state.PerPage)
}

func TestDirectoryService_LoadMoreDeduplicates(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{filterRequests: func(f backend.FilterPayload) (backend.RequestsPage, error) {
		if f.Page == 1 {
			return backend.RequestsPage{Requests: []entities.ServiceRequest{request(1, 1), request(2, 1)}, Total: 3}, nil
		}
		// Между страницами появилась новая заявка, и заявка 2 сдвинулась на вторую страницу.
		return backend.RequestsPage{Requests: []entities.ServiceRequest{request(2, 1), request(3, 1)}, Total: 3}, nil
	}}
	s := newDirectory(api)

	s.Load(ctx)
	state, err := s.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, requestIDs(state.Requests))
}

func TestDirectoryService_LoadMoreBusy(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})

	api := &fakeBackend{filterRequests: func(f backend.FilterPayload) (backend.RequestsPage, error) {
		if f.Page > 1 {
			close(entered)
			<-release
		}
		return pagedRequests(10)(f)
	}}
	s := newDirectory(api)
	s.Load(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.LoadMore(ctx)
	}()
	<-entered

	state, err := s.LoadMore(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrBusy))
	assert.True(t, state.Busy)

	close(release)
	<-done
	assert.Equal(t, []uint64{1, 2, 3, 4}, requestIDs(s.Requests()))
	assert.Equal(t, 2, countCalls(api.Calls(), "filter"), "второй LoadMore не дошёл до сервера")
}

func TestDirectoryService_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})

	api := &fakeBackend{filterRequests: func(f backend.FilterPayload) (backend.RequestsPage, error) {
		if f.Page == 2 {
			close(entered)
			<-release
			return backend.RequestsPage{Requests: []entities.ServiceRequest{request(100, 1)}, Total: 50}, nil
		}
		if len(f.StatusIDs) == 1 && f.StatusIDs[0] == constants.StatusDone {
			return backend.RequestsPage{Requests: []entities.ServiceRequest{request(9, constants.StatusDone)}, Total: 1}, nil
		}
		return pagedRequests(10)(f)
	}}
	s := newDirectory(api)
	s.Load(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.LoadMore(ctx)
	}()
	<-entered

	// Фильтр применён, пока вторая страница старого фильтра ещё в пути.
	state := s.ApplyFilters(ctx, Filter{StatusIDs: []int{constants.StatusDone}})
	assert.Equal(t, []uint64{9}, requestIDs(state.Requests))

	close(release)
	<-done

	final := s.Snapshot()
	assert.Equal(t, []uint64{9}, requestIDs(final.Requests), "ответ старого фильтра отброшен")
	assert.Equal(t, 1, final.Total)
	assert.False(t, final.Busy)
}

func TestDirectoryService_ReadFailureIsNeutral(t *testing.T) {
	s := newDirectory(&fakeBackend{})
	state := s.Load(context.Background())
	assert.Empty(t, state.Requests)
	assert.NotNil(t, state.Requests)
	assert.Equal(t, 0, state.Total)
	assert.False(t, state.Busy)
}

func TestDirectoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("без инженера - статус 1, затем перечитывание", func(t *testing.T) {
		var sent backend.CreateRequestPayload
		api := &fakeBackend{
			filterRequests: pagedRequests(1),
			createRequest: func(p backend.CreateRequestPayload) (backend.CreateRequestResponse, error) {
				sent = p
				return backend.CreateRequestResponse{RequestID: backend.FlexUint64{Value: 1, Valid: true}}, nil
			},
		}
		s := newDirectory(api)

		res, err := s.Create(ctx, dto.CreateRequestDTO{
			Phone: " +7999 ", Address: "ул. Мира", Equipment: "Котёл", Description: "Шумит",
			AssignedTime: utils.ToPtr("2024-05-06T10:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, constants.StatusNew, res.StatusID)
		assert.EqualValues(t, 1, res.RequestID)

		assert.Equal(t, constants.StatusNew, sent.StatusID)
		assert.Nil(t, sent.EngineerID)
		assert.Equal(t, "+7999", sent.Phone)
		assert.Equal(t, "Котёл", sent.Techniq)
		assert.Equal(t, "2024-05-06T10:00:00", sent.AssignedTime)

		assert.Equal(t, []string{"create", "filter page=1"}, api.Calls())
		assert.Equal(t, []uint64{1}, requestIDs(s.Requests()))
	})

	t.Run("с инженером - статус 2", func(t *testing.T) {
		var sent backend.CreateRequestPayload
		api := &fakeBackend{
			filterRequests: pagedRequests(0),
			createRequest: func(p backend.CreateRequestPayload) (backend.CreateRequestResponse, error) {
				sent = p
				return backend.CreateRequestResponse{RequestID: backend.FlexUint64{Value: 2, Valid: true}}, nil
			},
		}
		s := newDirectory(api)

		res, err := s.Create(ctx, dto.CreateRequestDTO{
			Phone: "1", Address: "2", Equipment: "3", Description: "4", EngineerID: utils.ToPtr(uint64(7)),
		})
		require.NoError(t, err)
		assert.Equal(t, constants.StatusAssigned, res.StatusID)
		require.NotNil(t, sent.EngineerID)
		assert.EqualValues(t, 7, *sent.EngineerID)
	})

	t.Run("незаполненные поля", func(t *testing.T) {
		api := &fakeBackend{}
		s := newDirectory(api)

		_, err := s.Create(ctx, dto.CreateRequestDTO{Phone: "1", Address: "   ", Equipment: "3", Description: "4"})
		require.Error(t, err)
		assert.Equal(t, "Заполните все обязательные поля", err.Error())
		assert.Empty(t, api.Calls())
	})

	t.Run("ошибка сервера оставляет кэш", func(t *testing.T) {
		api := &fakeBackend{filterRequests: pagedRequests(2)}
		s := newDirectory(api)
		s.Load(ctx)

		_, err := s.Create(ctx, dto.CreateRequestDTO{Phone: "1", Address: "2", Equipment: "3", Description: "4"})
		assert.True(t, errors.Is(err, apperrors.ErrTransport))
		assert.Equal(t, []uint64{1, 2}, requestIDs(s.Requests()))
	})
}

func TestDirectoryService_Update(t *testing.T) {
	ctx := context.Background()
	var sent backend.RequestPatch
	api := &fakeBackend{
		filterRequests: pagedRequests(2),
		updateRequest: func(_ uint64, p backend.RequestPatch) error {
			sent = p
			return nil
		},
	}
	s := newDirectory(api)
	s.Load(ctx)

	_, err := s.StartEditing(1)
	require.NoError(t, err)

	updated, err := s.Update(ctx, 1, dto.UpdateRequestDTO{
		Address:      utils.ToPtr("новый адрес"),
		AssignedTime: utils.ToPtr("2024-05-06T09:00"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "новый адрес", updated.Address)
	assert.Equal(t, "2024-05-06T09:00:00", updated.AssignedTime.String)

	assert.Equal(t, map[string]interface{}{
		"adress":        "новый адрес",
		"assigned_time": "2024-05-06T09:00:00",
	}, sent.Wire())
	assert.Equal(t, uint64(0), s.Snapshot().EditingID)

	_, err = s.Update(ctx, 1, dto.UpdateRequestDTO{})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = s.Update(ctx, 1, dto.UpdateRequestDTO{StatusID: utils.ToPtr(42)})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestDirectoryService_UpdateLeavesFilter(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{
		filterRequests: pagedRequests(2),
		updateRequest:  func(uint64, backend.RequestPatch) error { return nil },
	}

	t.Run("удалённый статус убирает заявку из списка", func(t *testing.T) {
		s := newDirectory(api)
		s.Load(ctx)
		s.ToggleDetails(1)

		updated, err := s.Update(ctx, 1, dto.UpdateRequestDTO{StatusID: utils.ToPtr(constants.StatusDeleted)})
		require.NoError(t, err)
		assert.Equal(t, constants.StatusDeleted, updated.StatusID)

		state := s.Snapshot()
		assert.Equal(t, []uint64{2}, requestIDs(state.Requests))
		assert.Equal(t, 1, state.Total)
		assert.Zero(t, state.OpenedDetailsID)
	})

	t.Run("статус вне выбранных", func(t *testing.T) {
		s := newDirectory(api)
		s.ApplyFilters(ctx, Filter{StatusIDs: []int{constants.StatusNew}, Page: 1, PerPage: 2})

		_, err := s.Update(ctx, 2, dto.UpdateRequestDTO{StatusID: utils.ToPtr(constants.StatusInProgress)})
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, requestIDs(s.Requests()))
	})

	t.Run("подходящая правка остаётся в списке", func(t *testing.T) {
		s := newDirectory(api)
		s.Load(ctx)

		_, err := s.Update(ctx, 2, dto.UpdateRequestDTO{StatusID: utils.ToPtr(constants.StatusInProgress)})
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2}, requestIDs(s.Requests()))
		assert.Equal(t, 2, s.Snapshot().Total)
	})

	t.Run("назначение другого инженера при фильтре по инженеру", func(t *testing.T) {
		s := newDirectory(api)
		s.ApplyFilters(ctx, Filter{EngineerID: utils.ToPtr(uint64(3)), StatusIDs: constants.DefaultFilterStatuses, Page: 1, PerPage: 2})

		r, err := s.AssignEngineer(ctx, 1, dto.AssignEngineerDTO{EngineerID: 7, EngineerName: "Пётр"})
		require.NoError(t, err)
		assert.EqualValues(t, 7, r.EngineerID.Uint64)
		assert.Equal(t, []uint64{2}, requestIDs(s.Requests()))
		assert.Equal(t, 1, s.Snapshot().Total)
	})
}

func TestDirectoryService_WriteToUnloadedRequest(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{
		filterRequests: pagedRequests(2),
		updateRequest:  func(uint64, backend.RequestPatch) error { return nil },
	}
	s := newDirectory(api)
	s.Load(ctx)

	r, err := s.Update(ctx, 99, dto.UpdateRequestDTO{Phone: utils.ToPtr("+992900000000")})
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	r, err = s.AssignEngineer(ctx, 99, dto.AssignEngineerDTO{EngineerID: 7})
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.Equal(t, 2, countCalls(api.Calls(), "update 99"), "сервер изменение принял")
	assert.Equal(t, []uint64{1, 2}, requestIDs(s.Requests()))
}

func TestDirectoryService_AssignEngineer(t *testing.T) {
	ctx := context.Background()
	var sent backend.RequestPatch
	api := &fakeBackend{
		filterRequests: pagedRequests(2),
		updateRequest: func(_ uint64, p backend.RequestPatch) error {
			sent = p
			return nil
		},
	}
	s := newDirectory(api)
	s.Load(ctx)

	r, err := s.AssignEngineer(ctx, 2, dto.AssignEngineerDTO{EngineerID: 7, EngineerName: "Пётр"})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusAssigned, r.StatusID)
	assert.EqualValues(t, 7, r.EngineerID.Uint64)
	assert.Equal(t, "Пётр", r.EngineerName)
	assert.EqualValues(t, 7, *sent.EngineerID)
	assert.Equal(t, constants.StatusAssigned, *sent.StatusID)
}

func TestDirectoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("подтверждённое удаление закрывает открытые окна", func(t *testing.T) {
		api := &fakeBackend{
			filterRequests: func(backend.FilterPayload) (backend.RequestsPage, error) {
				return backend.RequestsPage{Requests: []entities.ServiceRequest{request(41, 1), request(42, 1)}, Total: 2}, nil
			},
			deleteRequest: func(uint64) (backend.DeleteRequestResponse, error) {
				return backend.DeleteRequestResponse{NewStatus: "deleted"}, nil
			},
			requestHistory: func(uint64) ([]entities.RequestHistoryEntry, error) {
				return []entities.RequestHistoryEntry{{Field: "status_id"}}, nil
			},
		}
		s := newDirectory(api)
		s.Load(ctx)
		assert.EqualValues(t, 42, s.ToggleDetails(42))
		opened, _ := s.ToggleHistory(ctx, 42)
		assert.EqualValues(t, 42, opened)

		require.NoError(t, s.Delete(ctx, 42))

		state := s.Snapshot()
		assert.Equal(t, []uint64{41}, requestIDs(state.Requests))
		assert.Equal(t, 1, state.Total)
		assert.Zero(t, state.OpenedDetailsID)
		assert.Zero(t, state.OpenedHistoryID)
	})

	t.Run("неподтверждённое удаление не меняет кэш", func(t *testing.T) {
		api := &fakeBackend{
			filterRequests: pagedRequests(2),
			deleteRequest: func(uint64) (backend.DeleteRequestResponse, error) {
				return backend.DeleteRequestResponse{Message: "ok", NewStatus: "active"}, nil
			},
		}
		s := newDirectory(api)
		s.Load(ctx)

		err := s.Delete(ctx, 2)
		assert.True(t, errors.Is(err, apperrors.ErrRejected))
		assert.Equal(t, []uint64{1, 2}, requestIDs(s.Requests()))
		assert.Equal(t, 2, s.Snapshot().Total)
	})
}

func TestDirectoryService_History(t *testing.T) {
	ctx := context.Background()
	fail := true
	api := &fakeBackend{requestHistory: func(uint64) ([]entities.RequestHistoryEntry, error) {
		if fail {
			return nil, errNotConfigured
		}
		return []entities.RequestHistoryEntry{{Field: "address", ChangedAt: time.Now().String()}}, nil
	}}
	s := newDirectory(api)

	entries := s.History(ctx, 5)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)

	fail = false
	entries = s.History(ctx, 5)
	require.Len(t, entries, 1, "неудачный ответ не кэшируется")

	fail = true
	entries = s.History(ctx, 5)
	assert.Len(t, entries, 1, "успешный ответ взят из кэша")
	assert.Equal(t, 2, countCalls(api.Calls(), "history"))

	opened, _ := s.ToggleHistory(ctx, 5)
	assert.EqualValues(t, 5, opened)
	opened, entries = s.ToggleHistory(ctx, 5)
	assert.Zero(t, opened)
	assert.Nil(t, entries)
}

func TestDirectoryService_HistoryKeptAfterEdit(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{
		filterRequests: pagedRequests(2),
		updateRequest:  func(uint64, backend.RequestPatch) error { return nil },
		requestHistory: func(uint64) ([]entities.RequestHistoryEntry, error) {
			return []entities.RequestHistoryEntry{{Field: "phone"}}, nil
		},
	}
	s := newDirectory(api)
	s.Load(ctx)

	require.Len(t, s.History(ctx, 1), 1)
	_, err := s.Update(ctx, 1, dto.UpdateRequestDTO{Phone: utils.ToPtr("+992900000001")})
	require.NoError(t, err)
	_, err = s.AssignEngineer(ctx, 1, dto.AssignEngineerDTO{EngineerID: 7})
	require.NoError(t, err)

	require.Len(t, s.History(ctx, 1), 1)
	assert.Equal(t, 1, countCalls(api.Calls(), "history"), "журнал запрашивается один раз за сессию")
}

func TestDirectoryService_Views(t *testing.T) {
	ctx := context.Background()
	s := newDirectory(&fakeBackend{filterRequests: pagedRequests(2)})
	s.Load(ctx)

	assert.EqualValues(t, 1, s.ToggleDetails(1))
	assert.EqualValues(t, 2, s.ToggleDetails(2), "открыто одно окно деталей")
	assert.Zero(t, s.ToggleDetails(2))

	_, err := s.StartEditing(99)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	r, err := s.StartEditing(2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, r.RequestID)
	assert.EqualValues(t, 2, s.Snapshot().EditingID)
	s.CancelEdit()
	assert.Zero(t, s.Snapshot().EditingID)
}

func countCalls(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
