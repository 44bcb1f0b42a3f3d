package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"request-console/internal/dto"
	"request-console/internal/entities"
	"request-console/internal/integrations/backend"
	"request-console/internal/lifecycle"
	"request-console/pkg/constants"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/utils"
	"request-console/pkg/validation"
)

const (
	calendarPastDays   = 7
	calendarFutureDays = 14
	statsScanPerPage   = 10
)

var weekdayShort = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// UserSource - текущий пользователь сессии.
type UserSource interface {
	CurrentUser(ctx context.Context) (*entities.SessionUser, bool)
}

type DeskServiceInterface interface {
	LoadActive(ctx context.Context) []entities.ServiceRequest
	SelectDay(ctx context.Context, date string) ([]entities.ServiceRequest, error)
	EventsForDay(day time.Time) []entities.ServiceRequest
	Days(now time.Time) []dto.DayDTO
	StartWork(ctx context.Context, id uint64) (*entities.ServiceRequest, error)
	Complete(ctx context.Context, id uint64) (*entities.ServiceRequest, error)
	LoadCompleted(ctx context.Context) dto.CompletedStateDTO
	LoadMoreCompleted(ctx context.Context) (dto.CompletedStateDTO, error)
	LoadStats(ctx context.Context) dto.EngineerStatsDTO
	Profile(ctx context.Context) entities.Profile
}

// DeskService - рабочее место инженера: свои заявки, календарь, выполненные и статистика.
type DeskService struct {
	api       DeskAPI
	users     UserSource
	validator *validation.CustomValidator
	logger    *zap.Logger
	maxPages  int
	now       func() time.Time

	mu          sync.Mutex
	engineerID  uint64
	requests    []entities.ServiceRequest
	selectedDay string

	completed      []entities.ServiceRequest
	completedTotal int
	completedPage  int
	completedSeq   uint64
	completedBusy  bool
}

func NewDeskService(
	api DeskAPI,
	users UserSource,
	validator *validation.CustomValidator,
	maxPages int,
	logger *zap.Logger,
) *DeskService {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &DeskService{
		api:       api,
		users:     users,
		validator: validator,
		logger:    logger.Named("desk"),
		maxPages:  maxPages,
		now:       time.Now,
	}
}

// LoadActive - назначенные и взятые в работу заявки инженера.
func (s *DeskService) LoadActive(ctx context.Context) []entities.ServiceRequest {
	result, err := s.api.EngineerActive(ctx)
	if err != nil {
		s.logger.Warn("Ошибка при загрузке активных заявок", zap.Error(err))
		result = backend.EngineerRequests{Requests: []entities.ServiceRequest{}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if result.EngineerID != 0 {
		s.engineerID = result.EngineerID
	}
	s.requests = result.Requests
	s.selectedDay = ""
	return append([]entities.ServiceRequest{}, s.requests...)
}

// SelectDay загружает заявки инженера за день YYYY-MM-DD.
func (s *DeskService) SelectDay(ctx context.Context, date string) ([]entities.ServiceRequest, error) {
	in := dto.SelectDayDTO{Date: strings.TrimSpace(date)}
	if err := s.validator.Check(in, "Некорректная дата"); err != nil {
		return nil, err
	}

	result, err := s.api.EngineerDay(ctx, in.Date)
	if err != nil {
		s.logger.Warn("Ошибка при загрузке заявок за день", zap.String("date", in.Date), zap.Error(err))
		result = backend.EngineerRequests{Requests: []entities.ServiceRequest{}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if result.EngineerID != 0 {
		s.engineerID = result.EngineerID
	}
	s.requests = result.Requests
	s.selectedDay = in.Date
	return append([]entities.ServiceRequest{}, s.requests...), nil
}

// EventsForDay - загруженные заявки, назначенные на календарный день day.
func (s *DeskService) EventsForDay(day time.Time) []entities.ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.ServiceRequest, 0)
	for _, r := range s.requests {
		t, ok := utils.ParseServerTime(r.AssignedTime.String)
		if ok && utils.SameDay(t, day) {
			out = append(out, r)
		}
	}
	return out
}

// Days - лента календаря: неделя назад и две недели вперёд.
func (s *DeskService) Days(now time.Time) []dto.DayDTO {
	days := make([]dto.DayDTO, 0, calendarPastDays+calendarFutureDays+1)
	for offset := -calendarPastDays; offset <= calendarFutureDays; offset++ {
		d := now.AddDate(0, 0, offset)
		days = append(days, dto.DayDTO{
			Date:    d.Format(constants.DateLayout),
			Day:     d.Day(),
			Weekday: weekdayShort[(int(d.Weekday())+6)%7],
			Today:   offset == 0,
		})
	}
	return days
}

func (s *DeskService) StartWork(ctx context.Context, id uint64) (*entities.ServiceRequest, error) {
	return s.advance(ctx, id, lifecycle.ActionStart)
}

func (s *DeskService) Complete(ctx context.Context, id uint64) (*entities.ServiceRequest, error) {
	return s.advance(ctx, id, lifecycle.ActionComplete)
}

// advance переводит свою заявку дальше по жизненному циклу. Локальная копия меняется только после ответа сервера.
func (s *DeskService) advance(ctx context.Context, id uint64, action lifecycle.Action) (*entities.ServiceRequest, error) {
	s.mu.Lock()
	r := s.findLocked(id)
	if r == nil {
		s.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}
	if s.engineerID != 0 && r.EngineerID.Valid && r.EngineerID.Uint64 != s.engineerID {
		s.mu.Unlock()
		return nil, apperrors.ErrForbidden
	}
	next, err := lifecycle.Next(r.StatusID, action)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	stamp := utils.FormatNaive(s.now())
	patch := backend.RequestPatch{StatusID: &next}
	if action == lifecycle.ActionStart {
		patch.InWorksTime = &stamp
	} else {
		patch.DoneTime = &stamp
	}

	logger := s.logger.With(zap.Uint64("request_id", id), zap.String("action", string(action)))
	if err := s.api.UpdateRequest(ctx, id, patch); err != nil {
		logger.Error("Ошибка при обновлении заявки", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r = s.findLocked(id)
	if r == nil {
		logger.Warn("Заявка пропала из списка до ответа сервера")
		return nil, fmt.Errorf("заявка %d не загружена: %w", id, apperrors.ErrNotFound)
	}
	applyPatch(r, patch)
	logger.Info("Статус заявки изменён", zap.Int("status_id", next))
	copied := *r
	return &copied, nil
}

func (s *DeskService) findLocked(id uint64) *entities.ServiceRequest {
	for i := range s.requests {
		if s.requests[i].RequestID == id {
			return &s.requests[i]
		}
	}
	return nil
}

// LoadCompleted загружает первую страницу выполненных заявок.
func (s *DeskService) LoadCompleted(ctx context.Context) dto.CompletedStateDTO {
	s.mu.Lock()
	s.completed = nil
	s.completedTotal = 0
	s.completedPage = 1
	s.completedSeq++
	seq := s.completedSeq
	s.completedBusy = true
	s.mu.Unlock()

	result := s.fetchCompleted(ctx, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.completedSeq {
		s.completed = result.Requests
		s.completedTotal = result.Total
		s.completedBusy = false
	}
	return s.completedLocked()
}

func (s *DeskService) LoadMoreCompleted(ctx context.Context) (dto.CompletedStateDTO, error) {
	s.mu.Lock()
	if s.completedBusy {
		state := s.completedLocked()
		s.mu.Unlock()
		return state, apperrors.ErrBusy
	}
	s.completedPage++
	page := s.completedPage
	s.completedSeq++
	seq := s.completedSeq
	s.completedBusy = true
	s.mu.Unlock()

	result := s.fetchCompleted(ctx, page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.completedSeq {
		s.completed = appendUnique(s.completed, result.Requests, requestKey)
		s.completedTotal = result.Total
		s.completedBusy = false
	}
	return s.completedLocked(), nil
}

func (s *DeskService) fetchCompleted(ctx context.Context, page int) backend.EngineerRequests {
	result, err := s.api.EngineerCompleted(ctx, page)
	if err != nil {
		s.logger.Warn("Ошибка при загрузке выполненных заявок", zap.Int("page", page), zap.Error(err))
		return backend.EngineerRequests{Requests: []entities.ServiceRequest{}}
	}
	return result
}

func (s *DeskService) completedLocked() dto.CompletedStateDTO {
	return dto.CompletedStateDTO{
		Requests: append([]entities.ServiceRequest{}, s.completed...),
		Total:    s.completedTotal,
		Page:     s.completedPage,
		HasMore:  len(s.completed) < s.completedTotal,
		Busy:     s.completedBusy,
	}
}

// LoadStats ищет строку инженера в статистике. Поиск идёт до совпадения, неполной страницы или предела страниц.
func (s *DeskService) LoadStats(ctx context.Context) dto.EngineerStatsDTO {
	id := s.currentEngineerID(ctx)
	stats := dto.EngineerStatsDTO{EngineerID: id}
	if id == 0 {
		return stats
	}
	for page := 1; page <= s.maxPages; page++ {
		result, err := s.api.EngineerStats(ctx, page, statsScanPerPage)
		if err != nil {
			s.logger.Warn("Ошибка при загрузке статистики", zap.Int("page", page), zap.Error(err))
			return stats
		}
		for _, e := range result.Engineers {
			if e.UserID == id {
				stats.ActiveRequests = e.ActiveRequests
				stats.CompletedInMonth = e.CompletedInMonth
				stats.Balance = e.Balance
				stats.Found = true
				return stats
			}
		}
		if len(result.Engineers) < statsScanPerPage {
			break
		}
	}
	return stats
}

func (s *DeskService) currentEngineerID(ctx context.Context) uint64 {
	if user, ok := s.users.CurrentUser(ctx); ok && user.UserID != 0 {
		return user.UserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engineerID
}

// Profile - профиль с сервера. При сбое отдаётся то, что известно из сессии.
func (s *DeskService) Profile(ctx context.Context) entities.Profile {
	profile, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.Warn("Ошибка при загрузке профиля", zap.Error(err))
		if user, ok := s.users.CurrentUser(ctx); ok {
			return entities.Profile{SessionUser: *user}
		}
		return entities.Profile{}
	}
	if profile.Balance == "" && profile.Role == constants.RoleEngineer && profile.UserID != 0 {
		if balance, err := s.api.Balance(ctx, profile.UserID); err == nil {
			profile.Balance = string(balance.Balance)
		} else {
			s.logger.Debug("Баланс не получен", zap.Error(err))
		}
	}
	return profile
}
