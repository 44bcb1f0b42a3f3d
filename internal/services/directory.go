package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"request-console/internal/dto"
	"request-console/internal/entities"
	"request-console/internal/integrations/backend"
	"request-console/internal/lifecycle"
	"request-console/pkg/constants"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/metrics"
	"request-console/pkg/utils"
	"request-console/pkg/validation"
)

const (
	createRequiredMessage = "Заполните все обязательные поля"
	directoryCacheName    = "directory"
)

// Filter - параметры POST /requests/filter.
type Filter = backend.FilterPayload

type DirectoryServiceInterface interface {
	FetchPage(ctx context.Context, filter Filter) backend.RequestsPage
	Load(ctx context.Context) dto.DirectoryStateDTO
	ApplyFilters(ctx context.Context, filter Filter) dto.DirectoryStateDTO
	LoadMore(ctx context.Context) (dto.DirectoryStateDTO, error)
	HasMore() bool
	Create(ctx context.Context, in dto.CreateRequestDTO) (*dto.CreateRequestResultDTO, error)
	Update(ctx context.Context, id uint64, in dto.UpdateRequestDTO) (*entities.ServiceRequest, error)
	AssignEngineer(ctx context.Context, id uint64, in dto.AssignEngineerDTO) (*entities.ServiceRequest, error)
	Delete(ctx context.Context, id uint64) error
	ToggleHistory(ctx context.Context, id uint64) (uint64, []entities.RequestHistoryEntry)
	History(ctx context.Context, id uint64) []entities.RequestHistoryEntry
	ToggleDetails(id uint64) uint64
	StartEditing(id uint64) (*entities.ServiceRequest, error)
	CancelEdit()
	Snapshot() dto.DirectoryStateDTO
	Requests() []entities.ServiceRequest
}

// DefaultFilter - все статусы, кроме удалённых, первая страница.
func DefaultFilter(perPage int) Filter {
	if perPage <= 0 {
		perPage = 10
	}
	return Filter{
		StatusIDs: append([]int(nil), constants.DefaultFilterStatuses...),
		Page:      1,
		PerPage:   perPage,
	}
}

// FilterFromForm переводит форму фильтра в параметры запроса.
// Дата без времени расширяется до начала (для start) или конца (для end) дня.
// Неразборчивая дата на сервер не уходит; форму до этого проверяет тег filter_date.
func FilterFromForm(form dto.FilterFormDTO, perPage int) Filter {
	if form.PerPage > 0 {
		perPage = form.PerPage
	}
	f := DefaultFilter(perPage)
	f.EngineerID = form.EngineerID

	switch {
	case len(form.StatusIDs) > 0:
		f.StatusIDs = append([]int(nil), form.StatusIDs...)
	case form.StatusID != nil:
		f.StatusIDs = []int{*form.StatusID}
	}

	f.StartDate = expandDate(form.StartDate, "T00:00:00")
	f.EndDate = expandDate(form.EndDate, "T23:59:59")
	return f
}

func expandDate(value, dayBound string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	expanded, ok := utils.ExpandFilterDate(value, dayBound)
	if !ok {
		return nil
	}
	return &expanded
}

// DirectoryService - кэш списка заявок с фильтром и постраничной подгрузкой.
//
// Каждая загрузка получает номер. Ответ применяется, только если его номер последний
// из выданных; более ранние ответы отбрасываются. Так фильтр, применённый во время
// подгрузки, не смешивается со старыми страницами.
type DirectoryService struct {
	api       RequestsAPI
	validator *validation.CustomValidator
	logger    *zap.Logger

	mu          sync.Mutex
	requests    []entities.ServiceRequest
	total       int
	filter      Filter // текущий, с номером страницы
	lastApplied Filter // последний применённый, page = 1
	seq         uint64
	busy        bool

	openedDetailsID uint64
	editingID       uint64
	openedHistoryID uint64
	history         map[uint64][]entities.RequestHistoryEntry
}

func NewDirectoryService(
	api RequestsAPI,
	validator *validation.CustomValidator,
	perPage int,
	logger *zap.Logger,
) *DirectoryService {
	f := DefaultFilter(perPage)
	return &DirectoryService{
		api:         api,
		validator:   validator,
		logger:      logger.Named("directory"),
		filter:      f,
		lastApplied: f,
		history:     make(map[uint64][]entities.RequestHistoryEntry),
	}
}

// FetchPage - чтение страницы. Любой сбой превращается в пустой результат.
func (s *DirectoryService) FetchPage(ctx context.Context, filter Filter) backend.RequestsPage {
	page, err := s.api.FilterRequests(ctx, filter)
	if err != nil {
		s.logger.Warn("Ошибка при загрузке заявок", zap.Int("page", filter.Page), zap.Error(err))
		return backend.RequestsPage{Requests: []entities.ServiceRequest{}, Total: 0}
	}
	for _, r := range page.Requests {
		if err := lifecycle.CheckConsistency(r); err != nil {
			s.logger.Warn("Несогласованная заявка от сервера", zap.Error(err))
		}
	}
	return page
}

// Load загружает первую страницу по последнему применённому фильтру.
func (s *DirectoryService) Load(ctx context.Context) dto.DirectoryStateDTO {
	s.mu.Lock()
	filter := s.lastApplied
	s.mu.Unlock()
	return s.ApplyFilters(ctx, filter)
}

// ApplyFilters сбрасывает кэш и страницу и загружает первую страницу нового фильтра.
func (s *DirectoryService) ApplyFilters(ctx context.Context, filter Filter) dto.DirectoryStateDTO {
	if filter.PerPage <= 0 {
		filter.PerPage = s.lastApplied.PerPage
	}
	if len(filter.StatusIDs) == 0 {
		filter.StatusIDs = append([]int(nil), constants.DefaultFilterStatuses...)
	}
	filter.Page = 1

	s.mu.Lock()
	s.requests = nil
	s.total = 0
	s.filter = filter
	s.lastApplied = filter
	seq := s.beginLocked()
	s.mu.Unlock()

	page := s.FetchPage(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.applicableLocked(seq) {
		return s.snapshotLocked()
	}
	s.requests = page.Requests
	s.total = page.Total
	s.busy = false
	return s.snapshotLocked()
}

// LoadMore подгружает следующую страницу. Пока идёт загрузка, повторный вызов ничего не делает.
func (s *DirectoryService) LoadMore(ctx context.Context) (dto.DirectoryStateDTO, error) {
	s.mu.Lock()
	if s.busy {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, apperrors.ErrBusy
	}
	s.filter.Page++
	filter := s.filter
	seq := s.beginLocked()
	s.mu.Unlock()

	page := s.FetchPage(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.applicableLocked(seq) {
		return s.snapshotLocked(), nil
	}
	s.requests = appendUnique(s.requests, page.Requests, requestKey)
	s.total = page.Total
	s.busy = false
	return s.snapshotLocked(), nil
}

func (s *DirectoryService) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests) < s.total
}

func (s *DirectoryService) beginLocked() uint64 {
	s.seq++
	s.busy = true
	return s.seq
}

// applicableLocked - можно ли применить ответ загрузки seq.
func (s *DirectoryService) applicableLocked(seq uint64) bool {
	if seq == s.seq {
		return true
	}
	s.logger.Info("Устаревший ответ отброшен", zap.Uint64("seq", seq), zap.Uint64("latest", s.seq))
	metrics.IncStaleResponse(directoryCacheName)
	return false
}

// appendUnique дописывает страницу, пропуская записи, которые уже есть в кэше.
func appendUnique[T any](cached, page []T, key func(T) uint64) []T {
	seen := make(map[uint64]struct{}, len(cached))
	for _, item := range cached {
		seen[key(item)] = struct{}{}
	}
	for _, item := range page {
		if _, ok := seen[key(item)]; ok {
			continue
		}
		seen[key(item)] = struct{}{}
		cached = append(cached, item)
	}
	return cached
}

func requestKey(r entities.ServiceRequest) uint64 { return r.RequestID }

// Create отправляет новую заявку и после успеха перечитывает первую страницу текущего фильтра.
func (s *DirectoryService) Create(ctx context.Context, in dto.CreateRequestDTO) (*dto.CreateRequestResultDTO, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Equipment = strings.TrimSpace(in.Equipment)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validator.Check(in, createRequiredMessage); err != nil {
		return nil, err
	}

	status := lifecycle.DerivedCreateStatus(in.EngineerID)
	payload := backend.CreateRequestPayload{
		StatusID:     status,
		Phone:        in.Phone,
		Address:      in.Address,
		Techniq:      in.Equipment,
		Description:  in.Description,
		CustomerName: strings.TrimSpace(in.CustomerName),
	}
	if status == constants.StatusAssigned {
		payload.EngineerID = in.EngineerID
	}
	if in.AssignedTime != nil {
		if t, ok := utils.NormalizeNaive(*in.AssignedTime); ok {
			payload.AssignedTime = t
		}
	}

	resp, err := s.api.CreateRequest(ctx, payload)
	if err != nil {
		s.logger.Error("Ошибка при создании заявки", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Заявка создана", zap.Uint64("request_id", resp.RequestID.Value), zap.Int("status_id", status))

	s.Load(ctx)

	return &dto.CreateRequestResultDTO{
		RequestID:    resp.RequestID.Value,
		StatusID:     status,
		CreationDate: string(resp.CreationDate),
	}, nil
}

// Update отправляет изменённые поля и после успеха правит кэшированную копию на месте.
// Если заявка перестала подходить под фильтр (например, status_id = 5), она убирается из кэша.
func (s *DirectoryService) Update(ctx context.Context, id uint64, in dto.UpdateRequestDTO) (*entities.ServiceRequest, error) {
	if err := s.validator.Check(in, ""); err != nil {
		return nil, err
	}
	patch := backend.RequestPatch{
		StatusID:     in.StatusID,
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		Address:      in.Address,
		Equipment:    in.Equipment,
		Description:  in.Description,
		CreationDate: normalizePtr(in.CreationDate),
		AssignedTime: normalizePtr(in.AssignedTime),
		InWorksTime:  normalizePtr(in.InWorksTime),
		DoneTime:     normalizePtr(in.DoneTime),
	}
	if patch.Empty() {
		return nil, apperrors.NewValidationError("Нет данных для обновления")
	}

	if err := s.api.UpdateRequest(ctx, id, patch); err != nil {
		s.logger.Error("Ошибка при обновлении заявки", zap.Uint64("request_id", id), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == id {
		s.editingID = 0
	}
	updated := s.patchLocked(id, patch)
	if updated == nil {
		return nil, s.notCachedLocked(id)
	}
	s.evictIfFilteredOutLocked(*updated)
	return updated, nil
}

// AssignEngineer назначает инженера: engineer_id и status_id = 2.
func (s *DirectoryService) AssignEngineer(ctx context.Context, id uint64, in dto.AssignEngineerDTO) (*entities.ServiceRequest, error) {
	if err := s.validator.Check(in, "Выберите инженера"); err != nil {
		return nil, err
	}
	status := constants.StatusAssigned
	patch := backend.RequestPatch{EngineerID: &in.EngineerID, StatusID: &status}

	if err := s.api.UpdateRequest(ctx, id, patch); err != nil {
		s.logger.Error("Ошибка при назначении инженера", zap.Uint64("request_id", id), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.findLocked(id)
	if r == nil {
		return nil, s.notCachedLocked(id)
	}
	applyPatch(r, patch)
	r.EngineerName = in.EngineerName
	copied := *r
	s.evictIfFilteredOutLocked(copied)
	return &copied, nil
}

// Delete - мягкое удаление. Заявка убирается из кэша только при new_status == "deleted".
func (s *DirectoryService) Delete(ctx context.Context, id uint64) error {
	const endpoint = "PUT /requests/delete/{id}"
	resp, err := s.api.DeleteRequest(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка при удалении заявки", zap.Uint64("request_id", id), zap.Error(err))
		return err
	}
	if resp.NewStatus != constants.DeletedStatusMarker {
		s.logger.Warn("Сервер не подтвердил удаление", zap.Uint64("request_id", id), zap.String("new_status", resp.NewStatus))
		return apperrors.NewServerRejection(endpoint, "удаление не подтверждено: new_status=%q", resp.NewStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(id)
	s.logger.Info("Заявка удалена", zap.Uint64("request_id", id))
	return nil
}

// dropLocked убирает заявку из кэша, уменьшает total и закрывает её панели.
func (s *DirectoryService) dropLocked(id uint64) {
	for i := range s.requests {
		if s.requests[i].RequestID == id {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			if s.total > 0 {
				s.total--
			}
			break
		}
	}
	if s.openedDetailsID == id {
		s.openedDetailsID = 0
	}
	if s.editingID == id {
		s.editingID = 0
	}
	if s.openedHistoryID == id {
		s.openedHistoryID = 0
	}
	delete(s.history, id)
}

// matchesFilterLocked - попала бы заявка в выдачу последнего применённого фильтра.
// Даты не проверяются: их сравнивает сервер.
func (s *DirectoryService) matchesFilterLocked(r entities.ServiceRequest) bool {
	f := s.lastApplied
	if len(f.StatusIDs) > 0 && !slices.Contains(f.StatusIDs, r.StatusID) {
		return false
	}
	if f.EngineerID != nil && (!r.EngineerID.Valid || r.EngineerID.Uint64 != *f.EngineerID) {
		return false
	}
	return true
}

// evictIfFilteredOutLocked убирает изменённую заявку, если она больше не подходит под фильтр.
func (s *DirectoryService) evictIfFilteredOutLocked(r entities.ServiceRequest) {
	if s.matchesFilterLocked(r) {
		return
	}
	s.logger.Info("Заявка больше не подходит под фильтр", zap.Uint64("request_id", r.RequestID), zap.Int("status_id", r.StatusID))
	s.dropLocked(r.RequestID)
}

// notCachedLocked - сервер принял изменение, но заявки нет в загруженном списке.
func (s *DirectoryService) notCachedLocked(id uint64) error {
	s.logger.Warn("Изменённой заявки нет в кэше", zap.Uint64("request_id", id))
	return fmt.Errorf("заявка %d не загружена: %w", id, apperrors.ErrNotFound)
}

// ToggleHistory открывает или закрывает журнал заявки. Возвращает открытый id (0 - закрыт).
func (s *DirectoryService) ToggleHistory(ctx context.Context, id uint64) (uint64, []entities.RequestHistoryEntry) {
	s.mu.Lock()
	if s.openedHistoryID == id {
		s.openedHistoryID = 0
		s.mu.Unlock()
		return 0, nil
	}
	if cached, ok := s.history[id]; ok {
		s.openedHistoryID = id
		s.mu.Unlock()
		return id, cached
	}
	s.mu.Unlock()

	entries := s.History(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.openedHistoryID = id
	return id, entries
}

// History возвращает журнал из кэша или с сервера. В кэш попадает только успешный ответ.
func (s *DirectoryService) History(ctx context.Context, id uint64) []entities.RequestHistoryEntry {
	s.mu.Lock()
	if cached, ok := s.history[id]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	entries, err := s.api.RequestHistory(ctx, id)
	if err != nil {
		s.logger.Warn("Ошибка при получении истории", zap.Uint64("request_id", id), zap.Error(err))
		return []entities.RequestHistoryEntry{}
	}

	s.mu.Lock()
	s.history[id] = entries
	s.mu.Unlock()
	return entries
}

func (s *DirectoryService) ToggleDetails(id uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openedDetailsID == id {
		s.openedDetailsID = 0
	} else {
		s.openedDetailsID = id
	}
	return s.openedDetailsID
}

func (s *DirectoryService) StartEditing(id uint64) (*entities.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.findLocked(id)
	if r == nil {
		return nil, apperrors.ErrNotFound
	}
	s.editingID = id
	copied := *r
	return &copied, nil
}

func (s *DirectoryService) CancelEdit() {
	s.mu.Lock()
	s.editingID = 0
	s.mu.Unlock()
}

func (s *DirectoryService) Snapshot() dto.DirectoryStateDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Requests - копия кэша.
func (s *DirectoryService) Requests() []entities.ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ServiceRequest(nil), s.requests...)
}

func (s *DirectoryService) snapshotLocked() dto.DirectoryStateDTO {
	requests := append([]entities.ServiceRequest{}, s.requests...)
	return dto.DirectoryStateDTO{
		Requests:        requests,
		Total:           s.total,
		Page:            s.filter.Page,
		PerPage:         s.filter.PerPage,
		HasMore:         len(s.requests) < s.total,
		Busy:            s.busy,
		OpenedDetailsID: s.openedDetailsID,
		EditingID:       s.editingID,
		OpenedHistoryID: s.openedHistoryID,
	}
}

func (s *DirectoryService) findLocked(id uint64) *entities.ServiceRequest {
	for i := range s.requests {
		if s.requests[i].RequestID == id {
			return &s.requests[i]
		}
	}
	return nil
}

// patchLocked применяет изменения к кэшированной заявке и возвращает её копию (nil, если её нет в кэше).
func (s *DirectoryService) patchLocked(id uint64, patch backend.RequestPatch) *entities.ServiceRequest {
	r := s.findLocked(id)
	if r == nil {
		return nil
	}
	applyPatch(r, patch)
	copied := *r
	return &copied
}

func applyPatch(r *entities.ServiceRequest, p backend.RequestPatch) {
	if p.StatusID != nil {
		r.StatusID = *p.StatusID
	}
	if p.EngineerID != nil {
		r.EngineerID.SetValid(*p.EngineerID)
	}
	if p.CustomerName != nil {
		r.CustomerName = *p.CustomerName
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Address != nil {
		r.Address = *p.Address
	}
	if p.Equipment != nil {
		r.Equipment = *p.Equipment
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.CreationDate != nil {
		r.CreationDate.SetValid(*p.CreationDate)
	}
	if p.AssignedTime != nil {
		r.AssignedTime.SetValid(*p.AssignedTime)
	}
	if p.InWorksTime != nil {
		r.InWorksTime.SetValid(*p.InWorksTime)
	}
	if p.DoneTime != nil {
		r.DoneTime.SetValid(*p.DoneTime)
	}
}

func normalizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	if v, ok := utils.NormalizeNaive(*s); ok {
		return &v
	}
	return nil
}
