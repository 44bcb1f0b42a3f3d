// Package lifecycle описывает статусы заявки и допустимые переходы между ними.
package lifecycle

import (
	"fmt"

	"request-console/internal/entities"
	"request-console/pkg/constants"
	apperrors "request-console/pkg/errors"
)

type Action string

const (
	ActionAssign   Action = "assign"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionDelete   Action = "delete"
	ActionEdit     Action = "edit"
)

// transitions - переходы, которые пользователь вызывает явным действием.
// Удаление и ручная правка менеджером разрешены из любого статуса и здесь не перечислены.
var transitions = map[Action]struct{ from, to int }{
	ActionAssign:   {constants.StatusNew, constants.StatusAssigned},
	ActionStart:    {constants.StatusAssigned, constants.StatusInProgress},
	ActionComplete: {constants.StatusInProgress, constants.StatusDone},
}

// Next возвращает статус после действия или ValidationError для недопустимого перехода.
func Next(from int, action Action) (int, error) {
	switch action {
	case ActionDelete:
		return constants.StatusDeleted, nil
	case ActionEdit:
		return from, nil
	case ActionAssign:
		// Переназначение уже назначенной заявки тоже оставляет её в статусе "назначена".
		if from == constants.StatusNew || from == constants.StatusAssigned {
			return constants.StatusAssigned, nil
		}
	default:
		if t, ok := transitions[action]; ok && t.from == from {
			return t.to, nil
		}
	}
	return from, apperrors.NewValidationError(
		"Недопустимый переход: %s -> %s", constants.StatusName(from), string(action),
	)
}

// DerivedCreateStatus - статус новой заявки. Сервер доверяет присланному значению.
func DerivedCreateStatus(engineerID *uint64) int {
	if engineerID != nil && *engineerID != 0 {
		return constants.StatusAssigned
	}
	return constants.StatusNew
}

// CheckConsistency проверяет согласованность статуса, отметок времени и инженера.
// Удалённая заявка согласована при любых отметках.
func CheckConsistency(r entities.ServiceRequest) error {
	if r.StatusID == constants.StatusDeleted {
		return nil
	}
	switch {
	case r.DoneTime.Valid && r.StatusID < constants.StatusDone:
		return inconsistent(r, "done_time")
	case r.InWorksTime.Valid && r.StatusID < constants.StatusInProgress:
		return inconsistent(r, "in_works_time")
	case r.AssignedTime.Valid && r.StatusID < constants.StatusAssigned:
		return inconsistent(r, "assigned_time")
	case r.EngineerID.Valid && r.StatusID < constants.StatusAssigned:
		return inconsistent(r, "engineer_id")
	}
	return nil
}

func inconsistent(r entities.ServiceRequest, field string) error {
	return fmt.Errorf("заявка %d: поле %s заполнено при статусе %d", r.RequestID, field, r.StatusID)
}
