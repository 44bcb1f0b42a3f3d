package lifecycle

import (
	"errors"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"request-console/internal/entities"
	"request-console/pkg/constants"
	apperrors "request-console/pkg/errors"
)

func TestNext(t *testing.T) {
	cases := []struct {
		name    string
		from    int
		action  Action
		want    int
		wantErr bool
	}{
		{"назначение новой", constants.StatusNew, ActionAssign, constants.StatusAssigned, false},
		{"переназначение", constants.StatusAssigned, ActionAssign, constants.StatusAssigned, false},
		{"начало работы", constants.StatusAssigned, ActionStart, constants.StatusInProgress, false},
		{"завершение", constants.StatusInProgress, ActionComplete, constants.StatusDone, false},
		{"удаление из любого статуса", constants.StatusInProgress, ActionDelete, constants.StatusDeleted, false},
		{"правка сохраняет статус", constants.StatusDone, ActionEdit, constants.StatusDone, false},
		{"нельзя начать новую", constants.StatusNew, ActionStart, constants.StatusNew, true},
		{"нельзя завершить назначенную", constants.StatusAssigned, ActionComplete, constants.StatusAssigned, true},
		{"нельзя назначить в работе", constants.StatusInProgress, ActionAssign, constants.StatusInProgress, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next(tc.from, tc.action)
			assert.Equal(t, tc.want, got)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDerivedCreateStatus(t *testing.T) {
	id := uint64(7)
	zero := uint64(0)
	assert.Equal(t, constants.StatusAssigned, DerivedCreateStatus(&id))
	assert.Equal(t, constants.StatusNew, DerivedCreateStatus(nil))
	assert.Equal(t, constants.StatusNew, DerivedCreateStatus(&zero))
}

func TestCheckConsistency(t *testing.T) {
	ok := entities.ServiceRequest{
		RequestID:    1,
		StatusID:     constants.StatusInProgress,
		EngineerID:   null.Uint64From(3),
		AssignedTime: null.StringFrom("2024-05-01T10:00:00"),
		InWorksTime:  null.StringFrom("2024-05-01T11:00:00"),
	}
	assert.NoError(t, CheckConsistency(ok))

	doneEarly := ok
	doneEarly.DoneTime = null.StringFrom("2024-05-01T12:00:00")
	assert.Error(t, CheckConsistency(doneEarly))

	engineerOnNew := entities.ServiceRequest{RequestID: 2, StatusID: constants.StatusNew, EngineerID: null.Uint64From(5)}
	assert.Error(t, CheckConsistency(engineerOnNew))

	deleted := doneEarly
	deleted.StatusID = constants.StatusDeleted
	assert.NoError(t, CheckConsistency(deleted))
}
