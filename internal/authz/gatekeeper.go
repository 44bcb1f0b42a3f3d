package authz

import (
	"slices"

	"request-console/internal/lifecycle"
	"request-console/pkg/constants"
)

type Verdict int

const (
	Allow Verdict = iota
	RedirectUnauthenticated
	RedirectForbiddenRole
)

// Decision - результат проверки доступа к странице.
type Decision struct {
	Verdict  Verdict `json:"-"`
	Redirect string  `json:"redirect,omitempty"`
}

func (d Decision) Allowed() bool { return d.Verdict == Allow }

// Decide - чистая функция от состояния сессии и объявленных ролей маршрута. Сеть не нужна.
// Пустой allowed пускает любого вошедшего пользователя.
func Decide(authenticated bool, role string, allowed []string) Decision {
	if !authenticated {
		return Decision{Verdict: RedirectUnauthenticated, Redirect: constants.EntryPoint}
	}
	if len(allowed) > 0 && !slices.Contains(allowed, role) {
		return Decision{Verdict: RedirectForbiddenRole, Redirect: constants.EntryPoint}
	}
	return Decision{Verdict: Allow}
}

// Can - показывает ли консоль роли элемент управления для действия.
func Can(role string, action lifecycle.Action) bool {
	return roleActions[role][action]
}
