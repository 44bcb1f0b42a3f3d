// internal/authz/permissions.go
package authz

import (
	"request-console/internal/lifecycle"
	"request-console/pkg/constants"
)

// --- КТО КАКИЕ ДЕЙСТВИЯ С ЗАЯВКАМИ ВИДИТ В ИНТЕРФЕЙСЕ ---
// Это соглашение консоли: она просто не показывает чужие элементы управления.
// Проверку прав выполняет сервер.
var roleActions = map[string]map[lifecycle.Action]bool{
	constants.RoleManager: {
		lifecycle.ActionAssign: true,
		lifecycle.ActionEdit:   true,
		lifecycle.ActionDelete: true,
	},
	constants.RoleOperator: {
		lifecycle.ActionAssign: true,
		lifecycle.ActionEdit:   true,
	},
	constants.RoleEngineer: {
		lifecycle.ActionStart:    true,
		lifecycle.ActionComplete: true,
	},
}

// Роли страниц.
var (
	OperatorPage = []string{constants.RoleOperator}
	EngineerPage = []string{constants.RoleEngineer}
	ManagerPage  = []string{constants.RoleManager}
	// Список заявок и форма создания есть и у оператора, и у менеджера.
	DirectoryPage = []string{constants.RoleOperator, constants.RoleManager}
)
