package constants

const (
	RoleOperator = "operator"
	RoleEngineer = "engineer"
	RoleManager  = "manager"
)

// Числовые коды ролей для POST /users/register.
var roleCodes = map[string]int{
	RoleEngineer: 1,
	RoleOperator: 2,
	RoleManager:  3,
}

var roleNames = map[string]string{
	RoleOperator: "Оператор",
	RoleEngineer: "Инженер",
	RoleManager:  "Менеджер",
}

// RoleCode возвращает серверный код роли и false для неизвестной роли.
func RoleCode(role string) (int, bool) {
	code, ok := roleCodes[role]
	return code, ok
}

// RoleName - название роли для навигации.
func RoleName(role string) string {
	if name, ok := roleNames[role]; ok {
		return name
	}
	return "Неизвестная роль"
}

// LandingFor возвращает страницу роли после входа.
func LandingFor(role string) (string, bool) {
	switch role {
	case RoleOperator:
		return OperatorLanding, true
	case RoleEngineer:
		return EngineerLanding, true
	case RoleManager:
		return ManagerLanding, true
	}
	return "", false
}
