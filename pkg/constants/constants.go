// pkg/constants/constants.go
package constants

//============== LOCAL STORAGE KEYS ==============

// Фиксированные ключи долговременного локального хранилища. Других данных консоль не сохраняет.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)

//============== ROUTES ==============

// Точки входа страниц по ролям.
const (
	EntryPoint      = "/"
	OperatorLanding = "/operator"
	EngineerLanding = "/engineer"
	ManagerLanding  = "/manager"
)

//============== BACKEND CONTRACT ==============

const (
	// Признак мягкого удаления заявки в ответе PUT /requests/delete/{id}.
	DeletedStatusMarker = "deleted"

	// Сообщение сервера об успешном изменении баланса.
	BalanceUpdatedMessage = "Balance updated successfully"

	// Расписание по умолчанию для нового инженера (сервер требует schedule при role_id=1).
	DefaultEngineerSchedule = "с пятницы по среду с 8 до 6"

	// Значения-заглушки, которые отправляются при создании сотрудника без телефона и почты.
	DefaultUserPhone = "89000000000"
	DefaultUserEmail = "test@example.com"

	// Нулевой баланс синтетической записи нового инженера.
	ZeroBalance = "0.00"
)

//============== DATE FORMATS ==============

const (
	// Локальное время без часового пояса, в таком виде даты уходят на сервер.
	NaiveDateTimeLayout = "2006-01-02T15:04:05"
	DateLayout          = "2006-01-02"
	// Формат отображения (ru-RU, день.месяц.год, часы:минуты).
	DisplayDateTimeLayout = "02.01.2006, 15:04"
)
