// Package pets управляет питомцами — покупаемыми усилителями дохода.
// models.go описывает каталог питомцев и владение ими.
package pets

import "time"

// Типы бустов. Каждый питомец усиливает ровно одну категорию дохода.
const (
	BoostClick     = "click"     // Доход от ежедневных кликов
	BoostReferral1 = "referral1" // Бонус за рефералов 1 уровня
	BoostReferral2 = "referral2" // Бонус за рефералов 2 уровня
	BoostTask      = "task"      // Награды за задания
)

// Pet — запись каталога питомцев.
type Pet struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`       // Цена в звёздах
	BoostType   string    `db:"boost_type"`  // Категория буста (см. константы выше)
	BoostValue  float64   `db:"boost_value"` // Прибавка за один уровень
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

// UserPet — владение питомцем. Одна запись на пару (пользователь, питомец):
// повторная покупка невозможна, улучшение увеличивает level на месте.
type UserPet struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	PetID     int64     `db:"pet_id"`
	Level     int       `db:"level"` // Всегда >= 1
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Pet *Pet `db:"-"` // Заполняется джойном при выборке
}

// OwnedBoost — срез владения для калькулятора бустов.
type OwnedBoost struct {
	BoostType  string
	BoostValue float64
	Level      int
}

// Операции журнала звёзд
const (
	OpPetBuy     = "pet_buy"
	OpPetUpgrade = "pet_upgrade"
)

// ValidBoostType проверяет, что категория буста известна.
func ValidBoostType(t string) bool {
	switch t {
	case BoostClick, BoostReferral1, BoostReferral2, BoostTask:
		return true
	}
	return false
}

// UpgradeCost возвращает стоимость улучшения питомца с уровня level.
// Стоимость растёт линейно: цена × текущий уровень.
func UpgradeCost(price float64, level int) float64 {
	return price * float64(level)
}
