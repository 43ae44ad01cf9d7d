// Package rewards — ежедневные награды: клик и кейс.
// Право на награду определяется календарными сутками опорного пояса,
// а не 24-часовым интервалом.
package rewards

// Операции журнала звёзд
const (
	OpClick = "click" // Ежедневный клик
	OpCase  = "case"  // Ежедневный кейс
)

// ClickResult — итог ежедневного клика.
type ClickResult struct {
	Amount     float64 // Начисленная сумма (база + буст питомцев)
	NewBalance float64
}

// CaseResult — итог открытия ежедневного кейса.
type CaseResult struct {
	Amount     float64 // Выпавший приз
	NewBalance float64
}
