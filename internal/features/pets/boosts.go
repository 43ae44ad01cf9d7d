// Package pets — boosts.go реализует калькулятор бустов.
// Чистая функция без побочных эффектов и I/O: её вызывает каждый путь
// начисления наград (клик, задание, реферальный каскад).
package pets

// BoostSum возвращает суммарный буст пользователя для категории boostType:
// сумма boostValue × level по всем питомцам этой категории.
// Если питомцев нужной категории нет — 0 (это не ошибка).
func BoostSum(owned []OwnedBoost, boostType string) float64 {
	var total float64
	for _, o := range owned {
		if o.BoostType != boostType {
			continue
		}
		total += o.BoostValue * float64(o.Level)
	}
	return total
}

// BoostSummary возвращает суммы бустов по всем категориям сразу.
// Используется в профиле «мои питомцы».
func BoostSummary(owned []OwnedBoost) map[string]float64 {
	totals := map[string]float64{
		BoostClick:     0,
		BoostReferral1: 0,
		BoostReferral2: 0,
		BoostTask:      0,
	}
	for _, o := range owned {
		totals[o.BoostType] += o.BoostValue * float64(o.Level)
	}
	return totals
}
