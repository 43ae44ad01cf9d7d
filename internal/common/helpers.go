// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с календарными сутками, форматирование звёзд,
// русская плюрализация.
package common

import (
	"fmt"
	"math"
	"time"
)

// LoadTimezone загружает часовой пояс по имени.
// Если зона недоступна (минимальный Docker-образ без tzdata) —
// используем UTC+3 вручную, как резерв для Europe/Moscow.
func LoadTimezone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// StartOfDay возвращает полночь календарных суток, в которые попадает t,
// в часовом поясе loc. Граница суток — это и есть граница ежедневных наград.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay сообщает, попадают ли a и b в одни календарные сутки пояса loc.
// Сравниваются ключи суток (год-месяц-день), а не разница в часах —
// так граница полуночи не даёт ошибок на стыке дней.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// ISOWeekKey возвращает ключ ISO-недели вида "2026-W36".
// Используется как ключ периода для идемпотентности еженедельных задач.
func ISOWeekKey(t time.Time, loc *time.Location) string {
	year, week := t.In(loc).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// FormatStars форматирует сумму звёзд для отображения.
// Пример: FormatStars(3.1) → "3.10 ⭐"
func FormatStars(amount float64) string {
	return fmt.Sprintf("%.2f ⭐", amount)
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется в уведомлениях о заявках на вывод.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006 15:04")
}

// PluralizeStars возвращает правильную форму слова «звезда» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "звезда" (1, 21, 31, 101, ...)
//   - n%10 в [2,4] И n%100 НЕ в [12,14] → "звезды" (2, 3, 4, 22, ...)
//   - Остальные случаи → "звёзд" (0, 5-20, 25-30, 100, ...)
func PluralizeStars(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "звезда"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "звезды"
	}
	return "звёзд"
}

// PluralizeReferrals возвращает правильную форму слова «реферал».
func PluralizeReferrals(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "реферал"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "реферала"
	}
	return "рефералов"
}
