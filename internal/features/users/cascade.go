// Package users — cascade.go строит план реферального каскада.
// Глубина каскада фиксирована: ровно два уровня вверх по цепочке
// пригласивших, ограниченный цикл вместо рекурсии.
package users

import (
	"crypto/rand"
	"fmt"
)

// maxCascadeDepth — сколько уровней цепочки пригласивших получают бонус.
const maxCascadeDepth = 2

// CascadeCredit — одно начисление реферального каскада.
type CascadeCredit struct {
	UserID        int64   // Кому начислить (Telegram ID)
	Amount        float64 // Сумма начисления
	Operation     string  // Операция для журнала
	CountReferral bool    // Увеличивать ли счётчики рефералов (только 1-й уровень)
}

// PlanCascade строит список начислений по цепочке пригласивших.
// chain — цепочка вверх от нового пользователя: chain[0] — пригласивший,
// chain[1] — пригласивший пригласившего. Всё дальше второго уровня игнорируется.
// tier1 и tier2 — итоговые суммы бонусов (база + буст питомцев).
func PlanCascade(chain []int64, tier1, tier2 float64) []CascadeCredit {
	amounts := []float64{tier1, tier2}
	ops := []string{OpReferralBonus, OpReferral2Bonus}

	var credits []CascadeCredit
	for i := 0; i < len(chain) && i < maxCascadeDepth; i++ {
		if amounts[i] <= 0 {
			continue
		}
		credits = append(credits, CascadeCredit{
			UserID:        chain[i],
			Amount:        amounts[i],
			Operation:     ops[i],
			CountReferral: i == 0,
		})
	}
	return credits
}

// referralCodeAlphabet — без похожих символов (0/O, 1/I), чтобы код
// читался из скриншота без ошибок.
const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode генерирует случайный реферальный код из 8 символов.
func GenerateReferralCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("ошибка генерации кода: %w", err)
	}
	for i := range b {
		b[i] = referralCodeAlphabet[int(b[i])%len(referralCodeAlphabet)]
	}
	return string(b), nil
}
