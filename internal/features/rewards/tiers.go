// Package rewards — tiers.go описывает таблицу призов ежедневного кейса.
package rewards

import "math/rand"

// CaseTier — один ярус призов кейса.
// Cumulative — накопленная вероятность: бросок сравнивается с порогами
// по порядку, выигрывает первый ярус, чей порог не меньше броска.
type CaseTier struct {
	Cumulative float64 // Верхняя граница яруса на отрезке [0, 1)
	Min        int     // Минимальный приз яруса (включительно)
	Max        int     // Максимальный приз яруса (включительно)
}

// CaseTiers — таблица призов: 70% на 1-10 ⭐, 25% на 15-25 ⭐, 5% на 50-100 ⭐.
var CaseTiers = []CaseTier{
	{Cumulative: 0.70, Min: 1, Max: 10},
	{Cumulative: 0.95, Min: 15, Max: 25},
	{Cumulative: 1.00, Min: 50, Max: 100},
}

// DrawCase разыгрывает приз кейса: бросок выбирает ярус по накопленной
// вероятности, внутри яруса приз равномерен на целых числах [Min, Max].
func DrawCase(rnd *rand.Rand) int {
	roll := rnd.Float64()
	for _, tier := range CaseTiers {
		if roll < tier.Cumulative {
			return tier.Min + rnd.Intn(tier.Max-tier.Min+1)
		}
	}
	// roll == 1.0 невозможен у Float64, но последний ярус — безопасный резерв
	last := CaseTiers[len(CaseTiers)-1]
	return last.Min + rnd.Intn(last.Max-last.Min+1)
}
