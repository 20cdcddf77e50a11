package domain

import "github.com/shopspring/decimal"

// TierType - упорядоченная шкала скидочных уровней клиента. Уровень
// пересчитывается от суммы завершенных заказов за текущий календарный месяц.
type TierType string

const (
	TierBase    TierType = "base"
	TierSilver  TierType = "silver"
	TierGold    TierType = "gold"
	TierDiamond TierType = "diamond"
)

// tierScale отсортирована по возрастанию порога. Threshold - минимальная
// месячная сумма для уровня, DiscountPct - целый процент скидки.
var tierScale = []struct {
	Tier        TierType
	Threshold   decimal.Decimal
	DiscountPct int64
}{
	{TierBase, decimal.Zero, 0},
	{TierSilver, decimal.NewFromInt(1_000_000), 3},
	{TierGold, decimal.NewFromInt(3_000_000), 5},
	{TierDiamond, decimal.NewFromInt(5_000_000), 10},
}

// TierForSpend возвращает уровень, соответствующий месячной сумме трат.
func TierForSpend(monthlySpend decimal.Decimal) TierType {
	tier := TierBase
	for _, lvl := range tierScale {
		if monthlySpend.GreaterThanOrEqual(lvl.Threshold) {
			tier = lvl.Tier
		}
	}
	return tier
}

// DiscountPct возвращает процент скидки уровня. Для неизвестного значения - 0.
func (t TierType) DiscountPct() int64 {
	for _, lvl := range tierScale {
		if lvl.Tier == t {
			return lvl.DiscountPct
		}
	}
	return 0
}

// Next возвращает следующий уровень и его порог. Для максимального уровня
// (и неизвестных значений) второе значение false.
func (t TierType) Next() (TierType, decimal.Decimal, bool) {
	for i, lvl := range tierScale {
		if lvl.Tier == t && i+1 < len(tierScale) {
			return tierScale[i+1].Tier, tierScale[i+1].Threshold, true
		}
	}
	return "", decimal.Zero, false
}

func (t TierType) Valid() bool {
	for _, lvl := range tierScale {
		if lvl.Tier == t {
			return true
		}
	}
	return false
}

// TierInfo - срез состояния уровня для выдачи наружу.
type TierInfo struct {
	Tier             TierType
	MonthlySpend     decimal.Decimal
	DiscountPct      int64
	NextTier         *TierType
	AmountToNextTier decimal.Decimal
}
