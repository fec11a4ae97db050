package service

import "lo-site/domain"

const (
	DefaultFHAUpfrontMIPRate = 1.75 // % of base loan, rolled in
	DefaultUSDAGuaranteeFee  = 1.0  // % of base loan, rolled in
	DefaultUSDAAnnualFeeRate = 0.35 // % per year, paid monthly

	DefaultHeadlineCount = 5
	MaxHeadlineCount     = 10
	MaxTopicLength       = 200
)

// pmiRateTable is ordered by MinScore, highest first. The last entry is the
// floor and matches every score.
var pmiRateTable = []domain.PMIRateEntry{
	{Label: "760+", MinScore: 760, Rate: 0.25},
	{Label: "740-759", MinScore: 740, Rate: 0.39},
	{Label: "720-739", MinScore: 720, Rate: 0.50},
	{Label: "700-719", MinScore: 700, Rate: 0.62},
	{Label: "680-699", MinScore: 680, Rate: 0.78},
	{Label: "660-679", MinScore: 660, Rate: 0.95},
	{Label: "640-659", MinScore: 640, Rate: 1.05},
	{Label: "Below 640", MinScore: 0, Rate: 1.20},
}

type vaFeeTier struct {
	minDownPercent float64
	firstUse       float64
	afterUse       float64
}

// vaFundingFeeSchedule is ordered by minimum down payment, highest first.
var vaFundingFeeSchedule = []vaFeeTier{
	{minDownPercent: 10, firstUse: 1.25, afterUse: 1.25},
	{minDownPercent: 5, firstUse: 1.50, afterUse: 1.50},
	{minDownPercent: 0, firstUse: 2.15, afterUse: 3.30},
}

// PMIRateTable returns a copy of the PMI table.
func PMIRateTable() []domain.PMIRateEntry {
	out := make([]domain.PMIRateEntry, len(pmiRateTable))
	copy(out, pmiRateTable)
	return out
}

// VAFundingFeeRate returns the funding fee percent for a usage option and
// down payment percent. Exempt borrowers always get 0.
func VAFundingFeeRate(option domain.FundingFeeOption, downPaymentPercent float64) float64 {
	if option == domain.FundingFeeExempt {
		return 0
	}
	tier := vaFundingFeeSchedule[len(vaFundingFeeSchedule)-1]
	for _, t := range vaFundingFeeSchedule {
		if downPaymentPercent >= t.minDownPercent {
			tier = t
			break
		}
	}
	if option == domain.FundingFeeAfterUse {
		return tier.afterUse
	}
	return tier.firstUse
}
