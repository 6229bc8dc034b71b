package documents

import "github.com/shopspring/decimal"

// VATRate is the Moroccan standard TVA rate
var VATRate = decimal.RequireFromString("0.20")

// Breakdown splits a tax-inclusive amount into base and tax
type Breakdown struct {
	HT  decimal.Decimal `json:"ht"`
	TVA decimal.Decimal `json:"tva"`
	TTC decimal.Decimal `json:"ttc"`
}

// TaxBreakdown derives HT and TVA from a TTC total. TVA absorbs the rounding
// so that HT + TVA always equals TTC.
func TaxBreakdown(ttc decimal.Decimal) Breakdown {
	ttc = ttc.Round(2)
	ht := ttc.Div(decimal.NewFromInt(1).Add(VATRate)).Round(2)
	return Breakdown{
		HT:  ht,
		TVA: ttc.Sub(ht),
		TTC: ttc,
	}
}
