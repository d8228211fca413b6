package pricing

import "github.com/shopspring/decimal"

// Method is one fixed shipping tier for home-country orders.
type Method struct {
	Code  string
	Label string
	Fee   decimal.Decimal
	ETA   string
}

// Methods is the enumerated table offered when the destination is the
// home country. Fees are flat, in the base currency.
var Methods = []Method{
	{
		Code:  "lagos-delivery",
		Label: "Delivery within Lagos",
		Fee:   decimal.NewFromInt(3000),
		ETA:   "2-4 working days",
	},
	{
		Code:  "nationwide-courier",
		Label: "Nationwide courier",
		Fee:   decimal.NewFromInt(4000),
		ETA:   "3-7 working days",
	},
	{
		Code:  "doorstep-outside-lagos",
		Label: "Doorstep delivery outside Lagos",
		Fee:   decimal.NewFromInt(5500),
		ETA:   "4-8 working days",
	},
}

func MethodByCode(code string) (Method, bool) {
	for _, m := range Methods {
		if m.Code == code {
			return m, true
		}
	}
	return Method{}, false
}
