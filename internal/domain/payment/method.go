package payment

import "errors"

var ErrInvalidMethod = errors.New("invalid payment method")

type Method string

const (
	MethodCash         Method = "cash"
	MethodBankTransfer Method = "bank_transfer"
	MethodMobilePay    Method = "mobilepay"
	MethodCard         Method = "card"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodCash, MethodBankTransfer, MethodMobilePay, MethodCard:
		return m, nil
	default:
		return "", ErrInvalidMethod
	}
}

// RequiresRedirect reports whether the renter is handed off to the online payment provider.
func (m Method) RequiresRedirect() bool {
	return m == MethodCard
}

// Methods is the set a lessor accepts. Empty means the lessor does not restrict.
type Methods []Method

func (ms Methods) Restricted() bool {
	return len(ms) > 0
}

func (ms Methods) Accepts(m Method) bool {
	if !ms.Restricted() {
		return true
	}
	for _, accepted := range ms {
		if accepted == m {
			return true
		}
	}
	return false
}

func ParseMethods(values []string) (Methods, error) {
	out := make(Methods, 0, len(values))
	for _, v := range values {
		m, err := ParseMethod(v)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
