package pricing

import (
	"fmt"
	"math"
)

// Money is an amount in minor units (øre). Arithmetic is exact; rounding to
// two decimals only happens when a value is presented.
type Money struct {
	minor int64
}

func Minor(minor int64) Money { return Money{minor: minor} }

func Major(major int64) Money { return Money{minor: major * 100} }

// FromFloat converts a presentation amount such as 249.5 at the API boundary.
func FromFloat(v float64) Money {
	return Money{minor: int64(math.Round(v * 100))}
}

func (m Money) Minor() int64     { return m.minor }
func (m Money) Float() float64   { return float64(m.minor) / 100 }
func (m Money) IsZero() bool     { return m.minor == 0 }
func (m Money) IsNegative() bool { return m.minor < 0 }

func (m Money) Add(o Money) Money     { return Money{minor: m.minor + o.minor} }
func (m Money) Sub(o Money) Money     { return Money{minor: m.minor - o.minor} }
func (m Money) Mul(times int64) Money { return Money{minor: m.minor * times} }
func (m Money) Equal(o Money) bool    { return m.minor == o.minor }
func (m Money) LessThan(o Money) bool { return m.minor < o.minor }

func MinMoney(a, b Money) Money {
	if a.minor < b.minor {
		return a
	}
	return b
}

func MaxMoney(a, b Money) Money {
	if a.minor > b.minor {
		return a
	}
	return b
}

func (m Money) String() string {
	sign := ""
	v := m.minor
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
