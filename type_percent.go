package folio

import "fmt"

type Percent float64

// PercentOf returns part as a percentage of whole, e.g. a gain over a cost
// basis. A zero whole yields a zero Percent rather than an infinity.
func PercentOf(part, whole Money) Percent {
	if whole.IsZero() {
		return 0
	}
	return Percent(100 * part.AsFloat() / whole.AsFloat())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
