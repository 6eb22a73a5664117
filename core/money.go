package core

import "strconv"

// Money is an amount in whole COP units; the currency has no decimals.
type Money int64

// String formats the amount the way receipts print it: "$ 70.000".
func (m Money) String() string {
	neg := m < 0
	if neg {
		m = -m
	}
	digits := strconv.FormatInt(int64(m), 10)

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	if neg {
		return "$ -" + string(out)
	}
	return "$ " + string(out)
}
