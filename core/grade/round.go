package grade

import (
	"math/big"
	"strconv"
)

// round2 rounds to 2 decimal places, half-up, operating on the shortest
// decimal representation of v rather than its binary value, so that e.g.
// 8.715 rounds to 8.72 the way DECIMAL(4,2) column storage does.
func round2(v float64) float64 {
	rat, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	if !ok {
		return v
	}
	rat.Mul(rat, big.NewRat(100, 1))
	quo, rem := new(big.Int).QuoRem(rat.Num(), rat.Denom(), new(big.Int))
	if rem.Abs(rem).Lsh(rem, 1).Cmp(rat.Denom()) >= 0 {
		quo.Add(quo, big.NewInt(1))
	}
	rounded, _ := new(big.Rat).SetFrac(quo, big.NewInt(100)).Float64()
	return rounded
}
