package fitness

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
)

// ErrNonBinaryAlphabet is returned when the closed-form expectation is asked
// to describe environments drawn from anything but {0, 1}.
var ErrNonBinaryAlphabet = errors.New("expected optimal fitness requires the binary alphabet")

// CheckBinary reports whether alphabet is exactly {0, 1}, the only alphabet
// ExpectedOptimal describes.
func CheckBinary(alphabet []int) error {
	vals := slices.Clone(alphabet)
	slices.Sort(vals)
	if !slices.Equal(slices.Compact(vals), []int{0, 1}) {
		return fmt.Errorf("%w: got %v", ErrNonBinaryAlphabet, alphabet)
	}
	return nil
}

// ExpectedOptimal returns the expected value of Optimal(targets).Fitness when
// every target bit is an independent fair coin (binary alphabet).
func (e *Evaluator) ExpectedOptimal() float64 {
	f, _ := e.ExpectedOptimalRat().Float64()
	return f
}

// ExpectedOptimalRat is ExpectedOptimal as an exact rational.
func (e *Evaluator) ExpectedOptimalRat() *big.Rat {
	total := new(big.Rat)
	memo := make(map[int]*big.Rat)
	for _, site := range e.arch.CodingSites() {
		k := e.arch.OccupantCount(site)
		c, ok := memo[k]
		if !ok {
			c = SiteContribution(k)
			memo[k] = c
		}
		total.Add(total, c)
	}
	return total
}

// SiteContribution is the expected winning vote count at a site with k
// occupants casting independent fair binary votes.
//
// For k >= 2 it sums, over agreement levels shared in [ceil(k/2), k], the
// number of vote patterns whose majority has exactly that size times shared,
// divided by 2^k. A level is reached by C(k, shared) patterns per majority
// value, so the count is doubled, except for the even-k midpoint where both
// halves are the same patterns.
func SiteContribution(k int) *big.Rat {
	switch {
	case k <= 0:
		return new(big.Rat)
	case k == 1:
		return big.NewRat(1, 1)
	}

	num := new(big.Int)
	term := new(big.Int)
	for shared := (k + 1) / 2; shared <= k; shared++ {
		term.Binomial(int64(k), int64(shared))
		if !(k%2 == 0 && shared == k/2) {
			term.Lsh(term, 1)
		}
		term.Mul(term, big.NewInt(int64(shared)))
		num.Add(num, term)
	}
	den := new(big.Int).Lsh(big.NewInt(1), uint(k))
	return new(big.Rat).SetFrac(num, den)
}
