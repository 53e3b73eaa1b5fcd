// Package scoring computes the value-creation score of an account from the
// transfers it has received. The score sums round(sqrt(total)) over the total
// received from each distinct sender, so many small contributors are worth
// more than one large one.
package scoring

import (
	"math"

	"github.com/shopspring/decimal"
)

// Receipt is one received transfer, reduced to the fields the score
// depends on.
type Receipt struct {
	SenderID uint
	Amount   int64
}

// root is round-half-up of sqrt(n). Inputs are non-negative, so math.Round's
// half-away-from-zero behaves as half-up. sqrt of an integer can never land
// exactly on .5 (k+0.5 squared is never an integer), so the tie rule is moot
// for real inputs but fixed anyway.
func root(n int64) int64 {
	return int64(math.Round(math.Sqrt(float64(n))))
}

// Seed is the score a freshly provisioned account starts with.
func Seed(amount int64) int64 {
	return root(amount)
}

// Score returns the recipient's new value-creation score given its full
// received history plus one staged transfer. The staged amount is folded into
// the sender totals before summing the roots; the result replaces the old
// score outright.
func Score(history []Receipt, staged Receipt) int64 {
	totals := make(map[uint]int64, len(history)+1)
	for _, r := range history {
		totals[r.SenderID] += r.Amount
	}
	totals[staged.SenderID] += staged.Amount

	var score int64
	for _, sum := range totals {
		score += root(sum)
	}
	return score
}

// Depreciate applies a retention factor to a score: floor(score * factor).
// Decimal arithmetic keeps this digit-for-digit identical to the SQL
// FLOOR(value_creation * factor) path.
func Depreciate(score int64, factor decimal.Decimal) int64 {
	return decimal.NewFromInt(score).Mul(factor).Floor().IntPart()
}
