package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SelectWinners draws min(k, len(pool)) distinct entries from pool, uniform
// over subsets, via a partial Fisher-Yates shuffle of a copy. Callers are
// expected to have short-circuited the insufficient-participants case; the
// selector never partially satisfies a request by design of its callers.
func SelectWinners(pool []int64, k int) ([]int64, error) {
	if k <= 0 || len(pool) == 0 {
		return nil, nil
	}
	if k > len(pool) {
		k = len(pool)
	}

	shuffled := make([]int64, len(pool))
	copy(shuffled, pool)

	// Only the first k positions need to be settled.
	for i := 0; i < k; i++ {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(shuffled)-i)))
		if err != nil {
			return nil, fmt.Errorf("failed to generate random index: %w", err)
		}
		j := i + int(jBig.Int64())
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:k], nil
}
