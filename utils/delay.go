package utils

import (
	"math/rand"
	"time"
)

// Bounds of the pause inserted between outbound requests.
const (
	PoliteDelayMin = 1 * time.Second
	PoliteDelayMax = 3 * time.Second
)

// RandomDelay pauses execution for a random duration in [min, max].
func RandomDelay(min, max time.Duration) {
	time.Sleep(randomDuration(min, max))
}

// PoliteSleep pauses for a duration drawn uniformly from [1s, 3s].
func PoliteSleep() {
	RandomDelay(PoliteDelayMin, PoliteDelayMax)
}

func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}
