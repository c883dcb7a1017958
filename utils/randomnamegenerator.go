package utils

import (
	"math/rand"
	"sync"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique silly names, used to tell
// connected viewers apart in logs.
type RandomNameGenerator struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

func (rng *RandomNameGenerator) RandomName() string {
	rng.mu.Lock()
	defer rng.mu.Unlock()

	if rng.taken == nil {
		rng.taken = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := rng.taken[name]; !exists {
			rng.taken[name] = struct{}{}
			return name
		}
	}
}

// Release makes name available again.
func (rng *RandomNameGenerator) Release(name string) {
	rng.mu.Lock()
	defer rng.mu.Unlock()
	delete(rng.taken, name)
}
