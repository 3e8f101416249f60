package service

import (
	"sync"

	"github.com/kontim1983-hub/leasing-app/internal/model"
)

// GenerationLocks serializes mutating operations per schema generation.
// Two generations proceed fully in parallel; a second upload for the same
// generation blocks until the first completes instead of interleaving.
// Reads never take these locks; snapshot isolation comes from the store.
type GenerationLocks struct {
	mu map[string]*sync.Mutex
}

func NewGenerationLocks() *GenerationLocks {
	mu := make(map[string]*sync.Mutex, len(model.Generations()))
	for _, g := range model.Generations() {
		mu[g] = &sync.Mutex{}
	}
	return &GenerationLocks{mu: mu}
}

// Lock blocks until the generation's mutating slot is free. The generation
// must be one of the registered ones; callers resolve the schema first.
func (l *GenerationLocks) Lock(generation string) { l.mu[generation].Lock() }

func (l *GenerationLocks) Unlock(generation string) { l.mu[generation].Unlock() }
