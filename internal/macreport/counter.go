package macreport

import (
	"log"
	"sync"

	"github.com/Elto-Analytics/ChargeMacReporter/internal/models"
)

// ResultCounter tallies search outcomes by state. Handlers bump it on
// every request; the process dumps it on shutdown.
type ResultCounter struct {
	counts map[models.SearchState]int
	mu     sync.Mutex
}

func NewResultCounter() *ResultCounter {
	return &ResultCounter{
		counts: make(map[models.SearchState]int),
	}
}

func (rc *ResultCounter) Count(state models.SearchState) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.counts[state]++
}

func (rc *ResultCounter) PrintCounts(logger *log.Logger) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for state, count := range rc.counts {
		logger.Printf("Search outcome: %s, Count: %d", state, count)
	}
}
