/*
Package horizonkeeper runs a background loop that proactively keeps
registered capacity.Engine horizons a configurable distance ahead of
now, so that synchronous auto-extension inside FindSlot/SetUnavailable/
SetAvailable is the rare case rather than the common one.

It never mutates engine state outside of calling the same ExtendTo
entrypoint the synchronous path uses — this package supplements the
engine's correctness-preserving extension with latency, it does not add
a second extension algorithm. Grounded on api/scheduler.go's
ticker-driven ReconciliationScheduler.
*/
package horizonkeeper

import (
	"log"
	"sync"
	"time"

	"github.com/brightloom/schedcore/capacity"
)

// registration is one engine being kept topped up, with how far ahead
// of now its horizon should be maintained.
type registration struct {
	engine    *capacity.Engine
	lookahead time.Duration
}

// Keeper periodically extends every registered engine's horizon.
type Keeper struct {
	CheckInterval time.Duration

	mu            sync.Mutex
	registrations map[string]registration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
}

// New creates a Keeper with the given check interval.
func New(checkInterval time.Duration) *Keeper {
	return &Keeper{
		CheckInterval: checkInterval,
		registrations: make(map[string]registration),
		stop:          make(chan struct{}),
	}
}

// Register adds engine to the keeper's watch list, to be kept extended
// at least lookahead past the current time on every tick. Registering
// the same resource ID again replaces its prior registration.
func (k *Keeper) Register(engine *capacity.Engine, lookahead time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.registrations[engine.ResourceID()] = registration{engine: engine, lookahead: lookahead}
}

// Unregister removes a resource from the keeper's watch list.
func (k *Keeper) Unregister(resourceID string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.registrations, resourceID)
}

// Start begins the background loop.
func (k *Keeper) Start() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.ticker = time.NewTicker(k.CheckInterval)
	k.wg.Add(1)
	go k.run()
}

// Stop halts the background loop and waits for it to exit.
func (k *Keeper) Stop() {
	k.mu.Lock()
	ticker := k.ticker
	k.mu.Unlock()

	if ticker == nil {
		return
	}
	ticker.Stop()
	close(k.stop)
	k.wg.Wait()
}

func (k *Keeper) run() {
	defer k.wg.Done()
	k.tick(time.Now)

	for {
		select {
		case <-k.ticker.C:
			k.tick(time.Now)
		case <-k.stop:
			return
		}
	}
}

func (k *Keeper) tick(now func() time.Time) {
	k.mu.Lock()
	regs := make([]registration, 0, len(k.registrations))
	for _, r := range k.registrations {
		regs = append(regs, r)
	}
	k.mu.Unlock()

	for _, r := range regs {
		want := now().Add(r.lookahead)
		end := r.engine.HorizonEndTime()
		if !want.After(end) {
			continue
		}
		// Grow in whole days from the current horizon end so the target
		// stays on the engine's unit grid even though now() does not.
		target := end
		for target.Before(want) {
			target = target.AddDate(0, 0, 1)
		}
		if err := r.engine.ExtendTo(target); err != nil {
			log.Printf("[horizonkeeper] resource %s: extend to %s failed: %v", r.engine.ResourceID(), target, err)
		}
	}
}
