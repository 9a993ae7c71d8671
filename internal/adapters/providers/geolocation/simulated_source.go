package geolocation

import (
	"fmt"
	"sync"
	"time"

	"github.com/medassist/clinic-discovery/internal/domain/providers"
)

// SimulatedSource implements a scriptable geolocation source for tests and
// offline development.
type SimulatedSource struct {
	mu       sync.Mutex
	position *providers.Position
	err      error
	delay    time.Duration
	watches  map[string]simulatedWatch
	watchSeq int
}

type simulatedWatch struct {
	onUpdate func(*providers.Position)
	onError  func(error)
}

// NewSimulatedSource creates a new simulated source with no position set.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{
		watches: make(map[string]simulatedWatch),
	}
}

// SetPosition scripts the position returned by CurrentPosition.
func (s *SimulatedSource) SetPosition(pos providers.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = &pos
	s.err = nil
}

// SetError scripts a failure for CurrentPosition and WatchPosition.
func (s *SimulatedSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// SetResponseDelay scripts how long CurrentPosition blocks before answering.
func (s *SimulatedSource) SetResponseDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// CurrentPosition resolves the scripted fix. A response delay longer than the
// requested timeout produces a timeout error, mirroring the platform contract.
func (s *SimulatedSource) CurrentPosition(opts providers.PositionOptions) (*providers.Position, error) {
	s.mu.Lock()
	delay := s.delay
	err := s.err
	pos := s.position
	s.mu.Unlock()

	if delay > 0 {
		if opts.Timeout > 0 && delay > opts.Timeout {
			time.Sleep(opts.Timeout)
			return nil, &providers.PositionError{Code: providers.PositionTimeout, Message: "position request timed out"}
		}
		time.Sleep(delay)
	}

	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, &providers.PositionError{Code: providers.PositionUnavailable, Message: "no position available"}
	}

	fix := *pos
	if fix.Timestamp.IsZero() {
		fix.Timestamp = time.Now()
	}
	return &fix, nil
}

// WatchPosition registers a watch; updates are pushed via EmitPosition.
func (s *SimulatedSource) WatchPosition(onUpdate func(*providers.Position), onError func(error), opts providers.PositionOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}

	s.watchSeq++
	id := fmt.Sprintf("watch-%d", s.watchSeq)
	s.watches[id] = simulatedWatch{onUpdate: onUpdate, onError: onError}
	return id, nil
}

// ClearWatch stops the watch with the given id.
func (s *SimulatedSource) ClearWatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watches, id)
}

// EmitPosition pushes a fix to every active watch.
func (s *SimulatedSource) EmitPosition(pos providers.Position) {
	if pos.Timestamp.IsZero() {
		pos.Timestamp = time.Now()
	}

	s.mu.Lock()
	watches := make([]simulatedWatch, 0, len(s.watches))
	for _, w := range s.watches {
		watches = append(watches, w)
	}
	s.mu.Unlock()

	for _, w := range watches {
		fix := pos
		w.onUpdate(&fix)
	}
}

// EmitError pushes an error to every active watch.
func (s *SimulatedSource) EmitError(err error) {
	s.mu.Lock()
	watches := make([]simulatedWatch, 0, len(s.watches))
	for _, w := range s.watches {
		watches = append(watches, w)
	}
	s.mu.Unlock()

	for _, w := range watches {
		if w.onError != nil {
			w.onError(err)
		}
	}
}

// ActiveWatches returns the number of live platform watches.
func (s *SimulatedSource) ActiveWatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}
