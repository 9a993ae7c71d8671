package geolocation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medassist/clinic-discovery/internal/domain/entities"
	"github.com/medassist/clinic-discovery/internal/domain/providers"
	"github.com/medassist/clinic-discovery/pkg/config"
	apperrors "github.com/medassist/clinic-discovery/pkg/errors"
	"github.com/medassist/clinic-discovery/pkg/retry"
)

// Options configures the location service behavior.
type Options struct {
	SingleShotTimeout    time.Duration
	HighAccuracyTimeout  time.Duration
	HighAccuracyAttempts int
	RetryDelay           time.Duration
	CacheFreshness       time.Duration
	RecentFixMaxAge      time.Duration
}

// DefaultOptions returns the documented defaults: 10s single-shot timeout, a
// 60s high-accuracy budget of 3 attempts, a 10 minute reuse window for cached
// fixes and a 5 minute tolerance for platform-cached fixes.
func DefaultOptions() Options {
	return Options{
		SingleShotTimeout:    10 * time.Second,
		HighAccuracyTimeout:  60 * time.Second,
		HighAccuracyAttempts: 3,
		RetryDelay:           2 * time.Second,
		CacheFreshness:       10 * time.Minute,
		RecentFixMaxAge:      5 * time.Minute,
	}
}

// OptionsFromConfig builds Options from application configuration.
func OptionsFromConfig(cfg config.LocationConfig) Options {
	return Options{
		SingleShotTimeout:    cfg.SingleShotTimeout,
		HighAccuracyTimeout:  cfg.HighAccuracyTimeout,
		HighAccuracyAttempts: cfg.HighAccuracyAttempts,
		RetryDelay:           cfg.RetryDelay,
		CacheFreshness:       cfg.CacheFreshness,
		RecentFixMaxAge:      cfg.RecentFixMaxAge,
	}
}

// errAccuracyNotReached drives another high-accuracy attempt; it never leaves
// BestLocation.
var errAccuracyNotReached = errors.New("high-accuracy fix not reached")

// LocationService resolves and caches the caller's position on top of a
// low-level GeolocationSource. It owns the only long-lived background
// operation of the engine: a single underlying position watch shared by all
// subscribers through reference counting.
type LocationService struct {
	source providers.GeolocationSource
	opts   Options
	now    func() time.Time

	mu       sync.Mutex
	lastFix  *entities.UserLocation
	watchID  string
	subs     map[string]*WatchSubscription
	subOrder []string

	// dispatchMu serializes watch fan-out so every subscriber observes
	// updates in source order.
	dispatchMu sync.Mutex
}

// NewLocationService creates a new location service over the given source.
func NewLocationService(source providers.GeolocationSource, opts Options) *LocationService {
	return &LocationService{
		source: source,
		opts:   opts,
		now:    time.Now,
		subs:   make(map[string]*WatchSubscription),
	}
}

// CurrentLocation resolves a single fix, bounded by the single-shot timeout.
// A platform-cached fix no older than the recent-fix window is acceptable.
func (s *LocationService) CurrentLocation(ctx context.Context) (*entities.UserLocation, error) {
	pos, err := s.fetch(ctx, providers.PositionOptions{
		EnableHighAccuracy: true,
		Timeout:            s.opts.SingleShotTimeout,
		MaximumAge:         s.opts.RecentFixMaxAge,
	})
	if err != nil {
		return nil, err
	}

	loc := s.toUserLocation(pos)
	s.storeFix(loc)
	return loc, nil
}

// BestLocation seeks the highest-accuracy fix available: up to the configured
// number of attempts with fixed delays inside the high-accuracy budget, with
// zero tolerance for platform-cached fixes. If at least one fix was obtained
// the best of them is returned rather than an error.
func (s *LocationService) BestLocation(ctx context.Context) (*entities.UserLocation, error) {
	var best *entities.UserLocation

	cfg := retry.Fixed(s.opts.HighAccuracyAttempts, s.opts.RetryDelay, s.opts.HighAccuracyTimeout)
	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		pos, err := s.fetch(ctx, providers.PositionOptions{
			EnableHighAccuracy: true,
			Timeout:            s.opts.SingleShotTimeout,
			MaximumAge:         0,
		})
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok && appErr.Reason.Terminal() {
				return retry.Permanent(err)
			}
			return err
		}

		loc := s.toUserLocation(pos)
		if best == nil || loc.AccuracyMeters < best.AccuracyMeters {
			best = loc
		}
		if loc.Quality == entities.FixQualityHigh {
			return nil
		}
		return errAccuracyNotReached
	})

	if best != nil {
		s.storeFix(best)
		return best, nil
	}
	return nil, err
}

// CachedOrCurrent returns the last fix if it is younger than the freshness
// window, otherwise performs a fresh fetch.
func (s *LocationService) CachedOrCurrent(ctx context.Context) (*entities.UserLocation, error) {
	s.mu.Lock()
	if s.lastFix != nil && s.lastFix.IsFresh(s.now(), s.opts.CacheFreshness) {
		fix := s.lastFix
		s.mu.Unlock()
		return fix, nil
	}
	s.mu.Unlock()

	return s.CurrentLocation(ctx)
}

// LastFix returns the most recent fix regardless of freshness, or nil.
func (s *LocationService) LastFix() *entities.UserLocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFix
}

// WatchSubscription is the handle returned by Subscribe. Cancelling the last
// live subscription stops the underlying platform watch.
type WatchSubscription struct {
	token    string
	svc      *LocationService
	onUpdate func(*entities.UserLocation)
	onError  func(error)
}

// Subscribe registers for continuous location updates. All subscribers share
// one underlying platform watch; the watch starts with the first subscriber.
func (s *LocationService) Subscribe(onUpdate func(*entities.UserLocation), onError func(error)) (*WatchSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subs) == 0 {
		id, err := s.source.WatchPosition(s.dispatchUpdate, s.dispatchError, providers.PositionOptions{
			EnableHighAccuracy: true,
		})
		if err != nil {
			return nil, s.mapError(err)
		}
		s.watchID = id
	}

	sub := &WatchSubscription{
		token:    uuid.NewString(),
		svc:      s,
		onUpdate: onUpdate,
		onError:  onError,
	}
	s.subs[sub.token] = sub
	s.subOrder = append(s.subOrder, sub.token)
	return sub, nil
}

// Cancel unregisters the subscription. Cancelling twice is a no-op.
func (w *WatchSubscription) Cancel() {
	s := w.svc

	s.mu.Lock()
	if _, ok := s.subs[w.token]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.subs, w.token)
	for i, token := range s.subOrder {
		if token == w.token {
			s.subOrder = append(s.subOrder[:i], s.subOrder[i+1:]...)
			break
		}
	}
	stop := len(s.subs) == 0
	watchID := s.watchID
	if stop {
		s.watchID = ""
	}
	s.mu.Unlock()

	if stop {
		s.source.ClearWatch(watchID)
	}
}

// SubscriberCount returns the number of live watch subscriptions.
func (s *LocationService) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *LocationService) dispatchUpdate(pos *providers.Position) {
	loc := s.toUserLocation(pos)

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.lastFix = loc
	targets := make([]*WatchSubscription, 0, len(s.subOrder))
	for _, token := range s.subOrder {
		targets = append(targets, s.subs[token])
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.onUpdate(loc)
	}
}

func (s *LocationService) dispatchError(err error) {
	mapped := s.mapError(err)

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	targets := make([]*WatchSubscription, 0, len(s.subOrder))
	for _, token := range s.subOrder {
		targets = append(targets, s.subs[token])
	}
	s.mu.Unlock()

	for _, sub := range targets {
		if sub.onError != nil {
			sub.onError(mapped)
		}
	}
}

// fetch runs a position request and honors ctx cancellation. A result that
// arrives after cancellation is discarded so no state is updated by a
// cancelled call.
func (s *LocationService) fetch(ctx context.Context, opts providers.PositionOptions) (*providers.Position, error) {
	type result struct {
		pos *providers.Position
		err error
	}
	ch := make(chan result, 1)

	go func() {
		pos, err := s.source.CurrentPosition(opts)
		ch <- result{pos: pos, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, apperrors.NewLocationError(apperrors.ReasonTimeout, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, s.mapError(r.err)
		}
		return r.pos, nil
	}
}

func (s *LocationService) toUserLocation(pos *providers.Position) *entities.UserLocation {
	captured := pos.Timestamp
	if captured.IsZero() {
		captured = s.now()
	}

	return &entities.UserLocation{
		Coordinate:     pos.Coordinate,
		AccuracyMeters: pos.AccuracyMeters,
		CapturedAt:     captured,
		Altitude:       pos.Altitude,
		Heading:        pos.Heading,
		SpeedMPS:       pos.SpeedMPS,
		Source:         "gps",
		Quality:        entities.QualityForAccuracy(pos.AccuracyMeters),
	}
}

func (s *LocationService) storeFix(loc *entities.UserLocation) {
	s.mu.Lock()
	s.lastFix = loc
	s.mu.Unlock()
}

func (s *LocationService) mapError(err error) error {
	var posErr *providers.PositionError
	if errors.As(err, &posErr) {
		switch posErr.Code {
		case providers.PositionPermissionDenied:
			return apperrors.NewLocationError(apperrors.ReasonPermissionDenied, err)
		case providers.PositionTimeout:
			return apperrors.NewLocationError(apperrors.ReasonTimeout, err)
		case providers.PositionUnsupported:
			return apperrors.NewLocationError(apperrors.ReasonUnsupported, err)
		default:
			return apperrors.NewLocationError(apperrors.ReasonPositionUnavailable, err)
		}
	}
	return apperrors.NewLocationError(apperrors.ReasonPositionUnavailable, err)
}
