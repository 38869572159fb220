package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"voicepick-service/internal/gateway"
	"voicepick-service/internal/lexicon"
	"voicepick-service/internal/models"
	"voicepick-service/internal/redisclient"
	"voicepick-service/internal/session"
	"voicepick-service/internal/util"

	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for operations on unknown sessions.
var ErrSessionNotFound = fmt.Errorf("picking session not found")

// Options tune session construction.
type Options struct {
	// CacheTTL bounds the redis session snapshot lifetime.
	CacheTTL time.Duration
	// MinConfidence overrides the machine's confidence gate when > 0.
	MinConfidence float64
	// DefaultLanguage is used when a request does not name one.
	DefaultLanguage string
}

// PickingService owns the registry of live picking sessions: one
// machine per (worker, order) pair, constructed with an injected
// gateway. Session snapshots are cached in redis for dashboards.
type PickingService struct {
	gw     gateway.Gateway
	redis  *redisclient.Client
	events session.EventSink
	logger *zap.Logger
	opts   Options

	mu        sync.Mutex
	byPair    map[string]*session.Machine
	bySession map[string]*session.Machine
}

// NewPickingService creates a picking service
func NewPickingService(gw gateway.Gateway, redis *redisclient.Client, events session.EventSink, opts Options) *PickingService {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &PickingService{
		gw:        gw,
		redis:     redis,
		events:    events,
		logger:    util.NamedLogger("picking"),
		opts:      opts,
		byPair:    make(map[string]*session.Machine),
		bySession: make(map[string]*session.Machine),
	}
}

// StartSessionResult is returned when a worker opens an order.
type StartSessionResult struct {
	Session       *models.PickingSession `json:"session"`
	Announcements []session.Announcement `json:"announcements"`
	Resumed       bool                   `json:"resumed"`
}

// StartSession opens an order for a worker. Opening a pair that already
// has a live session re-announces the current item instead of starting
// a second session.
func (s *PickingService) StartSession(ctx context.Context, workerID, orderID int64, language string) (*StartSessionResult, error) {
	ctx, span := util.StartSpan(ctx, "PickingService.StartSession")
	defer span.End()

	if language == "" {
		language = s.opts.DefaultLanguage
	}
	if !lexicon.Supported(language) {
		return nil, fmt.Errorf("%w: %s", session.ErrUnsupportedLanguage, language)
	}

	pair := pairKey(workerID, orderID)

	machineOpts := []session.Option{session.WithLanguage(language)}
	if s.opts.MinConfidence > 0 {
		machineOpts = append(machineOpts, session.WithMinConfidence(s.opts.MinConfidence))
	}
	machine := session.NewMachine(s.gw, s.events, machineOpts...)

	// Reserve the pair before touching the gateway so two concurrent
	// opens of the same pair cannot both start a session.
	s.mu.Lock()
	if existing, ok := s.byPair[pair]; ok {
		s.mu.Unlock()
		announcements, err := existing.Repeat(ctx)
		if err != nil {
			if errors.Is(err, session.ErrNotLoaded) {
				// the reserving open is still loading the order
				return nil, fmt.Errorf("%w: session for order %d is starting", session.ErrCommandInFlight, orderID)
			}
			return nil, err
		}
		return &StartSessionResult{
			Session:       existing.Session(),
			Announcements: announcements,
			Resumed:       true,
		}, nil
	}
	s.byPair[pair] = machine
	s.mu.Unlock()

	sess, announcements, err := machine.LoadOrder(ctx, workerID, orderID)
	if err != nil {
		s.mu.Lock()
		delete(s.byPair, pair)
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.bySession[sess.ID] = machine
	s.mu.Unlock()

	s.cacheSnapshot(ctx, machine)
	if s.redis != nil {
		if err := s.redis.TrackActiveSession(ctx, warehouseID(machine), sess.ID); err != nil {
			s.logger.Warn("Failed to track active session", zap.Error(err))
		}
	}

	return &StartSessionResult{
		Session:       sess,
		Announcements: announcements,
	}, nil
}

// SubmitUtterance routes one recognized utterance to its session.
func (s *PickingService) SubmitUtterance(ctx context.Context, sessionID, text string, confidence float64) ([]session.Announcement, error) {
	ctx, span := util.StartSpan(ctx, "PickingService.SubmitUtterance")
	defer span.End()

	machine, err := s.machine(sessionID)
	if err != nil {
		return nil, err
	}

	announcements, err := machine.SubmitUtterance(ctx, text, confidence)
	if err != nil {
		return nil, err
	}

	s.cacheSnapshot(ctx, machine)
	if machine.State() == session.StateCompleted {
		s.finish(ctx, machine)
	}
	return announcements, nil
}

// Previous steps the session's cursor back one item.
func (s *PickingService) Previous(ctx context.Context, sessionID string) ([]session.Announcement, error) {
	machine, err := s.machine(sessionID)
	if err != nil {
		return nil, err
	}
	return machine.Previous(ctx)
}

// Repeat re-announces the session's current item.
func (s *PickingService) Repeat(ctx context.Context, sessionID string) ([]session.Announcement, error) {
	machine, err := s.machine(sessionID)
	if err != nil {
		return nil, err
	}
	return machine.Repeat(ctx)
}

// SessionState describes one session to API consumers.
type SessionState struct {
	Session *models.PickingSession `json:"session"`
	State   string                 `json:"state,omitempty"`
	Cursor  int                    `json:"cursor"`
}

// GetSession returns a live session's state, falling back to the redis
// snapshot for sessions that already completed.
func (s *PickingService) GetSession(ctx context.Context, sessionID string) (*SessionState, error) {
	s.mu.Lock()
	machine, live := s.bySession[sessionID]
	s.mu.Unlock()

	if live {
		return &SessionState{
			Session: machine.Session(),
			State:   string(machine.State()),
			Cursor:  machine.Cursor(),
		}, nil
	}

	if s.redis == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	cached, err := s.redis.GetCachedSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return &SessionState{Session: cached, State: string(session.StateCompleted)}, nil
}

// HelpCatalog returns the spoken-command reference for a language.
func (s *PickingService) HelpCatalog(language string) ([]lexicon.HelpEntry, error) {
	return lexicon.HelpCatalog(language)
}

func (s *PickingService) machine(sessionID string) (*session.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	machine, ok := s.bySession[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return machine, nil
}

// finish drops a completed session from the registry; the cached
// snapshot stays behind for dashboards until its TTL.
func (s *PickingService) finish(ctx context.Context, machine *session.Machine) {
	sess := machine.Session()
	if sess == nil {
		return
	}

	s.mu.Lock()
	delete(s.bySession, sess.ID)
	delete(s.byPair, pairKey(sess.WorkerID, sess.OrderID))
	s.mu.Unlock()

	if s.redis != nil {
		if err := s.redis.UntrackActiveSession(ctx, warehouseID(machine), sess.ID); err != nil {
			s.logger.Warn("Failed to untrack session", zap.Error(err))
		}
	}

	s.logger.Info("Session retired from registry",
		zap.String("session_id", sess.ID),
		zap.Int64("order_id", sess.OrderID))
}

// cacheSnapshot is advisory: failures are logged, never surfaced to the
// worker. A nil redis client disables caching entirely; lookups then
// cover only live sessions.
func (s *PickingService) cacheSnapshot(ctx context.Context, machine *session.Machine) {
	if s.redis == nil {
		return
	}
	sess := machine.Session()
	if sess == nil {
		return
	}
	if err := s.redis.CacheSession(ctx, sess, s.opts.CacheTTL); err != nil {
		s.logger.Warn("Failed to cache session snapshot",
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}
}

func warehouseID(machine *session.Machine) int64 {
	if order := machine.Order(); order != nil {
		return order.WarehouseID
	}
	return 0
}

func pairKey(workerID, orderID int64) string {
	return fmt.Sprintf("%d:%d", workerID, orderID)
}
