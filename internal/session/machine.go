// Package session owns the picking state machine: it holds the cursor
// over the order's items, validates parsed voice commands against the
// current item, and is the only caller of the data gateway during a
// session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"voicepick-service/internal/gateway"
	"voicepick-service/internal/locale"
	"voicepick-service/internal/models"
	"voicepick-service/internal/parser"
	"voicepick-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State of the machine. Applying, Rejected and Advancing are transient
// within a single SubmitUtterance call; the machine is observable only
// in the states below.
type State string

const (
	StateIdle            State = "idle"
	StateAnnouncing      State = "announcing"
	StateAwaitingCommand State = "awaiting_command"
	StateCompleted       State = "completed"
)

// DefaultMinConfidence is the acoustic confidence gate applied before
// the parsed action is consulted.
const DefaultMinConfidence = 0.6

// Announcement is one localized message for the worker, in speech order.
type Announcement struct {
	Text      string      `json:"text"`
	ItemIndex int         `json:"item_index"`
	Kind      locale.Kind `json:"-"`
}

// EventSink receives the events the machine emits. Publish failures are
// logged and never fail the command.
type EventSink interface {
	PublishSessionStarted(ctx context.Context, event *models.SessionStartedEvent) error
	PublishAnnouncement(ctx context.Context, event *models.AnnouncementEvent) error
	PublishMutationApplied(ctx context.Context, event *models.MutationAppliedEvent) error
	PublishSessionCompleted(ctx context.Context, event *models.SessionCompletedEvent) error
}

// Machine drives one (worker, order) picking session. All operations
// serialize behind one mutex; a second command submitted while one is
// pending is rejected, never interleaved, so at most one item mutation
// is in flight per session.
type Machine struct {
	gw            gateway.Gateway
	events        EventSink
	logger        *zap.Logger
	language      string
	minConfidence float64

	mu      sync.Mutex
	pending bool

	state   State
	session *models.PickingSession
	order   *models.Order
	items   []models.OrderItem
	cursor  int
}

// Option configures a Machine.
type Option func(*Machine)

// WithLanguage sets the session language (default "en").
func WithLanguage(language string) Option {
	return func(m *Machine) { m.language = language }
}

// WithMinConfidence overrides the confidence gate.
func WithMinConfidence(min float64) Option {
	return func(m *Machine) { m.minConfidence = min }
}

// NewMachine creates an idle machine bound to a gateway and event sink.
func NewMachine(gw gateway.Gateway, events EventSink, opts ...Option) *Machine {
	m := &Machine{
		gw:            gw,
		events:        events,
		logger:        util.NamedLogger("session"),
		language:      "en",
		minConfidence: DefaultMinConfidence,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the machine's current observable state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns a copy of the session record, or nil before load.
func (m *Machine) Session() *models.PickingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Order returns a copy of the loaded order, or nil before load.
func (m *Machine) Order() *models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order == nil {
		return nil
	}
	o := *m.order
	return &o
}

// Cursor returns the index of the item currently being picked.
func (m *Machine) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Language returns the session language.
func (m *Machine) Language() string {
	return m.language
}

// LoadOrder fetches the order's items, starts a picking session and
// announces item 0. Gateway failures here are fatal: the session never
// starts.
func (m *Machine) LoadOrder(ctx context.Context, workerID, orderID int64) (*models.PickingSession, []Announcement, error) {
	ctx, span := util.StartSpan(ctx, "Machine.LoadOrder")
	defer span.End()

	if !locale.Supported(m.language) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, m.language)
	}

	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return nil, nil, ErrAlreadyLoaded
	}
	m.pending = true
	m.mu.Unlock()
	defer m.clearPending()

	order, err := m.gw.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order: %w", err)
	}

	items, err := m.gw.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order items: %w", err)
	}
	if len(items) == 0 {
		return nil, nil, fmt.Errorf("%w: order %d", ErrEmptyOrder, orderID)
	}

	sess, err := m.gw.StartSession(ctx, workerID, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start session: %w", err)
	}

	m.mu.Lock()
	m.order = order
	m.items = items
	m.session = sess
	m.cursor = 0
	m.state = StateAnnouncing
	announcement := m.announceCurrentLocked(ctx)
	m.state = StateAwaitingCommand
	m.mu.Unlock()

	util.SessionsStartedTotal.Inc()
	m.logger.Info("Picking session started",
		zap.String("session_id", sess.ID),
		zap.Int64("order_id", orderID),
		zap.Int64("worker_id", workerID),
		zap.Int("total_items", sess.TotalItems))

	m.publishSessionStarted(ctx)

	return m.Session(), []Announcement{announcement}, nil
}

// SubmitUtterance parses one recognized utterance and applies it to the
// current item. The returned announcements are what the worker should
// hear, in order. Recoverable failures are announcements; the error
// return covers only structural misuse.
func (m *Machine) SubmitUtterance(ctx context.Context, text string, confidence float64) ([]Announcement, error) {
	ctx, span := util.StartSpan(ctx, "Machine.SubmitUtterance")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CommandProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	m.mu.Lock()
	switch {
	case m.state == StateIdle:
		m.mu.Unlock()
		return nil, ErrNotLoaded
	case m.state == StateCompleted:
		m.mu.Unlock()
		return nil, ErrSessionCompleted
	case m.pending:
		m.mu.Unlock()
		return nil, ErrCommandInFlight
	}
	m.pending = true
	m.mu.Unlock()
	defer m.clearPending()

	cmd, err := parser.Parse(text, m.language)
	if err != nil {
		return nil, err
	}
	util.CommandsParsedTotal.WithLabelValues(cmd.Action).Inc()

	// Hard gate: applied before the parsed action is consulted.
	if confidence < m.minConfidence {
		util.CommandsRejectedTotal.WithLabelValues("low_confidence").Inc()
		m.logger.Debug("Utterance below confidence gate",
			zap.String("text", cmd.Original),
			zap.Float64("confidence", confidence))
		return m.say(ctx, locale.KindNotUnderstood), nil
	}

	switch cmd.Action {
	case models.ActionPick:
		return m.handlePick(ctx, cmd.Quantity), nil
	case models.ActionConfirm:
		return m.handleConfirm(ctx), nil
	case models.ActionSkip:
		return m.handleSkip(ctx), nil
	case models.ActionRepeat:
		return m.handleRepeat(ctx), nil
	case models.ActionHelp:
		return m.say(ctx, locale.KindHelp), nil
	default:
		util.CommandsRejectedTotal.WithLabelValues("unknown_command").Inc()
		return m.say(ctx, locale.KindUnknownCommand), nil
	}
}

// Previous moves the cursor back one item and re-announces it. At the
// first item it only re-announces. Not allowed after completion.
func (m *Machine) Previous(ctx context.Context) ([]Announcement, error) {
	m.mu.Lock()
	switch {
	case m.state == StateIdle:
		m.mu.Unlock()
		return nil, ErrNotLoaded
	case m.state == StateCompleted:
		m.mu.Unlock()
		return nil, ErrSessionCompleted
	case m.pending:
		m.mu.Unlock()
		return nil, ErrCommandInFlight
	}
	if m.cursor > 0 {
		m.cursor--
	}
	announcement := m.announceCurrentLocked(ctx)
	m.mu.Unlock()

	return []Announcement{announcement}, nil
}

// Repeat re-announces the current item without touching any state.
func (m *Machine) Repeat(ctx context.Context) ([]Announcement, error) {
	m.mu.Lock()
	switch {
	case m.state == StateIdle:
		m.mu.Unlock()
		return nil, ErrNotLoaded
	case m.state == StateCompleted:
		m.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	announcement := m.announceCurrentLocked(ctx)
	m.mu.Unlock()

	return []Announcement{announcement}, nil
}

// handlePick validates the quantity against the current item and, if
// valid, persists the pick through the gateway. A quantity of zero is
// an explicit "picked none" and is treated as a skip: marking an item
// picked with zero units would hide a short pick from packing.
func (m *Machine) handlePick(ctx context.Context, quantity int) []Announcement {
	if quantity == 0 {
		return m.handleSkip(ctx)
	}

	m.mu.Lock()
	item := m.items[m.cursor]
	m.mu.Unlock()

	if quantity < 0 || quantity > item.QuantityOrdered {
		util.CommandsRejectedTotal.WithLabelValues("quantity_overflow").Inc()
		m.logger.Info("Pick rejected: overflow",
			zap.Int64("item_id", item.ID),
			zap.Int("requested", quantity),
			zap.Int("ordered", item.QuantityOrdered))
		return m.say(ctx, locale.KindOverflow, quantity, item.QuantityOrdered)
	}

	updated, err := m.gw.UpdateItem(ctx, item.ID, models.ItemStatusPicked, quantity)
	if err != nil {
		return m.gatewayFailure(ctx, "update_item", err)
	}

	m.mu.Lock()
	m.items[m.cursor] = *updated
	m.session.PickedItems = m.pickedCountLocked()
	m.mu.Unlock()

	util.ItemsPickedTotal.Inc()
	m.publishMutation(ctx, updated)

	if quantity < item.QuantityOrdered {
		return m.say(ctx, locale.KindShortPickRecorded, quantity, item.QuantityOrdered)
	}
	return m.say(ctx, locale.KindPickRecorded, quantity)
}

// handleConfirm advances past a picked item. Confirming an item that
// has not been picked is a spoken no-op and never moves the cursor.
func (m *Machine) handleConfirm(ctx context.Context) []Announcement {
	m.mu.Lock()
	item := m.items[m.cursor]
	m.mu.Unlock()

	if item.Status != models.ItemStatusPicked {
		util.CommandsRejectedTotal.WithLabelValues("nothing_to_confirm").Inc()
		return m.say(ctx, locale.KindNothingToConfirm)
	}

	return m.advance(ctx)
}

// handleSkip persists an explicit skip (status pending, zero picked)
// and always advances, regardless of the item's prior status.
func (m *Machine) handleSkip(ctx context.Context) []Announcement {
	m.mu.Lock()
	item := m.items[m.cursor]
	m.mu.Unlock()

	updated, err := m.gw.UpdateItem(ctx, item.ID, models.ItemStatusPending, 0)
	if err != nil {
		return m.gatewayFailure(ctx, "update_item", err)
	}

	m.mu.Lock()
	m.items[m.cursor] = *updated
	m.session.PickedItems = m.pickedCountLocked()
	m.mu.Unlock()

	util.ItemsSkippedTotal.Inc()
	m.publishMutation(ctx, updated)

	skipped := m.say(ctx, locale.KindSkipped)
	return append(skipped, m.advance(ctx)...)
}

func (m *Machine) handleRepeat(ctx context.Context) []Announcement {
	m.mu.Lock()
	announcement := m.announceCurrentLocked(ctx)
	m.mu.Unlock()
	return []Announcement{announcement}
}

// advance moves the cursor forward; past the last item it completes the
// session. The gateway completion call happens before any state
// mutation so a failure leaves the machine where it was.
func (m *Machine) advance(ctx context.Context) []Announcement {
	m.mu.Lock()
	last := len(m.items) - 1
	atLast := m.cursor >= last
	picked := m.pickedCountLocked()
	sess := m.session
	m.mu.Unlock()

	if !atLast {
		m.mu.Lock()
		m.cursor++
		m.state = StateAnnouncing
		announcement := m.announceCurrentLocked(ctx)
		m.state = StateAwaitingCommand
		m.mu.Unlock()
		return []Announcement{announcement}
	}

	if err := m.gw.CompleteSession(ctx, sess.ID, picked); err != nil {
		return m.gatewayFailure(ctx, "complete_session", err)
	}

	now := time.Now().UTC()
	m.mu.Lock()
	m.session.Status = models.SessionStatusCompleted
	m.session.PickedItems = picked
	m.session.CompletedAt = &now
	m.state = StateCompleted
	m.mu.Unlock()

	util.SessionsCompletedTotal.Inc()
	m.logger.Info("Picking session completed",
		zap.String("session_id", sess.ID),
		zap.Int64("order_id", sess.OrderID),
		zap.Int("picked_items", picked),
		zap.Int("total_items", sess.TotalItems))

	m.publishSessionCompleted(ctx, picked)

	return m.say(ctx, locale.KindCompleted)
}

// gatewayFailure converts any gateway error into a spoken explanation
// and leaves the machine state unchanged. Nothing is retried; the
// worker's next utterance is the retry.
func (m *Machine) gatewayFailure(ctx context.Context, operation string, err error) []Announcement {
	util.GatewayFailuresTotal.WithLabelValues(operation).Inc()

	if errors.Is(err, gateway.ErrItemNotFound) {
		m.logger.Error("Item missing during picking",
			zap.String("operation", operation),
			zap.Error(err))
		return m.say(ctx, locale.KindItemNotFound)
	}

	m.logger.Warn("Gateway unavailable, command aborted",
		zap.String("operation", operation),
		zap.Error(err))
	return m.say(ctx, locale.KindGatewayError)
}

// say renders one localized message and publishes it as an announcement.
func (m *Machine) say(ctx context.Context, kind locale.Kind, args ...interface{}) []Announcement {
	m.mu.Lock()
	cursor := m.cursor
	m.mu.Unlock()

	announcement := Announcement{
		Text:      locale.Message(m.language, kind, args...),
		ItemIndex: cursor,
		Kind:      kind,
	}
	m.publishAnnouncement(ctx, announcement)
	return []Announcement{announcement}
}

// announceCurrentLocked builds the location+quantity announcement for
// the cursor item. Callers hold m.mu.
func (m *Machine) announceCurrentLocked(ctx context.Context) Announcement {
	item := m.items[m.cursor]

	name, location := fmt.Sprintf("item %d", item.ProductID), "unknown"
	if item.Product != nil {
		name = item.Product.Name
		location = item.Product.Location()
	}

	announcement := Announcement{
		Text:      locale.Message(m.language, locale.KindItemAnnouncement, item.QuantityOrdered, name, location),
		ItemIndex: m.cursor,
		Kind:      locale.KindItemAnnouncement,
	}
	m.publishAnnouncement(ctx, announcement)
	return announcement
}

func (m *Machine) pickedCountLocked() int {
	picked := 0
	for _, item := range m.items {
		if item.Status == models.ItemStatusPicked {
			picked++
		}
	}
	return picked
}

func (m *Machine) clearPending() {
	m.mu.Lock()
	m.pending = false
	m.mu.Unlock()
}

func (m *Machine) publishSessionStarted(ctx context.Context) {
	if m.events == nil {
		return
	}
	event := &models.SessionStartedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeSessionStarted),
		SessionID:   m.session.ID,
		OrderID:     m.session.OrderID,
		WorkerID:    m.session.WorkerID,
		WarehouseID: m.order.WarehouseID,
		TotalItems:  m.session.TotalItems,
	}
	if err := m.events.PublishSessionStarted(ctx, event); err != nil {
		m.logger.Error("Failed to publish SessionStarted event", zap.Error(err))
	}
}

func (m *Machine) publishAnnouncement(ctx context.Context, announcement Announcement) {
	util.AnnouncementsTotal.WithLabelValues(m.language).Inc()
	if m.events == nil || m.session == nil {
		return
	}
	event := &models.AnnouncementEvent{
		BaseEvent: newBaseEvent(models.EventTypeAnnouncement),
		SessionID: m.session.ID,
		Text:      announcement.Text,
		Language:  m.language,
		ItemIndex: announcement.ItemIndex,
	}
	if err := m.events.PublishAnnouncement(ctx, event); err != nil {
		m.logger.Error("Failed to publish Announcement event", zap.Error(err))
	}
}

func (m *Machine) publishMutation(ctx context.Context, item *models.OrderItem) {
	if m.events == nil {
		return
	}
	event := &models.MutationAppliedEvent{
		BaseEvent:      newBaseEvent(models.EventTypeMutationApplied),
		SessionID:      m.session.ID,
		WorkerID:       m.session.WorkerID,
		WarehouseID:    m.order.WarehouseID,
		ItemID:         item.ID,
		QuantityPicked: item.QuantityPicked,
		Status:         item.Status,
	}
	if err := m.events.PublishMutationApplied(ctx, event); err != nil {
		m.logger.Error("Failed to publish MutationApplied event", zap.Error(err))
	}
}

func (m *Machine) publishSessionCompleted(ctx context.Context, picked int) {
	if m.events == nil {
		return
	}
	event := &models.SessionCompletedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeSessionCompleted),
		SessionID:   m.session.ID,
		OrderID:     m.session.OrderID,
		WorkerID:    m.session.WorkerID,
		WarehouseID: m.order.WarehouseID,
		PickedItems: picked,
		TotalItems:  m.session.TotalItems,
	}
	if err := m.events.PublishSessionCompleted(ctx, event); err != nil {
		m.logger.Error("Failed to publish SessionCompleted event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}
