/*
Package chat contains the core logic for proximity membership and message relay.

This file defines the Hub, the single owner of the presence registry and the
per-user delivery channels. All inbound events (join, move, disconnect, message)
funnel into one buffered channel and are processed one at a time by Run, so no
reader ever observes a partially updated user record. Deliveries are unicast:
every push targets exactly one user's channel, never the whole population.
*/
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mapchat/internal/app/presence"
	"mapchat/internal/app/storage"
	"mapchat/internal/app/user"
	"mapchat/internal/pkg/errs"
	"mapchat/internal/pkg/logx"
	"mapchat/internal/pkg/metrics"
	"mapchat/internal/pkg/randx"
)

const eventChannelBuffer = 1024

// Hub coordinates the registry, the proximity fan-out, and the message relay.
type Hub struct {
	// registry holds the authoritative record for every joined user.
	registry *presence.Registry

	// rangeMeters is the fixed proximity range for this process.
	rangeMeters float64

	// store and janitor handle voice clip offloading. Both are nil when the
	// server runs without object storage.
	store   storage.StorageService
	janitor *storage.Janitor

	// clients maps user ID to its connection, the user's private channel.
	// Only the Run goroutine touches this map.
	clients map[string]*Client

	// events is the single inbound stream consumed by Run.
	events chan Event

	// stop signals Run to exit.
	stop chan struct{}

	// wg is used to wait for Run to finish during shutdown.
	wg sync.WaitGroup

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub. store and janitor may be nil to disable voice clip
// offloading. Call Run (as a goroutine) to start processing.
func NewHub(rangeMeters float64, registry *presence.Registry, store storage.StorageService, janitor *storage.Janitor) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	h := &Hub{
		registry:    registry,
		rangeMeters: rangeMeters,
		store:       store,
		janitor:     janitor,
		clients:     make(map[string]*Client),
		events:      make(chan Event, eventChannelBuffer),
		stop:        make(chan struct{}),
		logger:      hubLogger,
	}

	h.wg.Add(1)

	return h
}

// Submit queues an inbound event for processing. Returns false when the event
// was dropped because the hub is stopping or its buffer is full; per the
// best-effort delivery policy the caller does not retry.
func (h *Hub) Submit(ev Event) bool {
	select {
	case <-h.stop:
		return false
	default:
	}

	select {
	case h.events <- ev:
		return true
	default:
		h.logger.Warn().Str("event", ev.eventType()).Msg("Event channel full, dropping event.")
		return false
	}
}

// Run is the main event loop. It processes events strictly in arrival order
// and is meant to be started as a goroutine, exactly once per Hub.
func (h *Hub) Run() {
	defer func() {
		for _, client := range h.clients {
			client.closeSend()
		}

		h.wg.Done()
	}()

	h.logger.Info().Float64("range_meters", h.rangeMeters).Msg("Hub event loop started.")

	for {
		select {
		case ev := <-h.events:
			start := time.Now()
			h.dispatch(ev)
			metrics.EventLatency.Observe(time.Since(start).Seconds())

		case <-h.stop:
			h.logger.Info().Msg("Hub event loop stopped.")
			return
		}
	}
}

// Shutdown signals Run to exit and waits for it to finish.
func (h *Hub) Shutdown() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}

	h.wg.Wait()
}

// dispatch routes one event to its handler. A fault in a single event must
// never corrupt the registry or crash the process, so handlers reject bad
// input and return instead of propagating errors.
func (h *Hub) dispatch(ev Event) {
	switch e := ev.(type) {
	case JoinEvent:
		h.handleJoin(e)

	case MoveEvent:
		h.handleMove(e)

	case TextMessageEvent:
		h.relayMessage(e.Client, e.Message, TypeMessageSend, MessageTypeText)

	case VoiceMessageEvent:
		h.relayMessage(e.Client, e.Message, TypeMessageVoice, MessageTypeVoice)

	case DisconnectEvent:
		h.handleDisconnect(e)

	default:
		h.logger.Warn().Str("event", ev.eventType()).Msg("Unhandled event type.")
	}
}

// handleJoin upserts the joining user and binds its connection as the user's
// private channel, kicking any previous connection bound to the same ID.
func (h *Hub) handleJoin(e JoinEvent) {
	u := e.User

	if err := u.Validate(); err != nil {
		h.logger.Warn().Err(err).Str("conn_id", e.Client.connID).Msg("Rejected join with invalid user record.")
		e.Client.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if u.Color == "" {
		u.Color = randx.UserColor()
	}

	if existing, ok := h.clients[u.ID]; ok && existing != e.Client {
		h.logger.Warn().
			Str("user_id", u.ID).
			Msg("User ID already connected. Closing old connection for replacement.")

		existing.Kick("Session replaced by new connection. Check other tabs.")
	}

	if err := h.registry.Upsert(u); err != nil {
		h.logger.Error().Err(err).Msg("Failed to upsert joining user.")
		e.Client.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	h.clients[u.ID] = e.Client
	e.Client.userID = u.ID

	metrics.RegistrySize.Set(float64(h.registry.Len()))

	h.logger.Info().
		Str("user_id", u.ID).
		Str("name", u.Name).
		Int("total_users", h.registry.Len()).
		Msg("User joined.")

	h.notifyAffected(u)
}

// handleMove overwrites the user's registry entry with its new position and
// re-notifies everyone whose neighbor set the move may have changed.
func (h *Hub) handleMove(e MoveEvent) {
	if e.Client.userID == "" {
		e.Client.SendError(errs.NewError(errs.ErrJoinRequired))
		return
	}

	u := e.User

	if u.ID != e.Client.userID {
		h.logger.Warn().
			Str("bound_user_id", e.Client.userID).
			Str("event_user_id", u.ID).
			Msg("Rejected move for a different user than the connection joined as.")
		e.Client.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if err := u.Validate(); err != nil {
		h.logger.Warn().Err(err).Str("user_id", u.ID).Msg("Rejected move with invalid user record.")
		e.Client.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	// Users near the old position must also be re-notified: the move may have
	// taken u out of their range, and only they would know.
	var before []user.User
	if prev, existed := h.registry.Get(u.ID); existed {
		before = h.registry.Nearby(prev, h.rangeMeters)
	}

	if err := h.registry.Upsert(u); err != nil {
		h.logger.Error().Err(err).Msg("Failed to upsert moving user.")
		return
	}

	after := h.registry.Nearby(u, h.rangeMeters)

	h.pushProximitySet(u.ID, after)

	notified := make(map[string]struct{}, len(after)+len(before))
	for _, v := range append(after, before...) {
		if _, done := notified[v.ID]; done {
			continue
		}
		notified[v.ID] = struct{}{}
		h.pushProximity(v.ID)
	}
}

// handleDisconnect removes the connection's user from the registry, then
// re-notifies the users who were near the departed position.
func (h *Hub) handleDisconnect(e DisconnectEvent) {
	id := e.Client.userID
	if id == "" {
		// The connection never completed a join; nothing to clean up.
		return
	}

	current, ok := h.clients[id]
	if !ok || current != e.Client {
		h.logger.Info().Str("user_id", id).Msg("Ignoring disconnect for stale connection.")
		return
	}

	// Capture the record before removal: the departed position determines who
	// must be told they lost a neighbor.
	departed, found := h.registry.Get(id)

	delete(h.clients, id)
	h.registry.Remove(id)

	metrics.RegistrySize.Set(float64(h.registry.Len()))

	h.logger.Info().
		Str("user_id", id).
		Int("total_users", h.registry.Len()).
		Msg("User disconnected.")

	if found {
		for _, v := range h.registry.Nearby(departed, h.rangeMeters) {
			h.pushProximity(v.ID)
		}
	}
}

// notifyAffected pushes a fresh neighbor set to u and to every user currently
// near u. Each affected user's set is recomputed from the live registry.
func (h *Hub) notifyAffected(u user.User) {
	nearby := h.registry.Nearby(u, h.rangeMeters)

	h.pushProximitySet(u.ID, nearby)

	for _, v := range nearby {
		h.pushProximity(v.ID)
	}
}

// pushProximity recomputes the neighbor set for the user with the given ID
// and pushes it to that user's channel.
func (h *Hub) pushProximity(id string) {
	v, ok := h.registry.Get(id)
	if !ok {
		// The user vanished between the scan and the push; skip it.
		return
	}

	h.pushProximitySet(id, h.registry.Nearby(v, h.rangeMeters))
}

// pushProximitySet delivers a proximity:update frame carrying the given set
// to the private channel of the user with the given ID. The push is
// fire-and-forget: a missing or saturated channel loses the update.
func (h *Hub) pushProximitySet(id string, nearby []user.User) {
	client, ok := h.clients[id]
	if !ok {
		return
	}

	frame, err := NewFrame(TypeProximityUpdate, nearby)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", id).Msg("Failed to build proximity update frame.")
		return
	}

	client.enqueue(frame)
	metrics.ProximityUpdatesTotal.Inc()
}

// relayMessage delivers a message to its sender and the sender's current
// neighbor set. A message whose declared sender is not in the registry is
// dropped silently: that is the expected race between a disconnect and an
// in-flight message, not an error anyone needs to hear about.
func (h *Hub) relayMessage(c *Client, m Message, frameType string, messageType string) {
	sender, ok := h.registry.Get(m.UserID)
	if !ok {
		metrics.MessagesTotal.WithLabelValues("dropped").Inc()
		h.logger.Debug().Str("user_id", m.UserID).Msg("Dropped message from unknown sender.")
		return
	}

	m.Type = messageType
	if m.ID == "" {
		m.ID = randx.MessageID()
	}

	if messageType == MessageTypeVoice && h.store != nil && IsVoiceKey(m.AudioURL) {
		url, err := h.presignVoiceClip(m.AudioURL)
		if err != nil {
			h.logger.Error().Err(err).Str("key", m.AudioURL).Msg("Failed to presign voice clip for relay.")
			c.SendError(errs.NewError(errs.ErrStorageFailed))
			metrics.MessagesTotal.WithLabelValues("dropped").Inc()
			return
		}
		m.AudioURL = url
	}

	frame, err := NewFrame(frameType, m)
	if err != nil {
		h.logger.Error().Err(err).Str("message_id", m.ID).Msg("Failed to build message frame.")
		return
	}

	h.deliver(sender.ID, frame)

	for _, v := range h.registry.Nearby(sender, h.rangeMeters) {
		h.deliver(v.ID, frame)
	}

	metrics.MessagesTotal.WithLabelValues(messageType).Inc()
}

// presignVoiceClip converts a stored clip key into a short-lived download URL
// so recipients can fetch the audio without storage credentials.
func (h *Hub) presignVoiceClip(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return h.store.PresignDownload(ctx, key, PresignedURLDuration)
}

// deliver pushes a frame to the private channel of the user with the given
// ID, if that user currently has a connection.
func (h *Hub) deliver(id string, frame []byte) {
	if client, ok := h.clients[id]; ok {
		client.enqueue(frame)
	}
}
