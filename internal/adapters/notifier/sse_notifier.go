package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/session"
)

const (
	EventFavourites = "favourites"

	queueSize  = 256
	clientSize = 32
)

// ClientChannel receives ready-to-write SSE frames for one open stream.
type ClientChannel chan []byte

type favouritesUpdate struct {
	sessionID uuid.UUID
	snap      favourites.Snapshot
}

type favouritesMessage struct {
	Version      uint64   `json:"version"`
	Count        int      `json:"count"`
	FavouriteIDs []string `json:"favourite_ids"`
}

// SSENotifier pushes favourites snapshots to every stream a session has
// open. One session may have several tabs.
type SSENotifier struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]ClientChannel

	updates chan favouritesUpdate
	logger  port.LoggerPort
}

func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {
	return &SSENotifier{
		clients: make(map[uuid.UUID][]ClientChannel),
		updates: make(chan favouritesUpdate, queueSize),
		logger:  baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}
}

// Watch subscribes the notifier to a session's favourites. It is meant for
// session.Registry.OnCreate.
func (n *SSENotifier) Watch(s *session.Session) {
	id := s.ID
	s.Favourites.Subscribe(func(snap favourites.Snapshot) {
		n.Notify(id, snap)
	})
}

// Notify queues snap for delivery. It never blocks: store listeners run
// while the session is locked.
func (n *SSENotifier) Notify(sessionID uuid.UUID, snap favourites.Snapshot) {
	select {
	case n.updates <- favouritesUpdate{sessionID: sessionID, snap: snap}:
	default:
		n.logger.Warn("Notifier queue is full, update dropped", port.Fields{"session_id": sessionID})
	}
}

// Run dispatches queued updates until ctx is done.
func (n *SSENotifier) Run(ctx context.Context) {
	n.logger.Debug("Notifier dispatcher started", nil)
	for {
		select {
		case <-ctx.Done():
			n.logger.Debug("Notifier dispatcher stopped", nil)
			return
		case u := <-n.updates:
			n.dispatch(u)
		}
	}
}

// Frame renders snap as an SSE frame.
func Frame(snap favourites.Snapshot) ([]byte, error) {
	body, err := json.Marshal(favouritesMessage{
		Version:      snap.Version,
		Count:        snap.Len(),
		FavouriteIDs: snap.IDs(),
	})
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", EventFavourites, body)), nil
}

func (n *SSENotifier) dispatch(u favouritesUpdate) {
	logger := n.logger.WithFields(port.Fields{"session_id": u.sessionID, "version": u.snap.Version})

	frame, err := Frame(u.snap)
	if err != nil {
		logger.Error("Failed to encode favourites update", err, nil)
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels := n.clients[u.sessionID]
	if len(channels) == 0 {
		logger.Debug("No open streams for session, update dropped", nil)
		return
	}
	for _, ch := range channels {
		select {
		case ch <- frame:
		default:
			logger.Warn("Client channel is full, skipping", nil)
		}
	}
}

// AddClient registers a new stream for sessionID.
func (n *SSENotifier) AddClient(sessionID uuid.UUID) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, clientSize)
	n.clients[sessionID] = append(n.clients[sessionID], ch)
	n.logger.Info("Client connected", port.Fields{
		"session_id":  sessionID,
		"connections": len(n.clients[sessionID]),
	})
	return ch
}

// RemoveClient forgets a stream when its connection closes.
func (n *SSENotifier) RemoveClient(sessionID uuid.UUID, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels := n.clients[sessionID]
	kept := channels[:0]
	for _, c := range channels {
		if c != ch {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(n.clients, sessionID)
	} else {
		n.clients[sessionID] = kept
	}
	n.logger.Debug("Client disconnected", port.Fields{"session_id": sessionID, "remaining": len(kept)})
}

// Clients returns the number of open streams for sessionID.
func (n *SSENotifier) Clients(sessionID uuid.UUID) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients[sessionID])
}
