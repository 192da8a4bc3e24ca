package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"wardrobeAPI/internal/canvas"
	"wardrobeAPI/internal/types/outfit"
)

// Register chan - a websocket client is handed to the session's Run loop,
// which adds it to the clients map. Every read or write of the canvas store
// happens inside Run, so the store needs no lock of its own.

var ErrSessionClosed = errors.New("canvas session closed")

const defaultCanvasIdleTimeout = 30 * time.Minute

var canvasSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "wardrobe_canvas_sessions_active",
	Help: "Outfit canvas sessions currently held in memory",
})

type CanvasAction string

const (
	ActionAdd          CanvasAction = "add"
	ActionDragStart    CanvasAction = "drag_start"
	ActionDrag         CanvasAction = "drag"
	ActionDragEnd      CanvasAction = "drag_end"
	ActionRotate       CanvasAction = "rotate"
	ActionBringToFront CanvasAction = "bring_to_front"
	ActionRemove       CanvasAction = "remove"
	ActionClear        CanvasAction = "clear"
	ActionResize       CanvasAction = "resize"
	ActionRename       CanvasAction = "rename"
)

// CanvasCommand is one gesture sent by a client. Commands naming an unknown
// item are applied as no-ops.
type CanvasCommand struct {
	Action    CanvasAction     `json:"action"`
	ID        string           `json:"id,omitempty"`
	ImageURL  string           `json:"imageUrl,omitempty"`
	DX        float64          `json:"dx,omitempty"`
	DY        float64          `json:"dy,omitempty"`
	Direction canvas.Direction `json:"direction,omitempty"`
	Width     float64          `json:"width,omitempty"`
	Height    float64          `json:"height,omitempty"`
	Name      string           `json:"name,omitempty"`
}

func (c CanvasCommand) validate() error {
	switch c.Action {
	case ActionAdd, ActionDragEnd, ActionClear, ActionResize:
		return nil
	case ActionDragStart, ActionDrag, ActionRemove, ActionBringToFront:
		if c.ID == "" {
			return fmt.Errorf("%s needs an item id: %w", c.Action, ErrInvalidInput)
		}
		return nil
	case ActionRotate:
		if c.ID == "" {
			return fmt.Errorf("rotate needs an item id: %w", ErrInvalidInput)
		}
		if c.Direction != canvas.Clockwise && c.Direction != canvas.Counterclockwise {
			return fmt.Errorf("unknown direction %q: %w", c.Direction, ErrInvalidInput)
		}
		return nil
	case ActionRename:
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("rename needs a name: %w", ErrInvalidInput)
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q: %w", c.Action, ErrInvalidInput)
	}
}

type CanvasSnapshot struct {
	SessionID string              `json:"sessionId"`
	Name      string              `json:"name"`
	Width     float64             `json:"width"`
	Height    float64             `json:"height"`
	Items     []canvas.CanvasItem `json:"items"`
	ActiveID  string              `json:"activeId,omitempty"`
	Clients   int                 `json:"clients"`
}

// CanvasEvent is what clients receive: a fresh snapshot after every change,
// or an error meant for the sender only.
type CanvasEvent struct {
	Action   string          `json:"action"`
	Snapshot *CanvasSnapshot `json:"snapshot,omitempty"`
	Notices  []canvas.Notice `json:"notices,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type CanvasSession struct {
	ID      string
	OwnerID string

	Register   chan *CanvasClient
	Unregister chan *CanvasClient
	ops        chan func()
	quit       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once

	// owned by Run
	name    string
	store   *canvas.Store
	clients map[*CanvasClient]bool
	pending []canvas.Notice

	now         func() time.Time
	lastActive  atomic.Int64
	clientCount atomic.Int32
	logger      *zap.Logger
}

func newCanvasSession(id, ownerID, name string, width, height float64, now func() time.Time, logger *zap.Logger) *CanvasSession {
	s := &CanvasSession{
		ID:         id,
		OwnerID:    ownerID,
		Register:   make(chan *CanvasClient),
		Unregister: make(chan *CanvasClient),
		ops:        make(chan func()),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		name:       name,
		clients:    make(map[*CanvasClient]bool),
		now:        now,
		logger:     logger.With(zap.String("session_id", id)),
	}
	s.store = canvas.NewStore(width, height, canvas.WithNotifier(func(n canvas.Notice) {
		s.pending = append(s.pending, n)
	}))
	s.touch()
	return s
}

func (s *CanvasSession) Run() {
	defer close(s.done)

	for {
		select {
		case client := <-s.Register:
			s.clients[client] = true
			s.clientCount.Store(int32(len(s.clients)))
			s.touch()
			s.logger.Debug("canvas client connected", zap.Int("clients", len(s.clients)))
			s.sendTo(client, s.event("snapshot"))

		case client := <-s.Unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.Send)
				s.clientCount.Store(int32(len(s.clients)))
			}
			s.touch()

		case op := <-s.ops:
			op()
			s.touch()

		case <-s.quit:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.Send)
			}
			s.clientCount.Store(0)
			return
		}
	}
}

// do runs op on the Run goroutine.
func (s *CanvasSession) do(op func()) error {
	select {
	case s.ops <- op:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Join registers a client unless the session is already closed.
func (s *CanvasSession) Join(c *CanvasClient) bool {
	select {
	case s.Register <- c:
		return true
	case <-s.done:
		return false
	}
}

func (s *CanvasSession) leave(c *CanvasClient) {
	select {
	case s.Unregister <- c:
	case <-s.done:
	}
}

// Apply validates cmd and applies it in order with every other command of the
// session. All clients then receive the new snapshot.
func (s *CanvasSession) Apply(cmd CanvasCommand) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	return s.do(func() {
		s.apply(cmd)
		s.broadcast(s.event(string(cmd.Action)))
	})
}

func (s *CanvasSession) apply(cmd CanvasCommand) {
	switch cmd.Action {
	case ActionAdd:
		s.store.AddItem(cmd.ImageURL)
	case ActionDragStart:
		s.store.BeginDrag(cmd.ID)
	case ActionDrag:
		s.store.DragTo(cmd.ID, cmd.DX, cmd.DY)
	case ActionDragEnd:
		s.store.EndDrag()
	case ActionRotate:
		s.store.Rotate(cmd.ID, cmd.Direction)
	case ActionBringToFront:
		s.store.BringToFront(cmd.ID)
	case ActionRemove:
		s.store.RemoveItem(cmd.ID)
	case ActionClear:
		s.store.Clear()
	case ActionResize:
		s.store.Resize(cmd.Width, cmd.Height)
	case ActionRename:
		s.name = strings.TrimSpace(cmd.Name)
	}
}

// Snapshot returns a copy of the current board.
func (s *CanvasSession) Snapshot() (CanvasSnapshot, error) {
	reply := make(chan CanvasSnapshot, 1)
	if err := s.do(func() { reply <- s.snapshot() }); err != nil {
		return CanvasSnapshot{}, err
	}
	return <-reply, nil
}

func (s *CanvasSession) snapshot() CanvasSnapshot {
	w, h := s.store.Bounds()
	active, _ := s.store.ActiveID()
	return CanvasSnapshot{
		SessionID: s.ID,
		Name:      s.name,
		Width:     w,
		Height:    h,
		Items:     s.store.Items(),
		ActiveID:  active,
		Clients:   len(s.clients),
	}
}

func (s *CanvasSession) event(action string) CanvasEvent {
	snap := s.snapshot()
	ev := CanvasEvent{Action: action, Snapshot: &snap, Notices: s.pending}
	s.pending = nil
	return ev
}

func (s *CanvasSession) broadcast(ev CanvasEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to encode canvas event", zap.Error(err))
		return
	}
	for client := range s.clients {
		select {
		case client.Send <- data:
		default:
			// slow client, drop it
			close(client.Send)
			delete(s.clients, client)
			s.clientCount.Store(int32(len(s.clients)))
		}
	}
}

func (s *CanvasSession) sendTo(client *CanvasClient, ev CanvasEvent) {
	if _, ok := s.clients[client]; !ok {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

// replyError sends err to one client only.
func (s *CanvasSession) replyError(client *CanvasClient, err error) {
	_ = s.do(func() {
		s.sendTo(client, CanvasEvent{Action: "error", Error: err.Error()})
	})
}

func (s *CanvasSession) touch() {
	s.lastActive.Store(s.now().UnixNano())
}

func (s *CanvasSession) idleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastActive.Load()))
}

// Close stops Run, disconnects all clients and waits for the loop to exit.
func (s *CanvasSession) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
}

// OutfitStore is satisfied by *OutfitService.
type OutfitStore interface {
	SaveOutfit(ctx context.Context, clerkID string, req *outfit.SaveOutfitRequest) (*outfit.Outfit, error)
	GetOutfit(ctx context.Context, clerkID, outfitID string) (*outfit.Outfit, error)
}

type CreateCanvasRequest struct {
	Name     string  `json:"name"`
	OutfitID string  `json:"outfitId,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

// CanvasSessionManager holds every live canvas session.
type CanvasSessionManager struct {
	sessions map[string]*CanvasSession
	mu       sync.RWMutex

	outfits     OutfitStore
	width       float64
	height      float64
	idleTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger

	ticketMu sync.Mutex
	tickets  map[string]joinTicket

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCanvasSessionManager uses width and height for sessions created without
// explicit bounds. Non-positive values mean the canvas defaults.
func NewCanvasSessionManager(outfits OutfitStore, width, height float64, logger *zap.Logger) *CanvasSessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CanvasSessionManager{
		sessions:    make(map[string]*CanvasSession),
		outfits:     outfits,
		width:       width,
		height:      height,
		idleTimeout: defaultCanvasIdleTimeout,
		now:         time.Now,
		logger:      logger,
		tickets:     make(map[string]joinTicket),
		stopChan:    make(chan struct{}),
	}
}

// Create starts a session owned by clerkID. With OutfitID set, the board is
// loaded from that saved outfit.
func (m *CanvasSessionManager) Create(ctx context.Context, clerkID string, req *CreateCanvasRequest) (*CanvasSession, error) {
	name := strings.TrimSpace(req.Name)
	var items []canvas.CanvasItem
	if req.OutfitID != "" {
		o, err := m.outfits.GetOutfit(ctx, clerkID, req.OutfitID)
		if err != nil {
			return nil, err
		}
		items = o.Items
		if name == "" {
			name = o.Name
		}
	}
	if name == "" {
		name = DefaultOutfitName
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = m.width
	}
	if height <= 0 {
		height = m.height
	}

	s := newCanvasSession(uuid.New().String(), clerkID, name, width, height, m.now, m.logger)
	if items != nil {
		s.store.ReplaceAll(items)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	go s.Run()
	canvasSessionsActive.Inc()
	m.logger.Info("canvas session created", zap.String("session_id", s.ID), zap.Int("items", len(items)))
	return s, nil
}

func (m *CanvasSessionManager) Get(sessionID string) (*CanvasSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// GetOwned hides sessions of other users behind ErrNotFound.
func (m *CanvasSessionManager) GetOwned(sessionID, clerkID string) (*CanvasSession, error) {
	s, ok := m.Get(sessionID)
	if !ok || s.OwnerID != clerkID {
		return nil, fmt.Errorf("canvas session %s: %w", sessionID, ErrNotFound)
	}
	return s, nil
}

func (m *CanvasSessionManager) Delete(sessionID, clerkID string) error {
	s, err := m.GetOwned(sessionID, clerkID)
	if err != nil {
		return err
	}
	m.remove(s)
	return nil
}

func (m *CanvasSessionManager) remove(s *CanvasSession) {
	m.mu.Lock()
	_, ok := m.sessions[s.ID]
	delete(m.sessions, s.ID)
	m.mu.Unlock()

	s.Close()
	if ok {
		canvasSessionsActive.Dec()
	}
}

// Save stores the current board as an outfit. The board itself is never
// changed by a save, so a failed save can simply be retried.
func (m *CanvasSessionManager) Save(ctx context.Context, sessionID, clerkID, name string) (*outfit.Outfit, error) {
	s, err := m.GetOwned(sessionID, clerkID)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name == "" {
		name = snap.Name
	}
	o, err := m.outfits.SaveOutfit(ctx, clerkID, &outfit.SaveOutfitRequest{Name: name, Items: snap.Items})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CleanupIdle closes sessions with no connected client that have been idle
// longer than the timeout.
func (m *CanvasSessionManager) CleanupIdle() int {
	now := m.now()

	m.mu.RLock()
	var idle []*CanvasSession
	for _, s := range m.sessions {
		if s.clientCount.Load() == 0 && s.idleFor(now) > m.idleTimeout {
			idle = append(idle, s)
		}
	}
	m.mu.RUnlock()

	for _, s := range idle {
		m.remove(s)
	}
	m.pruneTickets(now)
	if len(idle) > 0 {
		m.logger.Info("expired idle canvas sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

func (m *CanvasSessionManager) StartJanitor(interval time.Duration) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.CleanupIdle()
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Shutdown stops the janitor and closes every session.
func (m *CanvasSessionManager) Shutdown() {
	m.stopOnce.Do(func() { close(m.stopChan) })
	m.wg.Wait()

	m.mu.RLock()
	all := make([]*CanvasSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	for _, s := range all {
		m.remove(s)
	}
}
