// Package canvas holds the in-memory state of one outfit board: the placed
// clothing images, their geometry and stacking order, and the item currently
// being dragged.
package canvas

import (
	"math"
	"time"
)

const (
	gridMargin = 20.0
	gridGap    = 20.0

	cascadeStep  = 10.0
	cascadePages = 8
)

// Store owns the items of a single editing session. It is not safe for
// concurrent use; callers serialise access (see services.CanvasSession).
type Store struct {
	width    float64
	height   float64
	items    []CanvasItem
	activeID string

	now    func() time.Time
	newID  func(time.Time) string
	notify func(Notice)
}

type Option func(*Store)

// WithNotifier receives the notices produced by add, remove and clear.
func WithNotifier(fn func(Notice)) Option {
	return func(s *Store) { s.notify = fn }
}

func WithIDGenerator(fn func(time.Time) string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

func NewStore(width, height float64, opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		newID:  newItemID,
		notify: func(Notice) {},
	}
	s.Resize(width, height)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resize changes the bounds used to place new items. Items already on the
// board keep their position.
func (s *Store) Resize(width, height float64) {
	if width <= 0 {
		width = DefaultCanvasWidth
	}
	if height <= 0 {
		height = DefaultCanvasHeight
	}
	s.width = width
	s.height = height
}

func (s *Store) Bounds() (width, height float64) {
	return s.width, s.height
}

// AddItem places a new item on the next grid slot and returns it. An empty
// imageURL falls back to the placeholder image.
func (s *Store) AddItem(imageURL string) CanvasItem {
	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	x, y := s.nextSlot(len(s.items))
	item := CanvasItem{
		ID:       s.newID(s.now()),
		ImageURL: imageURL,
		X:        x,
		Y:        y,
		Width:    ItemWidth,
		Height:   ItemHeight,
		Rotation: 0,
		ZIndex:   len(s.items),
	}

	s.items = append(s.items, item)
	s.notify(Notice{Level: NoticeSuccess, Message: "Item added to outfit"})
	return item
}

// nextSlot lays items out row-major. Once the visible grid is full the next
// page starts over from the top left, shifted by cascadeStep per page so
// items never land exactly on top of earlier ones. The slot is clamped so the
// whole item stays on the board.
func (s *Store) nextSlot(n int) (float64, float64) {
	perRow := fitCount(s.width, ItemWidth)
	rows := fitCount(s.height, ItemHeight)
	perPage := perRow * rows

	slot := n % perPage
	page := (n / perPage) % cascadePages
	offset := float64(page) * cascadeStep

	x := gridMargin + float64(slot%perRow)*(ItemWidth+gridGap) + offset
	y := gridMargin + float64(slot/perRow)*(ItemHeight+gridGap) + offset

	return clamp(x, 0, s.width-ItemWidth), clamp(y, 0, s.height-ItemHeight)
}

// fitCount is how many items of size fit along an axis of length, at least one.
func fitCount(length, size float64) int {
	n := int(math.Floor((length - gridMargin) / (size + gridGap)))
	if n < 1 {
		return 1
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// BeginDrag marks id as active and brings it to the front.
func (s *Store) BeginDrag(id string) {
	if s.index(id) < 0 {
		return
	}
	s.activeID = id
	s.BringToFront(id)
}

// BringToFront sets the item's zIndex one above the current maximum.
func (s *Store) BringToFront(id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items[i].ZIndex = s.maxZIndex() + 1
}

// DragTo moves the item by a relative offset. Items may leave the visible
// board while dragging.
func (s *Store) DragTo(id string, dx, dy float64) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items[i].X += dx
	s.items[i].Y += dy
}

func (s *Store) EndDrag() {
	s.activeID = ""
}

func (s *Store) Rotate(id string, dir Direction) {
	i := s.index(id)
	if i < 0 {
		return
	}
	switch dir {
	case Clockwise:
		s.items[i].Rotation += RotationStep
	case Counterclockwise:
		s.items[i].Rotation -= RotationStep
	}
}

func (s *Store) RemoveItem(id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	s.notify(Notice{Level: NoticeSuccess, Message: "Item removed from outfit"})
}

func (s *Store) Clear() {
	s.items = nil
	s.activeID = ""
	s.notify(Notice{Level: NoticeInfo, Message: "Canvas cleared"})
}

// ReplaceAll swaps the whole collection, e.g. when a saved outfit is loaded.
func (s *Store) ReplaceAll(items []CanvasItem) {
	s.items = append([]CanvasItem(nil), items...)
	s.activeID = ""
}

// Items returns a copy of the current collection in insertion order.
func (s *Store) Items() []CanvasItem {
	out := make([]CanvasItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Item(id string) (CanvasItem, bool) {
	i := s.index(id)
	if i < 0 {
		return CanvasItem{}, false
	}
	return s.items[i], true
}

func (s *Store) ActiveID() (string, bool) {
	return s.activeID, s.activeID != ""
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) maxZIndex() int {
	if len(s.items) == 0 {
		return -1
	}
	top := s.items[0].ZIndex
	for _, item := range s.items[1:] {
		if item.ZIndex > top {
			top = item.ZIndex
		}
	}
	return top
}
