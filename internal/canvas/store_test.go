package canvas

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(width, height float64, notices *[]Notice) *Store {
	n := 0
	return NewStore(width, height,
		WithIDGenerator(func(time.Time) string {
			n++
			return fmt.Sprintf("item-%d", n)
		}),
		WithNotifier(func(notice Notice) {
			if notices != nil {
				*notices = append(*notices, notice)
			}
		}),
	)
}

func TestAddItemZIndexAndBounds(t *testing.T) {
	sizes := []struct{ w, h float64 }{
		{500, 400},
		{800, 600},
		{160, 160},
		{100, 90},
	}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("%vx%v", size.w, size.h), func(t *testing.T) {
			s := newTestStore(size.w, size.h, nil)
			for i := 0; i < 12; i++ {
				s.AddItem("")
			}

			items := s.Items()
			require.Len(t, items, 12)
			for i, item := range items {
				assert.Equal(t, i, item.ZIndex)
				assert.Equal(t, ItemWidth, item.Width)
				assert.Equal(t, ItemHeight, item.Height)
				assert.GreaterOrEqual(t, item.X, 0.0)
				assert.GreaterOrEqual(t, item.Y, 0.0)
				if size.w >= ItemWidth {
					assert.LessOrEqual(t, item.X, size.w-ItemWidth)
				}
				if size.h >= ItemHeight {
					assert.LessOrEqual(t, item.Y, size.h-ItemHeight)
				}
			}
		})
	}
}

func TestAddItemSpreadsAcrossRow(t *testing.T) {
	s := newTestStore(800, 600, nil)
	first := s.AddItem("a.png")
	second := s.AddItem("b.png")

	assert.Equal(t, first.Y, second.Y)
	assert.Greater(t, second.X, first.X)
	assert.Equal(t, "a.png", first.ImageURL)
}

func TestAddItemKeepsPlacingDistinctSlotsWhenGridIsFull(t *testing.T) {
	s := newTestStore(0, 0, nil)

	type point struct{ x, y float64 }
	seen := map[point]int{}
	for i := 0; i < 20; i++ {
		item := s.AddItem("")
		p := point{item.X, item.Y}
		if prev, dup := seen[p]; dup {
			t.Fatalf("item %d placed on top of item %d at %v", i, prev, p)
		}
		seen[p] = i
	}

	items := s.Items()
	// the default board holds a 2x2 grid; item 4 starts the next page
	assert.Equal(t, gridMargin, items[0].X)
	assert.Equal(t, gridMargin+cascadeStep, items[4].X)
	assert.Equal(t, gridMargin+cascadeStep, items[4].Y)
}

func TestAddItemDefaults(t *testing.T) {
	var notices []Notice
	s := newTestStore(0, -1, &notices)

	w, h := s.Bounds()
	assert.Equal(t, DefaultCanvasWidth, w)
	assert.Equal(t, DefaultCanvasHeight, h)

	item := s.AddItem("")
	assert.Equal(t, DefaultImageURL, item.ImageURL)
	assert.Equal(t, 0.0, item.Rotation)
	require.Len(t, notices, 1)
	assert.Equal(t, "Item added to outfit", notices[0].Message)
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	s := NewStore(500, 400)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		item := s.AddItem("")
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestBeginDragBringsToFront(t *testing.T) {
	s := newTestStore(500, 400, nil)
	a := s.AddItem("")
	s.AddItem("")
	s.AddItem("")

	s.BeginDrag(a.ID)

	active, ok := s.ActiveID()
	require.True(t, ok)
	assert.Equal(t, a.ID, active)

	dragged, _ := s.Item(a.ID)
	for _, item := range s.Items() {
		if item.ID != a.ID {
			assert.Less(t, item.ZIndex, dragged.ZIndex)
		}
	}

	// dragging the topmost item again still moves it strictly above its old value
	before := dragged.ZIndex
	s.BeginDrag(a.ID)
	again, _ := s.Item(a.ID)
	assert.Greater(t, again.ZIndex, before)
}

func TestBeginDragUnknownID(t *testing.T) {
	s := newTestStore(500, 400, nil)
	s.AddItem("")
	before := s.Items()

	s.BeginDrag("missing")

	_, ok := s.ActiveID()
	assert.False(t, ok)
	assert.Equal(t, before, s.Items())
}

func TestDragToIsAdditive(t *testing.T) {
	s := newTestStore(500, 400, nil)
	a := s.AddItem("")
	b := s.AddItem("")

	s.DragTo(a.ID, 10, -5)
	s.DragTo(a.ID, 2.5, 40)
	s.DragTo(b.ID, 12.5, 35)

	movedA, _ := s.Item(a.ID)
	movedB, _ := s.Item(b.ID)
	assert.InDelta(t, a.X+12.5, movedA.X, 1e-9)
	assert.InDelta(t, a.Y+35, movedA.Y, 1e-9)
	assert.InDelta(t, b.X+12.5, movedB.X, 1e-9)
	assert.InDelta(t, b.Y+35, movedB.Y, 1e-9)
}

func TestDragToDoesNotClamp(t *testing.T) {
	s := newTestStore(500, 400, nil)
	a := s.AddItem("")

	s.DragTo(a.ID, 10000, -10000)

	moved, _ := s.Item(a.ID)
	assert.Greater(t, moved.X, 500.0)
	assert.Less(t, moved.Y, 0.0)
}

func TestEndDragClearsActiveOnly(t *testing.T) {
	s := newTestStore(500, 400, nil)
	a := s.AddItem("")
	s.BeginDrag(a.ID)
	before := s.Items()

	s.EndDrag()

	_, ok := s.ActiveID()
	assert.False(t, ok)
	assert.Equal(t, before, s.Items())
}

func TestRotateRoundTrip(t *testing.T) {
	s := newTestStore(500, 400, nil)
	a := s.AddItem("")

	s.Rotate(a.ID, Clockwise)
	s.Rotate(a.ID, Clockwise)
	rotated, _ := s.Item(a.ID)
	assert.Equal(t, 30.0, rotated.Rotation)

	s.Rotate(a.ID, Counterclockwise)
	s.Rotate(a.ID, Counterclockwise)
	restored, _ := s.Item(a.ID)
	assert.Equal(t, 0.0, restored.Rotation)

	for i := 0; i < 30; i++ {
		s.Rotate(a.ID, Clockwise)
	}
	unbounded, _ := s.Item(a.ID)
	assert.Equal(t, 450.0, unbounded.Rotation)
}

func TestRemoveItemThenMutateIsNoop(t *testing.T) {
	var notices []Notice
	s := newTestStore(500, 400, &notices)
	a := s.AddItem("")
	b := s.AddItem("")
	s.BeginDrag(a.ID)

	s.RemoveItem(a.ID)

	_, ok := s.ActiveID()
	assert.False(t, ok, "active marker must not point at a removed item")
	assert.Equal(t, 1, s.Len())

	snapshot := s.Items()
	notices = notices[:0]
	assert.NotPanics(t, func() {
		s.BeginDrag(a.ID)
		s.DragTo(a.ID, 5, 5)
		s.Rotate(a.ID, Clockwise)
		s.BringToFront(a.ID)
		s.RemoveItem(a.ID)
	})
	assert.Equal(t, snapshot, s.Items())
	assert.Empty(t, notices)

	_, found := s.Item(b.ID)
	assert.True(t, found)
}

func TestRemoveKeepsOtherActive(t *testing.T) {
	s := newTestStore(500, 400, nil)
	a := s.AddItem("")
	b := s.AddItem("")
	s.BeginDrag(b.ID)

	s.RemoveItem(a.ID)

	active, ok := s.ActiveID()
	assert.True(t, ok)
	assert.Equal(t, b.ID, active)
}

func TestClear(t *testing.T) {
	var notices []Notice
	s := newTestStore(500, 400, &notices)
	a := s.AddItem("")
	s.AddItem("")
	s.BeginDrag(a.ID)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Items())
	_, ok := s.ActiveID()
	assert.False(t, ok)
	assert.Equal(t, Notice{Level: NoticeInfo, Message: "Canvas cleared"}, notices[len(notices)-1])

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestReplaceAll(t *testing.T) {
	s := newTestStore(500, 400, nil)
	a := s.AddItem("")
	s.BeginDrag(a.ID)

	loaded := []CanvasItem{
		{ID: "saved-1", ImageURL: "x.png", X: 5, Y: 6, Width: 150, Height: 150, ZIndex: 7, Rotation: -45},
		{ID: "saved-2", ImageURL: "y.png", X: 1, Y: 2, Width: 150, Height: 150, ZIndex: 3},
	}
	s.ReplaceAll(loaded)

	assert.Equal(t, loaded, s.Items())
	_, found := s.Item(a.ID)
	assert.False(t, found)
	_, ok := s.ActiveID()
	assert.False(t, ok)

	// the store keeps its own copy
	loaded[0].X = 999
	item, _ := s.Item("saved-1")
	assert.Equal(t, 5.0, item.X)

	s.BeginDrag("saved-2")
	item, _ = s.Item("saved-2")
	assert.Equal(t, 8, item.ZIndex)
}

func TestItemsReturnsCopy(t *testing.T) {
	s := newTestStore(500, 400, nil)
	a := s.AddItem("")

	items := s.Items()
	items[0].X = -1

	item, _ := s.Item(a.ID)
	assert.NotEqual(t, -1.0, item.X)
}
