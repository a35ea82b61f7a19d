package gallery

import "sync"

// PointerEvent is a pointer-down somewhere on the page. Target names the
// region it landed in.
type PointerEvent struct {
	Target string
}

// PointerBus fans pointer-down events out to the components mounted on a page.
type PointerBus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(PointerEvent)
}

// NewPointerBus creates a bus with no subscribers.
func NewPointerBus() *PointerBus {
	return &PointerBus{subs: map[int]func(PointerEvent){}}
}

// Subscribe registers fn and returns the function that removes it.
// Calling the returned function more than once is a no-op.
func (b *PointerBus) Subscribe(fn func(PointerEvent)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every subscriber, one after another.
func (b *PointerBus) Publish(ev PointerEvent) {
	b.mu.Lock()
	fns := make([]func(PointerEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribers reports the number of live subscriptions.
func (b *PointerBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// MenuState is the open/closed state of a Dropdown.
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuOpen
)

func (s MenuState) String() string {
	if s == MenuOpen {
		return "open"
	}
	return "closed"
}

// Dropdown is a menu bound to one page region. While mounted, a pointer-down
// outside the region closes it.
type Dropdown struct {
	mu          sync.Mutex
	region      string
	state       MenuState
	unsubscribe func()
}

// NewDropdown creates a closed dropdown bound to region.
func NewDropdown(region string) *Dropdown {
	return &Dropdown{region: region}
}

// Region returns the name of the bound region.
func (d *Dropdown) Region() string {
	return d.region
}

// Mount subscribes the dropdown to bus. A mounted dropdown keeps its
// single subscription; mounting again is a no-op.
func (d *Dropdown) Mount(bus *PointerBus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unsubscribe != nil {
		return
	}
	d.unsubscribe = bus.Subscribe(d.pointerDown)
}

// Unmount removes the subscription. Pointer events are ignored afterwards.
func (d *Dropdown) Unmount() {
	d.mu.Lock()
	unsubscribe := d.unsubscribe
	d.unsubscribe = nil
	d.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (d *Dropdown) pointerDown(ev PointerEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unsubscribe == nil {
		return
	}
	if d.state == MenuOpen && ev.Target != d.region {
		d.state = MenuClosed
	}
}

// Toggle flips between open and closed.
func (d *Dropdown) Toggle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == MenuOpen {
		d.state = MenuClosed
	} else {
		d.state = MenuOpen
	}
}

// Select closes the menu after an item was chosen.
func (d *Dropdown) Select() {
	d.mu.Lock()
	d.state = MenuClosed
	d.mu.Unlock()
}

// State returns the current state.
func (d *Dropdown) State() MenuState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// IsOpen reports whether the menu is open.
func (d *Dropdown) IsOpen() bool {
	return d.State() == MenuOpen
}
