package frame

import "sync"

// Window models one side of the host/frame boundary. Post delivers a message
// to every registered listener; there is no target-origin restriction, which
// mirrors the demo's unrestricted messaging and must be closed before any
// real deployment. Delivery happens on the poster's goroutine and provides
// neither deduplication nor cross-window ordering.
type Window struct {
	mu        sync.Mutex
	listeners map[int]func(Message)
	loadFns   map[int]func()
	nextID    int
	loaded    bool
	closed    bool
}

func NewWindow() *Window {
	return &Window{
		listeners: make(map[int]func(Message)),
		loadFns:   make(map[int]func()),
	}
}

// Listen registers a message listener and returns its deregistration func.
// Removing twice is safe.
func (w *Window) Listen(fn func(Message)) (remove func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return func() {}
	}

	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.listeners, id)
	}
}

// OnLoaded registers a load hook. If the window already signalled load the
// hook fires immediately.
func (w *Window) OnLoaded(fn func()) (remove func()) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return func() {}
	}
	if w.loaded {
		w.mu.Unlock()
		fn()
		return func() {}
	}

	id := w.nextID
	w.nextID++
	w.loadFns[id] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.loadFns, id)
	}
}

// SignalLoaded marks the window loaded and fires pending load hooks once.
func (w *Window) SignalLoaded() {
	w.mu.Lock()
	if w.closed || w.loaded {
		w.mu.Unlock()
		return
	}
	w.loaded = true
	fns := make([]func(), 0, len(w.loadFns))
	for _, fn := range w.loadFns {
		fns = append(fns, fn)
	}
	w.loadFns = make(map[int]func())
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Post delivers msg to every listener registered at the time of the call.
// Posting to a closed window is a no-op.
func (w *Window) Post(msg Message) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	fns := make([]func(Message), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
}

// Close drops every listener and load hook. Further posts are discarded.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.listeners = make(map[int]func(Message))
	w.loadFns = make(map[int]func())
}
