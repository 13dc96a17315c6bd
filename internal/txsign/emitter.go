package txsign

import (
	"sync"
	"time"
)

type Signal string

const (
	SignalReady   Signal = "ready"
	SignalError   Signal = "error"
	SignalFailed  Signal = "failed"
	SignalSuccess Signal = "success"
)

// Payload accompanies a Signal. Block fields are set on success, Err on
// error and failure.
type Payload struct {
	BlockHash   string
	BlockNumber uint64
	Timestamp   time.Time
	Err         error
}

type Handler func(Payload)

// Emitter is a minimal named-event bus. Handlers run on the emitting
// goroutine.
type Emitter struct {
	mu       sync.Mutex
	handlers map[Signal]map[int]Handler
	nextID   int
}

func NewEmitter() *Emitter {
	return &Emitter{handlers: map[Signal]map[int]Handler{}}
}

func (e *Emitter) On(signal Signal, fn Handler) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	if e.handlers[signal] == nil {
		e.handlers[signal] = map[int]Handler{}
	}
	e.handlers[signal][id] = fn
	return id
}

func (e *Emitter) Once(signal Signal, fn Handler) int {
	var (
		once sync.Once
		id   int
	)
	id = e.On(signal, func(p Payload) {
		once.Do(func() {
			e.Off(signal, id)
			fn(p)
		})
	})
	return id
}

func (e *Emitter) Off(signal Signal, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handlers[signal], id)
	if len(e.handlers[signal]) == 0 {
		delete(e.handlers, signal)
	}
}

func (e *Emitter) Emit(signal Signal, payload Payload) {
	e.mu.Lock()
	handlers := make([]Handler, 0, len(e.handlers[signal]))
	for _, fn := range e.handlers[signal] {
		handlers = append(handlers, fn)
	}
	e.mu.Unlock()
	for _, fn := range handlers {
		fn(payload)
	}
}

func (e *Emitter) ListenerCount(signal Signal) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers[signal])
}
