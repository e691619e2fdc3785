package bvcull

import "github.com/akmonengine/bvcull/volume"

const (
	ENTER_VIEW EventType = iota
	EXIT_VIEW
	VISIBILITY_CHANGE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// EnterViewEvent is sent when an object becomes visible.
type EnterViewEvent struct {
	Object *RenderContext
	Result volume.Classification
}

func (e EnterViewEvent) Type() EventType { return ENTER_VIEW }

// ExitViewEvent is sent when a visible object gets culled.
type ExitViewEvent struct {
	Object *RenderContext
}

func (e ExitViewEvent) Type() EventType { return EXIT_VIEW }

// VisibilityChangeEvent is sent when a visible object switches between
// inside and straddling.
type VisibilityChangeEvent struct {
	Object *RenderContext
	From   volume.Classification
	To     volume.Classification
}

func (e VisibilityChangeEvent) Type() EventType { return VISIBILITY_CHANGE }

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks per-object visibility across frames and dispatches
// transitions to listeners.
type Events struct {
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Last classification of every object seen
	previous map[*RenderContext]volume.Classification
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 64),
		previous:  make(map[*RenderContext]volume.Classification),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordVisibility compares the frame results with the previous frame.
// Objects never seen before count as previously outside.
func (e *Events) recordVisibility(objects []*RenderContext, results []volume.Classification) {
	if e.previous == nil {
		e.previous = make(map[*RenderContext]volume.Classification)
	}

	for i, obj := range objects {
		cur := results[i]
		prev, seen := e.previous[obj]
		if !seen {
			prev = volume.Outside
		}

		switch {
		case prev == volume.Outside && cur != volume.Outside:
			e.buffer = append(e.buffer, EnterViewEvent{Object: obj, Result: cur})
		case prev != volume.Outside && cur == volume.Outside:
			e.buffer = append(e.buffer, ExitViewEvent{Object: obj})
		case prev != cur:
			e.buffer = append(e.buffer, VisibilityChangeEvent{Object: obj, From: prev, To: cur})
		}

		e.previous[obj] = cur
	}
}

// forget drops the tracking of a removed object.
func (e *Events) forget(obj *RenderContext) {
	delete(e.previous, obj)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
