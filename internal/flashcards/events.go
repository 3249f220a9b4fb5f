package flashcards

import (
	"sort"
	"sync"
)

// EventType names the notifications a Quiz emits.
type EventType string

const (
	EventPageChanged   EventType = "page_changed"
	EventAnswerChecked EventType = "answer_checked"
	EventCompleted     EventType = "completed"
	EventResultsShown  EventType = "results_shown"
	EventReset         EventType = "reset"
	EventAnnouncement  EventType = "announcement"
	EventLayoutChanged EventType = "layout_changed"
)

// Event is a typed notification. Only the fields relevant to Type are set.
type Event struct {
	Type EventType `json:"type"`

	// page_changed
	Index int  `json:"index"`
	Total int  `json:"total,omitempty"`
	Auto  bool `json:"auto,omitempty"`

	// answer_checked
	Correct bool `json:"correct,omitempty"`

	// completed, results_shown
	Score    int `json:"score,omitempty"`
	MaxScore int `json:"max_score,omitempty"`

	// announcement
	Text string `json:"text,omitempty"`
}

// Listener receives events after the quiz has released its lock, so it may
// call back into the quiz.
type Listener func(Event)

type dispatcher struct {
	mu        sync.Mutex
	next      int
	listeners map[int]Listener
}

// subscribe registers l and returns a function that removes it.
func (d *dispatcher) subscribe(l Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners == nil {
		d.listeners = make(map[int]Listener)
	}
	id := d.next
	d.next++
	d.listeners[id] = l
	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// emit delivers events in order, to listeners in registration order.
func (d *dispatcher) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	d.mu.Lock()
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	ls := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		ls = append(ls, d.listeners[id])
	}
	d.mu.Unlock()

	for _, e := range events {
		for _, l := range ls {
			l(e)
		}
	}
}
