package watch

import (
	"sync"
)

// Change is a single change notification.
type Change struct {
	// Path of the changed file, for file system sources.
	Path string
	// Op names the kind of change ("WRITE", "CREATE", "childList", ...).
	Op string
	// Added holds the text of nodes added by a DOM change, in order.
	Added []string
}

// Source delivers change notifications to subscribers.
type Source interface {
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func(Change)) (unsubscribe func())
}

// Feed is an in-memory Source. Publish calls every subscriber
// synchronously, in subscription order.
type Feed struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]func(Change)
	ids  []uint64
}

func (f *Feed) Subscribe(fn func(Change)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs == nil {
		f.subs = make(map[uint64]func(Change))
	}
	id := f.next
	f.next++
	f.subs[id] = fn
	f.ids = append(f.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(id) })
	}
}

func (f *Feed) Publish(c Change) {
	f.mu.RLock()
	fns := make([]func(Change), 0, len(f.ids))
	for _, id := range f.ids {
		fns = append(fns, f.subs[id])
	}
	f.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Len is the number of live subscriptions.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}

func (f *Feed) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subs, id)
	for i, v := range f.ids {
		if v == id {
			f.ids = append(f.ids[:i], f.ids[i+1:]...)
			break
		}
	}
}
