package projects

import "sync"

// feed fans the current ordered snapshot out to subscribers after every write.
type feed struct {
	mu   sync.Mutex
	next int
	subs map[int]func([]Record)
}

func newFeed() *feed {
	return &feed{subs: make(map[int]func([]Record))}
}

func (f *feed) subscribe(fn func([]Record)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// publish delivers the snapshot to every current subscriber. Callbacks run on
// the writer's goroutine and must treat the slice as read-only.
func (f *feed) publish(snapshot []Record) {
	f.mu.Lock()
	subs := make([]func([]Record), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
