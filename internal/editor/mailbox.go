package editor

import "sync"

// mailbox carries completions from background goroutines back to the
// goroutine that owns the editor.
type mailbox struct {
	mu      sync.Mutex
	queue   []func()
	pending sync.WaitGroup
	ready   chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

// spawn runs work in a goroutine and queues the completion it returns.
func (m *mailbox) spawn(work func() func()) {
	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		if done := work(); done != nil {
			m.post(done)
		}
	}()
}

func (m *mailbox) post(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// drain runs the queued completions on the calling goroutine.
func (m *mailbox) drain() int {
	m.mu.Lock()
	q := m.queue
	m.queue = nil
	m.mu.Unlock()
	for _, fn := range q {
		fn()
	}
	return len(q)
}

// flush waits for every spawned goroutine, then drains. Completions that
// spawn more work are waited for too.
func (m *mailbox) flush() {
	for {
		m.pending.Wait()
		if m.drain() == 0 {
			return
		}
	}
}
