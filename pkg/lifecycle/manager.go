package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager coordinates the lifetime of a set of named background workers.
// An upper layer (the shutdown coordinator) owns it and hands Handles to the
// individual workers.
type Manager struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	services map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a lifecycle manager with a fresh root context.
func NewManager() *Manager {
	m := &Manager{
		services: make(map[string]bool),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// NewServiceHandle registers a worker under a unique name and returns its
// Handle. The manager's wait group tracks the worker until Handle.Close runs.
func (m *Manager) NewServiceHandle(name string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.services[name] {
		return nil, fmt.Errorf("lifecycle: service %q already registered", name)
	}
	m.services[name] = true
	m.wg.Add(1)
	fmt.Printf("lifecycle: service [%s] registered\n", name)

	return &Handle{
		ctx: m.ctx,
		Close: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, exists := m.services[name]; !exists {
				return
			}
			delete(m.services, name)
			m.wg.Done()
		},
	}, nil
}

// Shutdown broadcasts the stop signal to every registered worker.
func (m *Manager) Shutdown() {
	fmt.Println("lifecycle: broadcasting shutdown signal...")
	m.cancel()
}

// WaitWithTimeout blocks until all registered workers have closed or the
// timeout elapses, returning the names of any workers still running.
func (m *Manager) WaitWithTimeout(timeout time.Duration) []string {
	doneChan := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(doneChan)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-doneChan:
		return nil
	case <-timer.C:
		m.mu.Lock()
		defer m.mu.Unlock()
		remaining := make([]string, 0, len(m.services))
		for name := range m.services {
			remaining = append(remaining, name)
		}
		return remaining
	}
}
