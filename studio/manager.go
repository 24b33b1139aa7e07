package studio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/songquanpeng/image-studio/common/logger"
)

// Manager keeps one View per browser session and closes idle ones.
type Manager struct {
	generator   Generator
	idleTimeout time.Duration
	now         func() time.Time

	mu    sync.Mutex
	views map[string]*View
	cron  *cron.Cron
}

func NewManager(generator Generator, idleTimeout time.Duration) *Manager {
	return &Manager{
		generator:   generator,
		idleTimeout: idleTimeout,
		now:         time.Now,
		views:       make(map[string]*View),
	}
}

// GetOrOpen returns the view for id, opening a fresh one when id is empty,
// unknown or closed. The returned view's Id may differ from id.
func (m *Manager) GetOrOpen(id string) *View {
	m.mu.Lock()
	defer m.mu.Unlock()
	if view, ok := m.views[id]; ok && !view.Closed() {
		return view
	}
	view := NewView(uuid.New().String(), m.generator)
	view.now = m.now
	view.lastActive = m.now()
	m.views[view.Id()] = view
	return view
}

func (m *Manager) Get(id string) (*View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	view, ok := m.views[id]
	return view, ok
}

// Close closes and forgets the view for id. It reports whether one existed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	view, ok := m.views[id]
	delete(m.views, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	view.Close()
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// Sweep closes views idle longer than the idle timeout and returns how many
// were closed.
func (m *Manager) Sweep() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	deadline := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	var idle []*View
	for id, view := range m.views {
		if view.LastActive().Before(deadline) {
			idle = append(idle, view)
			delete(m.views, id)
		}
	}
	m.mu.Unlock()

	for _, view := range idle {
		released := view.Close()
		logger.SysLog(fmt.Sprintf("studio %s closed after idling, %d image(s) released", view.Id(), released))
	}
	return len(idle)
}

// Start schedules Sweep on spec, a cron expression or descriptor such as
// "@every 1m".
func (m *Manager) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { m.Sweep() }); err != nil {
		return err
	}
	m.mu.Lock()
	m.cron = c
	m.mu.Unlock()
	c.Start()
	logger.SysLog(fmt.Sprintf("studio sweep scheduled (%s, idle timeout %s)", spec, m.idleTimeout))
	return nil
}

// Stop halts the sweep and closes every view.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	views := m.views
	m.views = make(map[string]*View)
	m.mu.Unlock()

	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
		}
	}
	for _, view := range views {
		view.Close()
	}
}
