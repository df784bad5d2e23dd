// Package filtering blocks requests matching configured URL patterns in the
// storage partitions it is registered for.
package filtering

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/tabshell/internal/logging"
)

// RequestInterceptor routes the requests of a partition through block. The
// browser host implements it.
type RequestInterceptor interface {
	InterceptRequests(ctx context.Context, partition string, block func(url string) bool) error
}

// ManagerConfig holds configuration for the filter manager.
type ManagerConfig struct {
	Enabled     bool
	Patterns    []string
	Interceptor RequestInterceptor
}

// Manager registers content filtering per partition. It implements
// port.ContentFilter. Patterns can be swapped at runtime and apply to every
// registered partition.
type Manager struct {
	interceptor RequestInterceptor
	matcher     atomic.Pointer[Matcher]
	enabled     atomic.Bool
	blocked     atomic.Uint64

	mu         sync.Mutex
	registered map[string]bool
	status     FilterStatus

	onStatusChange func(FilterStatus)
}

// NewManager creates a filter Manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	matcher, err := NewMatcher(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		interceptor: cfg.Interceptor,
		registered:  make(map[string]bool),
		status:      FilterStatus{State: StateUninitialized},
	}
	m.matcher.Store(matcher)
	m.enabled.Store(cfg.Enabled)
	if !cfg.Enabled {
		m.status = FilterStatus{State: StateDisabled, Message: "Filtering disabled"}
	}
	return m, nil
}

// SetStatusCallback sets a callback for status changes.
func (m *Manager) SetStatusCallback(cb func(FilterStatus)) {
	m.mu.Lock()
	m.onStatusChange = cb
	m.mu.Unlock()
}

// Status returns the current filter status.
func (m *Manager) Status() FilterStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) setStatusLocked(status FilterStatus) {
	m.status = status
	if m.onStatusChange != nil {
		m.onStatusChange(status)
	}
}

// Register starts filtering partition. Registering a partition twice is a
// no-op, as is registering while disabled.
func (m *Manager) Register(ctx context.Context, partition string) error {
	log := logging.FromContext(ctx).With().Str("component", "filter-manager").Logger()

	if !m.enabled.Load() {
		log.Debug().Str("partition", partition).Msg("content filtering disabled, not registering")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered[partition] {
		return nil
	}
	if m.interceptor == nil {
		return fmt.Errorf("register filtering for %q: no request interceptor", partition)
	}
	if err := m.interceptor.InterceptRequests(ctx, partition, m.ShouldBlock); err != nil {
		m.setStatusLocked(FilterStatus{State: StateError, Message: err.Error(), Partitions: len(m.registered)})
		return fmt.Errorf("register filtering for %q: %w", partition, err)
	}

	m.registered[partition] = true
	m.setStatusLocked(FilterStatus{
		State:      StateActive,
		Message:    fmt.Sprintf("%d patterns active", m.matcher.Load().Len()),
		Partitions: len(m.registered),
	})
	log.Debug().Str("partition", partition).Msg("content filtering registered")
	return nil
}

// ShouldBlock reports whether a request to url is blocked.
func (m *Manager) ShouldBlock(url string) bool {
	if !m.enabled.Load() {
		return false
	}
	if _, ok := m.matcher.Load().Match(url); ok {
		m.blocked.Add(1)
		return true
	}
	return false
}

// Update applies new settings. Partitions already registered keep being
// intercepted; disabling only stops blocking.
func (m *Manager) Update(ctx context.Context, enabled bool, patterns []string) error {
	matcher, err := NewMatcher(patterns)
	if err != nil {
		return err
	}
	m.matcher.Store(matcher)
	m.enabled.Store(enabled)

	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case !enabled:
		m.setStatusLocked(FilterStatus{State: StateDisabled, Message: "Filtering disabled", Partitions: len(m.registered)})
	case len(m.registered) > 0:
		m.setStatusLocked(FilterStatus{
			State:      StateActive,
			Message:    fmt.Sprintf("%d patterns active", matcher.Len()),
			Partitions: len(m.registered),
		})
	}

	logging.FromContext(ctx).Info().Bool("enabled", enabled).Int("patterns", matcher.Len()).Msg("content filter updated")
	return nil
}

// Blocked returns the number of requests blocked so far.
func (m *Manager) Blocked() uint64 {
	return m.blocked.Load()
}
