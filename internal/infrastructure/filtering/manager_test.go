package filtering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInterceptor struct {
	partitions []string
	block      func(string) bool
	err        error
}

func (r *recordingInterceptor) InterceptRequests(_ context.Context, partition string, block func(string) bool) error {
	if r.err != nil {
		return r.err
	}
	r.partitions = append(r.partitions, partition)
	r.block = block
	return nil
}

var testPatterns = []string{"*://*.doubleclick.net/*", "*://tracker.example.com/*"}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher(testPatterns)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	tests := []struct {
		url     string
		pattern string
		matched bool
	}{
		{url: "https://ad.doubleclick.net/pixel", pattern: testPatterns[0], matched: true},
		{url: "https://securepubads.g.doubleclick.net/tag/js/gpt.js", pattern: testPatterns[0], matched: true},
		{url: "http://tracker.example.com/collect?id=1", pattern: testPatterns[1], matched: true},
		{url: "https://example.com/", matched: false},
		{url: "https://doubleclick.net.example.org", matched: false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			pattern, ok := m.Match(tt.url)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.pattern, pattern)
		})
	}
}

func TestManager_RegisterOncePerPartition(t *testing.T) {
	ic := &recordingInterceptor{}
	m, err := NewManager(ManagerConfig{Enabled: true, Patterns: testPatterns, Interceptor: ic})
	require.NoError(t, err)
	assert.Equal(t, StateUninitialized, m.Status().State)

	ctx := context.Background()
	require.NoError(t, m.Register(ctx, "tab:1"))
	require.NoError(t, m.Register(ctx, "tab:1"))
	require.NoError(t, m.Register(ctx, ""))

	assert.Equal(t, []string{"tab:1", ""}, ic.partitions)
	status := m.Status()
	assert.Equal(t, StateActive, status.State)
	assert.Equal(t, 2, status.Partitions)

	require.NotNil(t, ic.block)
	assert.True(t, ic.block("https://ad.doubleclick.net/x"))
	assert.False(t, ic.block("https://example.com/"))
	assert.Equal(t, uint64(1), m.Blocked())
}

func TestManager_Disabled(t *testing.T) {
	ic := &recordingInterceptor{}
	m, err := NewManager(ManagerConfig{Enabled: false, Patterns: testPatterns, Interceptor: ic})
	require.NoError(t, err)

	require.NoError(t, m.Register(context.Background(), "tab:1"))

	assert.Empty(t, ic.partitions)
	assert.Equal(t, StateDisabled, m.Status().State)
	assert.False(t, m.ShouldBlock("https://ad.doubleclick.net/x"))
}

func TestManager_RegisterFailure(t *testing.T) {
	ic := &recordingInterceptor{err: errors.New("target gone")}
	m, err := NewManager(ManagerConfig{Enabled: true, Patterns: testPatterns, Interceptor: ic})
	require.NoError(t, err)

	var statuses []FilterState
	m.SetStatusCallback(func(s FilterStatus) { statuses = append(statuses, s.State) })

	require.Error(t, m.Register(context.Background(), "tab:1"))
	assert.Equal(t, []FilterState{StateError}, statuses)

	// A failed partition can be registered again.
	ic.err = nil
	require.NoError(t, m.Register(context.Background(), "tab:1"))
	assert.Equal(t, []string{"tab:1"}, ic.partitions)
}

func TestManager_Update(t *testing.T) {
	ic := &recordingInterceptor{}
	m, err := NewManager(ManagerConfig{Enabled: true, Patterns: testPatterns, Interceptor: ic})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, m.Register(ctx, ""))

	require.NoError(t, m.Update(ctx, true, []string{"*://cdn.example.com/*"}))
	assert.False(t, m.ShouldBlock("https://ad.doubleclick.net/x"))
	assert.True(t, m.ShouldBlock("https://cdn.example.com/lib.js"))

	require.NoError(t, m.Update(ctx, false, testPatterns))
	assert.False(t, m.ShouldBlock("https://ad.doubleclick.net/x"))
	assert.Equal(t, StateDisabled, m.Status().State)
}
