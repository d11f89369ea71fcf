package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/countdown"
	"github.com/julianstephens/blossom/internal/models"
)

type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	// beforeGet runs outside mu, letting a test hold a read open
	beforeGet func()
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(key string) ([]byte, bool, error) {
	if m.beforeGet != nil {
		m.beforeGet()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type fakeGenerator struct {
	calls   atomic.Int32
	prompts []string
	mu      sync.Mutex
	fn      func(ctx context.Context, call int) (models.InsightRecord, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (models.InsightRecord, error) {
	call := int(g.calls.Add(1))
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.fn(ctx, call)
}

func returning(record models.InsightRecord, err error) *fakeGenerator {
	return &fakeGenerator{fn: func(context.Context, int) (models.InsightRecord, error) {
		return record, err
	}}
}

var (
	networkRecord = models.InsightRecord{Quote: "春風又綠江南岸", Author: "王安石", Fact: "四月是櫻花季"}
	cachedRecord  = models.InsightRecord{Quote: "cached quote", Author: "cached author", Fact: "cached fact"}
	fixedNow      = time.Date(2025, time.October, 19, 15, 30, 0, 0, time.Local)
)

func seedCache(t *testing.T, kv *memKV, record models.InsightRecord, at time.Time) {
	t.Helper()
	require.NoError(t, NewCache(kv).Store(record, at))
}

func newTestFetcher(gen Generator, kv *memKV) *Fetcher {
	f := NewFetcher(gen, NewCache(kv), countdown.DefaultTarget())
	f.now = func() time.Time { return fixedNow }
	n := 0
	f.newID = func() string {
		n++
		return fmt.Sprintf("req-%d", n)
	}
	return f
}

func TestFetchSameDayCacheHitSkipsGenerator(t *testing.T) {
	kv := newMemKV()
	seedCache(t, kv, cachedRecord, fixedNow.Add(-3*time.Hour))
	gen := returning(networkRecord, nil)
	f := newTestFetcher(gen, kv)

	res := f.Fetch(context.Background(), false, 187)

	assert.Equal(t, int32(0), gen.calls.Load())
	assert.Equal(t, cachedRecord, res.Record)
	assert.Equal(t, StateResolved, res.State)
	assert.Equal(t, SourceCache, res.Source)
	assert.False(t, res.Superseded)
	assert.Equal(t, StateResolved, f.State())
}

func TestFetchStaleCacheCallsGeneratorOnce(t *testing.T) {
	kv := newMemKV()
	yesterday := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day()-1, 23, 59, 0, 0, time.Local)
	seedCache(t, kv, cachedRecord, yesterday)
	gen := returning(networkRecord, nil)
	f := newTestFetcher(gen, kv)

	res := f.Fetch(context.Background(), false, 187)

	assert.Equal(t, int32(1), gen.calls.Load())
	assert.Equal(t, networkRecord, res.Record)
	assert.Equal(t, SourceNetwork, res.Source)

	entry, ok, err := NewCache(kv).Entry()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, networkRecord, entry.Data)
	assert.Equal(t, fixedNow.UnixMilli(), entry.Timestamp)
}

func TestFetchForceAlwaysCallsGenerator(t *testing.T) {
	kv := newMemKV()
	seedCache(t, kv, cachedRecord, fixedNow)
	gen := returning(networkRecord, nil)
	f := newTestFetcher(gen, kv)

	f.Fetch(context.Background(), true, 10)
	f.Fetch(context.Background(), true, 10)

	assert.Equal(t, int32(2), gen.calls.Load())
	got, ok := NewCache(kv).Lookup(fixedNow)
	require.True(t, ok)
	assert.Equal(t, networkRecord, got)
}

func TestFetchFailureUsesFallbackAndLeavesCache(t *testing.T) {
	tests := []struct {
		name   string
		record models.InsightRecord
		err    error
	}{
		{name: "transport error", err: errors.New("connection refused")},
		{name: "incomplete record", record: models.InsightRecord{Quote: "q", Author: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			stale := fixedNow.AddDate(0, 0, -2)
			seedCache(t, kv, cachedRecord, stale)
			before := append([]byte(nil), kv.data[constants.InsightCacheKey]...)

			f := newTestFetcher(returning(tt.record, tt.err), kv)
			res := f.Fetch(context.Background(), false, 5)

			assert.Equal(t, Fallback(), res.Record)
			assert.Equal(t, StateFallback, res.State)
			assert.Equal(t, SourceFallback, res.Source)
			assert.Error(t, res.Err)
			assert.Equal(t, before, kv.data[constants.InsightCacheKey])
		})
	}
}

func TestFetchFallbackIsRetriedSameDay(t *testing.T) {
	kv := newMemKV()
	gen := &fakeGenerator{fn: func(_ context.Context, call int) (models.InsightRecord, error) {
		if call == 1 {
			return models.InsightRecord{}, errors.New("quota exceeded")
		}
		return networkRecord, nil
	}}
	f := newTestFetcher(gen, kv)

	first := f.Fetch(context.Background(), false, 5)
	second := f.Fetch(context.Background(), false, 5)

	assert.Equal(t, SourceFallback, first.Source)
	assert.Equal(t, SourceNetwork, second.Source)
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestFetchPassesDaysLeftInPrompt(t *testing.T) {
	gen := returning(networkRecord, nil)
	f := newTestFetcher(gen, newMemKV())

	f.Fetch(context.Background(), false, 187)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "187 天")
	assert.Contains(t, gen.prompts[0], "4月24日")
}

func TestFetchCorruptCacheIsMiss(t *testing.T) {
	kv := newMemKV()
	kv.data[constants.InsightCacheKey] = []byte("{not json")
	gen := returning(networkRecord, nil)
	f := newTestFetcher(gen, kv)

	res := f.Fetch(context.Background(), false, 1)

	assert.Equal(t, SourceNetwork, res.Source)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestFetchNewerRequestSupersedesOlder(t *testing.T) {
	kv := newMemKV()
	entered := make(chan struct{})
	release := make(chan struct{})
	older := models.InsightRecord{Quote: "old", Author: "old", Fact: "old"}

	gen := &fakeGenerator{fn: func(ctx context.Context, call int) (models.InsightRecord, error) {
		if call == 1 {
			close(entered)
			<-release
			return older, nil
		}
		return networkRecord, nil
	}}
	f := newTestFetcher(gen, kv)

	firstDone := make(chan Result)
	go func() {
		firstDone <- f.Fetch(context.Background(), false, 3)
	}()
	<-entered
	assert.Equal(t, StateLoading, f.State())

	second := f.Fetch(context.Background(), true, 3)
	close(release)
	first := <-firstDone

	assert.False(t, second.Superseded)
	assert.True(t, first.Superseded)
	assert.NotEqual(t, first.RequestID, second.RequestID)

	last, ok := f.Last()
	require.True(t, ok)
	assert.Equal(t, second.RequestID, last.RequestID)
	assert.Equal(t, StateResolved, f.State())

	got, ok := NewCache(kv).Lookup(fixedNow)
	require.True(t, ok)
	assert.Equal(t, networkRecord, got)
}

func TestFetchCancelsInFlightContext(t *testing.T) {
	entered := make(chan struct{})
	gen := &fakeGenerator{fn: func(ctx context.Context, call int) (models.InsightRecord, error) {
		if call == 1 {
			close(entered)
			<-ctx.Done()
			return models.InsightRecord{}, ctx.Err()
		}
		return networkRecord, nil
	}}
	f := newTestFetcher(gen, newMemKV())

	firstDone := make(chan Result)
	go func() {
		firstDone <- f.Fetch(context.Background(), false, 3)
	}()
	<-entered

	f.Fetch(context.Background(), true, 3)
	first := <-firstDone

	assert.True(t, first.Superseded)
	assert.ErrorIs(t, first.Err, context.Canceled)
	assert.Equal(t, StateResolved, f.State())
}

func TestCancelDoesNotWaitOnCacheRead(t *testing.T) {
	kv := newMemKV()
	seedCache(t, kv, cachedRecord, fixedNow)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	kv.beforeGet = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	gen := returning(networkRecord, nil)
	f := newTestFetcher(gen, kv)

	done := make(chan Result)
	go func() {
		done <- f.Fetch(context.Background(), false, 3)
	}()
	<-entered
	assert.Equal(t, StateLoading, f.State())

	cancelled := make(chan struct{})
	go func() {
		f.Cancel()
		close(cancelled)
	}()
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		close(release)
		t.Fatal("Cancel blocked while the cache read was in flight")
	}
	assert.Equal(t, StateIdle, f.State())

	close(release)
	res := <-done
	assert.True(t, res.Superseded)
	assert.Equal(t, SourceCache, res.Source)
	assert.Equal(t, cachedRecord, res.Record)
	assert.Zero(t, gen.calls.Load())

	_, ok := f.Last()
	assert.False(t, ok, "superseded cache hit must not become the last result")
	assert.Equal(t, StateIdle, f.State())
}

func TestFetcherStartsIdle(t *testing.T) {
	f := newTestFetcher(returning(networkRecord, nil), newMemKV())
	assert.Equal(t, StateIdle, f.State())
	_, ok := f.Last()
	assert.False(t, ok)
}

func TestCacheLookup(t *testing.T) {
	tests := []struct {
		name    string
		storeAt time.Time
		want    bool
	}{
		{name: "earlier today", storeAt: time.Date(2025, 10, 19, 0, 0, 1, 0, time.Local), want: true},
		{name: "later today", storeAt: time.Date(2025, 10, 19, 23, 59, 0, 0, time.Local), want: true},
		{name: "yesterday", storeAt: time.Date(2025, 10, 18, 23, 59, 59, 0, time.Local), want: false},
		{name: "same date last year", storeAt: time.Date(2024, 10, 19, 12, 0, 0, 0, time.Local), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			seedCache(t, kv, cachedRecord, tt.storeAt)
			_, ok := NewCache(kv).Lookup(fixedNow)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCacheEntryFormat(t *testing.T) {
	kv := newMemKV()
	seedCache(t, kv, cachedRecord, fixedNow)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(kv.data[constants.InsightCacheKey], &raw))
	assert.Contains(t, raw, "data")
	assert.Contains(t, raw, "timestamp")
	assert.Equal(t, "daily_insight_424", NewCache(kv).Key())
}

func TestCacheReadErrorIsMiss(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk on fire")
	_, ok := NewCache(kv).Lookup(fixedNow)
	assert.False(t, ok)
}

func TestCacheClear(t *testing.T) {
	kv := newMemKV()
	seedCache(t, kv, cachedRecord, fixedNow)
	c := NewCache(kv)
	require.NoError(t, c.Clear())
	_, ok, err := c.Entry()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFallbackLiteral(t *testing.T) {
	fb := Fallback()
	assert.True(t, fb.IsComplete())
	assert.Equal(t, "春之詩人", fb.Author)
	assert.True(t, strings.HasPrefix(fb.Quote, "林花謝了春紅"))
	assert.Contains(t, fb.Fact, "aperire")
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(countdown.DefaultTarget(), 42)
	assert.Contains(t, p, "4月24日")
	assert.Contains(t, p, "目前距離還有 42 天")
	assert.Contains(t, p, "繁體中文")

	custom := BuildPrompt(countdown.Target{Month: time.March, Day: 1}, -3)
	assert.Contains(t, custom, "3月1日")
	assert.Contains(t, custom, "還有 0 天")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "resolved", StateResolved.String())
	assert.Equal(t, "fallback", StateFallback.String())
}
