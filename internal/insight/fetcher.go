package insight

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/blossom/internal/countdown"
	"github.com/julianstephens/blossom/internal/logger"
	"github.com/julianstephens/blossom/internal/models"
)

// ErrIncompleteRecord is returned when a generator yields a record with an empty field
var ErrIncompleteRecord = errors.New("insight record is missing a field")

// State is the lifecycle position of the fetcher
type State int

const (
	StateIdle State = iota
	StateLoading
	StateResolved
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateResolved:
		return "resolved"
	case StateFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Source names where a displayed record came from
type Source string

const (
	SourceCache    Source = "cache"
	SourceNetwork  Source = "network"
	SourceFallback Source = "fallback"
)

// Result is the outcome of one Fetch call.
// Err is kept for logging; the record is always displayable.
type Result struct {
	Record     models.InsightRecord
	State      State
	Source     Source
	RequestID  string
	Superseded bool
	Err        error
}

// Generator produces a structured insight for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (models.InsightRecord, error)
}

// Fetcher resolves the daily insight from the cache, the generator, or the fallback.
// A Fetch that starts while another is in flight cancels it; the older
// result comes back Superseded and leaves state and cache alone.
type Fetcher struct {
	gen    Generator
	cache  *Cache
	target countdown.Target

	// Overridable for tests
	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	state   State
	last    Result
	hasLast bool
}

// NewFetcher creates a fetcher in the Idle state
func NewFetcher(gen Generator, cache *Cache, target countdown.Target) *Fetcher {
	return &Fetcher{
		gen:    gen,
		cache:  cache,
		target: target,
		now:    time.Now,
		newID:  uuid.NewString,
		state:  StateIdle,
	}
}

// WithClock replaces the wall clock used for cache day checks
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	f.now = now
	return f
}

// Fetch resolves an insight. Unless force is set, a record cached today is
// returned without calling the generator. Failures resolve to Fallback().
// Cache reads and generation run outside the lock so Cancel never waits on them.
func (f *Fetcher) Fetch(ctx context.Context, force bool, daysLeft int) Result {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	requestID := f.newID()
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.state = StateLoading
	f.mu.Unlock()
	defer cancel()

	log := logger.WithRequest(requestID)

	if !force {
		if record, ok := f.cache.Lookup(f.now()); ok {
			res := Result{Record: record, State: StateResolved, Source: SourceCache, RequestID: requestID}
			f.mu.Lock()
			defer f.mu.Unlock()
			if seq != f.seq {
				res.Superseded = true
				log.Debug("Discarding superseded cache hit")
				return res
			}
			f.cancel = nil
			f.finishLocked(res)
			log.Debug("Insight served from cache")
			return res
		}
	}

	log.Debug("Requesting insight", "force", force, "days_left", daysLeft)
	record, err := f.gen.Generate(fetchCtx, BuildPrompt(f.target, daysLeft))
	if err == nil && !record.IsComplete() {
		err = ErrIncompleteRecord
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var res Result
	if err != nil {
		res = Result{Record: Fallback(), State: StateFallback, Source: SourceFallback, RequestID: requestID, Err: err}
	} else {
		res = Result{Record: record, State: StateResolved, Source: SourceNetwork, RequestID: requestID}
	}

	if seq != f.seq {
		res.Superseded = true
		log.Debug("Discarding superseded insight")
		return res
	}
	f.cancel = nil

	if err != nil {
		log.Warn("Insight fetch failed, using fallback", "error", err)
	} else if err := f.cache.Store(record, f.now()); err != nil {
		log.Warn("Failed to cache insight", "error", err)
	}

	f.finishLocked(res)
	return res
}

func (f *Fetcher) finishLocked(res Result) {
	f.state = res.State
	f.last = res
	f.hasLast = true
}

// State returns the current lifecycle state
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Last returns the most recent non-superseded result
func (f *Fetcher) Last() (Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.hasLast
}

// Cancel aborts any in-flight fetch; its result will come back Superseded
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.state == StateLoading {
		f.state = StateIdle
		if f.hasLast {
			f.state = f.last.State
		}
	}
}
