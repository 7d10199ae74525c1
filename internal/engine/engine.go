// Package engine routes kill events into the camp and battle trackers
// and publishes classified snapshots.
package engine

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"gatewatch/internal/activity"
	"gatewatch/internal/battle"
	"gatewatch/internal/camp"
	"gatewatch/internal/config"
	"gatewatch/internal/killmail"
	"gatewatch/internal/logging"
)

// shard holds the aggregates of one solar system. All cross-kill state
// (camp scoring order, battle merges) is system-local, so each shard has
// its own lock and a slow system never stalls the others.
type shard struct {
	mu      sync.Mutex
	camps   *camp.Tracker
	battles *battle.Tracker
	seen    map[int64]time.Time
}

// Engine owns the classification state. Construct one with New and pass
// it by handle; there is no package-level instance.
type Engine struct {
	cfg          *config.Config
	store        *activity.Store
	tickInterval time.Duration
	now          func() time.Time
	log          *slog.Logger

	mu     sync.RWMutex
	shards map[int64]*shard
}

// New creates an engine publishing into store. now is injectable for
// tests; nil means time.Now.
func New(cfg *config.Config, store *activity.Store, tickInterval time.Duration, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:          cfg,
		store:        store,
		tickInterval: tickInterval,
		now:          now,
		log:          slog.Default(),
		shards:       make(map[int64]*shard),
	}
}

func (e *Engine) shardFor(systemID int64) *shard {
	e.mu.RLock()
	s, ok := e.shards[systemID]
	e.mu.RUnlock()
	if ok {
		return s
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok = e.shards[systemID]; ok {
		return s
	}
	s = &shard{
		camps:   camp.NewTracker(e.cfg, e.now),
		battles: battle.NewTracker(e.cfg, e.now),
		seen:    make(map[int64]time.Time),
	}
	e.shards[systemID] = s
	return s
}

// Ingest classifies one kill. Updates for the same system serialize on
// the shard lock; kills for other systems proceed in parallel. Duplicate
// kill ids are no-ops. Returns whether the kill mutated any state.
func (e *Engine) Ingest(k *killmail.Kill) bool {
	if k == nil || k.ID == 0 || k.SolarSystemID == 0 {
		return false
	}
	s := e.shardFor(k.SolarSystemID)
	if !e.apply(s, k) {
		return false
	}
	e.publish()
	return true
}

// apply mutates one shard under its lock. A panic from a malformed kill
// is contained to this shard so the other keys keep flowing.
func (e *Engine) apply(s *shard, k *killmail.Kill) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("classification failed", "kill_id", k.ID, "system_id", k.SolarSystemID, "err", r)
			ok = false
		}
	}()
	if _, dup := s.seen[k.ID]; dup {
		return false
	}
	s.seen[k.ID] = e.now()
	s.camps.Record(k)
	s.battles.Record(k)
	return true
}

// Run drives decay, eviction, and snapshot publication until the context
// is done. Decay must progress even when no kills arrive.
func (e *Engine) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting classification engine", "tick_interval", e.tickInterval)
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.Tick()
		case <-ctx.Done():
			log.Info("stopping classification engine")
			return
		}
	}
}

// Tick rescores camps, evicts expired aggregates, prunes the duplicate
// cache, and publishes the resulting snapshot.
func (e *Engine) Tick() {
	retention := time.Duration(e.cfg.Camp.MaxAgeMinutes*float64(time.Minute)) +
		time.Duration(e.cfg.Battle.TimeoutMinutes*float64(time.Minute))
	now := e.now()

	e.mu.RLock()
	shards := make([]*shard, 0, len(e.shards))
	for _, s := range e.shards {
		shards = append(shards, s)
	}
	e.mu.RUnlock()

	// Shards are kept once created: a system that went quiet holds only
	// an empty tracker pair after eviction.
	for _, s := range shards {
		s.mu.Lock()
		s.camps.Tick()
		s.battles.Tick()
		for id, at := range s.seen {
			if now.Sub(at) > retention {
				delete(s.seen, id)
			}
		}
		s.mu.Unlock()
	}

	e.publish()
}

// Snapshot builds the externally visible state: scoring camps plus
// active battles, each as a read-only projection.
func (e *Engine) Snapshot() activity.Snapshot {
	snap := activity.Snapshot{GeneratedAt: e.now()}

	e.mu.RLock()
	shards := make([]*shard, 0, len(e.shards))
	for _, s := range e.shards {
		shards = append(shards, s)
	}
	e.mu.RUnlock()

	for _, s := range shards {
		s.mu.Lock()
		for _, c := range s.camps.Camps() {
			if c.Probability == 0 {
				continue
			}
			snap.Activities = append(snap.Activities, activity.FromCamp(c))
		}
		for _, b := range s.battles.Active() {
			snap.Activities = append(snap.Activities, activity.FromBattle(b))
		}
		s.mu.Unlock()
	}

	sort.Slice(snap.Activities, func(i, j int) bool {
		return snap.Activities[i].ID < snap.Activities[j].ID
	})
	return snap
}

func (e *Engine) publish() {
	if e.store != nil {
		e.store.Publish(e.Snapshot())
	}
}
