// Package camp maintains per-gate kill aggregates and scores the
// probability that an active gate camp exists there.
package camp

import (
	"fmt"
	"sort"
	"time"

	"gatewatch/internal/config"
	"gatewatch/internal/idset"
	"gatewatch/internal/killmail"
)

// Type is the camp sub-classification derived from weapon signatures.
type Type string

const (
	TypeStandard  Type = "standard"
	TypeSmartbomb Type = "smartbomb"
)

// Camp aggregates the kills observed at one (system, gate) pair together
// with the derived probability and attacker composition.
type Camp struct {
	SystemID   int64
	GateName   string
	Kills      []*killmail.Kill // sorted by kill time
	FirstSeen  time.Time
	LastKill   time.Time
	TotalValue float64
	Type       Type

	// Probability is 0-95. Zero means suppressed: the kills are kept but
	// the camp is hidden from consumers.
	Probability    int
	ProbabilityLog []string

	// Composition invariant: Active ∪ Killed ⊆ Original and
	// Active ∩ Killed = ∅.
	Original idset.Set
	Active   idset.Set
	Killed   idset.Set
}

// Key returns the aggregate key for a (system, gate) pair.
func Key(systemID int64, gateName string) string {
	return fmt.Sprintf("%d/%s", systemID, gateName)
}

// Key returns the camp's aggregate key.
func (c *Camp) Key() string { return Key(c.SystemID, c.GateName) }

// HasKill reports whether the kill id is already a member.
func (c *Camp) HasKill(id int64) bool {
	for _, k := range c.Kills {
		if k.ID == id {
			return true
		}
	}
	return false
}

// KillIDs returns the member kill ids in time order.
func (c *Camp) KillIDs() []int64 {
	ids := make([]int64, len(c.Kills))
	for i, k := range c.Kills {
		ids[i] = k.ID
	}
	return ids
}

// Tracker owns every camp aggregate. It is not safe for concurrent use;
// the engine serializes access per solar system.
type Tracker struct {
	cfg              *config.Config
	threatWeights    map[int64]int
	smartbombShips   map[int64]bool
	smartbombWeapons map[int64]bool
	industrials      map[int64]bool
	capsules         map[int64]bool
	camps            map[string]*Camp
	now              func() time.Time
}

// NewTracker creates a tracker with the given scoring tables. now is
// injectable for tests; nil means time.Now.
func NewTracker(cfg *config.Config, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		cfg:              cfg,
		threatWeights:    cfg.ThreatWeights(),
		smartbombShips:   cfg.SmartbombShipSet(),
		smartbombWeapons: cfg.SmartbombWeaponSet(),
		industrials:      cfg.IndustrialShipSet(),
		capsules:         cfg.CapsuleTypeSet(),
		camps:            make(map[string]*Camp),
		now:              now,
	}
}

// Record folds a kill into the camp aggregate for its gate and rescores
// it. Kills that do not resolve to a gate cannot seed or extend a camp
// and return nil. Re-recording a known kill id is a no-op.
func (t *Tracker) Record(k *killmail.Kill) *Camp {
	if k == nil || !k.AtGate() {
		return nil
	}
	key := Key(k.SolarSystemID, k.GateName())
	c, ok := t.camps[key]
	if !ok {
		c = &Camp{
			SystemID: k.SolarSystemID,
			GateName: k.GateName(),
			Type:     TypeStandard,
			Original: idset.New(),
			Active:   idset.New(),
			Killed:   idset.New(),
		}
		t.camps[key] = c
	}
	if c.HasKill(k.ID) {
		return c
	}

	c.Kills = append(c.Kills, k)
	sort.SliceStable(c.Kills, func(i, j int) bool { return c.Kills[i].Time.Before(c.Kills[j].Time) })
	c.FirstSeen = c.Kills[0].Time
	c.LastKill = c.Kills[len(c.Kills)-1].Time
	c.TotalValue += k.TotalValue

	for _, a := range k.Attackers {
		if t.smartbombWeapons[a.WeaponTypeID] || t.smartbombShips[a.ShipTypeID] {
			c.Type = TypeSmartbomb
			break
		}
	}

	t.rebuildComposition(c)
	t.rescore(c)
	return c
}

// rebuildComposition derives the original/active/killed attacker sets
// from scratch in kill-time order, so composition stays deterministic
// under out-of-order arrival.
func (t *Tracker) rebuildComposition(c *Camp) {
	original := idset.New()
	active := idset.New()
	killed := idset.New()
	for _, k := range c.Kills {
		if vid := k.Victim.CharacterID; vid != 0 && original.Contains(vid) {
			active.Remove(vid)
			killed.Add(vid)
		}
		for _, a := range k.Attackers {
			if a.CharacterID == 0 {
				continue
			}
			original.Add(a.CharacterID)
			// An attacker seen again after dying is back in a new ship.
			killed.Remove(a.CharacterID)
			active.Add(a.CharacterID)
		}
	}
	c.Original, c.Active, c.Killed = original, active, killed
}

// Tick rescores every camp against the current time and evicts expired
// aggregates. Decay progresses here even when no kills arrive.
func (t *Tracker) Tick() {
	now := t.now()
	for key, c := range t.camps {
		if t.expired(c, now) {
			delete(t.camps, key)
			continue
		}
		t.rescore(c)
	}
}

// expired reports whether the camp is past hard expiry: fully decayed,
// past the post-decay timeout, or past the absolute age cap.
func (t *Tracker) expired(c *Camp, now time.Time) bool {
	m := now.Sub(c.LastKill).Minutes()
	if m < 0 {
		m = 0
	}
	if m > t.cfg.Camp.MaxAgeMinutes {
		return true
	}
	past := m - t.cfg.Camp.DecayStartMinutes
	if past > t.cfg.Camp.TimeoutMinutes {
		return true
	}
	// Decay reaches 1.0 ten minutes past decay start.
	return past*decayPerMinute >= 1
}

// Camps returns the aggregates sorted by key.
func (t *Tracker) Camps() []*Camp {
	out := make([]*Camp, 0, len(t.camps))
	for _, c := range t.camps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Len returns the number of tracked camps, suppressed ones included.
func (t *Tracker) Len() int { return len(t.camps) }
