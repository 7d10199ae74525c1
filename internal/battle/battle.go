// Package battle clusters kills into battles by participant overlap,
// independent of where in a system they happened.
package battle

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"gatewatch/internal/config"
	"gatewatch/internal/idset"
	"gatewatch/internal/killmail"
)

// Battle is a cluster of kills linked by overlapping identities. Two
// battles in the same system never overlap: the merge pass below keeps
// membership transitively closed.
type Battle struct {
	ID           string
	SystemID     int64
	Kills        []*killmail.Kill
	TotalValue   float64
	LastKill     time.Time
	Characters   idset.Set
	Corporations idset.Set
	Alliances    idset.Set
}

// Related reports whether two kills share any character, corporation, or
// alliance across victim and attackers. Symmetric and reflexive.
func Related(k1, k2 *killmail.Kill) bool {
	if k1.Characters().Intersects(k2.Characters()) {
		return true
	}
	if k1.Corporations().Intersects(k2.Corporations()) {
		return true
	}
	return k1.Alliances().Intersects(k2.Alliances())
}

// HasKill reports whether the kill id is already a member.
func (b *Battle) HasKill(id int64) bool {
	for _, k := range b.Kills {
		if k.ID == id {
			return true
		}
	}
	return false
}

// KillIDs returns the member kill ids.
func (b *Battle) KillIDs() []int64 {
	ids := make([]int64, len(b.Kills))
	for i, k := range b.Kills {
		ids[i] = k.ID
	}
	return ids
}

// relatedTo reports whether the kill relates to any member kill.
func (b *Battle) relatedTo(k *killmail.Kill) bool {
	for _, member := range b.Kills {
		if Related(member, k) {
			return true
		}
	}
	return false
}

// add appends a kill and folds its identities into the battle.
func (b *Battle) add(k *killmail.Kill) {
	b.Kills = append(b.Kills, k)
	b.TotalValue += k.TotalValue
	if k.Time.After(b.LastKill) {
		b.LastKill = k.Time
	}
	b.Characters.Union(k.Characters())
	b.Corporations.Union(k.Corporations())
	b.Alliances.Union(k.Alliances())
}

// absorb merges other into b.
func (b *Battle) absorb(other *Battle) {
	b.Kills = append(b.Kills, other.Kills...)
	b.TotalValue += other.TotalValue
	if other.LastKill.After(b.LastKill) {
		b.LastKill = other.LastKill
	}
	b.Characters.Union(other.Characters)
	b.Corporations.Union(other.Corporations)
	b.Alliances.Union(other.Alliances)
}

func newBattle(k *killmail.Kill) *Battle {
	b := &Battle{
		ID:           uuid.New().String(),
		SystemID:     k.SolarSystemID,
		Characters:   idset.New(),
		Corporations: idset.New(),
		Alliances:    idset.New(),
	}
	b.add(k)
	return b
}

// Cluster merges battles until no two contain a related cross-pair of
// kills. The repeated full rescan is O(n²) per pass but battle counts per
// system are tens, not thousands. Isolated here so it can be swapped for
// a disjoint-set structure without touching ingestion.
func Cluster(battles []*Battle) []*Battle {
	merged := true
	for merged {
		merged = false
	scan:
		for i := 0; i < len(battles); i++ {
			for j := i + 1; j < len(battles); j++ {
				if !crossRelated(battles[i], battles[j]) {
					continue
				}
				battles[i].absorb(battles[j])
				battles = append(battles[:j], battles[j+1:]...)
				merged = true
				break scan
			}
		}
	}
	return battles
}

func crossRelated(a, b *Battle) bool {
	for _, k := range b.Kills {
		if a.relatedTo(k) {
			return true
		}
	}
	return false
}

// Tracker owns the battles of every system. Not safe for concurrent use;
// the engine serializes access per solar system.
type Tracker struct {
	cfg     *config.Config
	battles map[int64][]*Battle
	now     func() time.Time
}

// NewTracker creates a tracker. now is injectable for tests; nil means
// time.Now.
func NewTracker(cfg *config.Config, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{cfg: cfg, battles: make(map[int64][]*Battle), now: now}
}

// Record clusters a kill into the battles of its system. Stale battles
// are evicted first so they never serve as a merge target. Stale kills
// and duplicate ids are no-ops.
func (t *Tracker) Record(k *killmail.Kill) *Battle {
	if k == nil {
		return nil
	}
	now := t.now()
	t.evictSystem(k.SolarSystemID, now)

	if now.Sub(k.Time) > t.maxAge() {
		return nil
	}

	battles := t.battles[k.SolarSystemID]
	for _, b := range battles {
		if b.HasKill(k.ID) {
			return b
		}
	}

	var target *Battle
	for _, b := range battles {
		if b.relatedTo(k) {
			target = b
			break
		}
	}
	if target == nil {
		target = newBattle(k)
		battles = append(battles, target)
	} else {
		target.add(k)
	}

	t.battles[k.SolarSystemID] = Cluster(battles)
	for _, b := range t.battles[k.SolarSystemID] {
		if b.HasKill(k.ID) {
			return b
		}
	}
	return target
}

// Tick evicts timed-out battles across all systems.
func (t *Tracker) Tick() {
	now := t.now()
	for systemID := range t.battles {
		t.evictSystem(systemID, now)
	}
}

func (t *Tracker) evictSystem(systemID int64, now time.Time) {
	timeout := time.Duration(t.cfg.Battle.TimeoutMinutes * float64(time.Minute))
	kept := t.battles[systemID][:0]
	for _, b := range t.battles[systemID] {
		if now.Sub(b.LastKill) > timeout {
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		delete(t.battles, systemID)
		return
	}
	t.battles[systemID] = kept
}

func (t *Tracker) maxAge() time.Duration {
	return time.Duration(t.cfg.Battle.MaxAgeMinutes * float64(time.Minute))
}

// Battles returns every stored battle, sorted by id for determinism.
func (t *Tracker) Battles() []*Battle {
	var out []*Battle
	for _, battles := range t.battles {
		out = append(out, battles...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Active returns the display projection: battles young enough to matter
// and involving at least two distinct pilots. Pure; derived at read time.
func (t *Tracker) Active() []*Battle {
	now := t.now()
	var out []*Battle
	for _, b := range t.Battles() {
		if now.Sub(b.LastKill) >= t.maxAge() {
			continue
		}
		if b.Characters.Len() < t.cfg.Battle.MinPilots {
			continue
		}
		out = append(out, b)
	}
	return out
}
