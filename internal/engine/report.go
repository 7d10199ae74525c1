package engine

import (
	"sort"
	"time"
)

// CampReport is the diagnostic view of one camp, including the reason
// log behind its probability and the suppressed camps the snapshot
// hides.
type CampReport struct {
	Key            string    `json:"key"`
	SolarSystemID  int64     `json:"solar_system_id"`
	GateName       string    `json:"gate_name"`
	Type           string    `json:"type"`
	Probability    int       `json:"probability"`
	ProbabilityLog []string  `json:"probability_log"`
	KillIDs        []int64   `json:"kill_ids"`
	Original       []int64   `json:"original_attackers"`
	Active         []int64   `json:"active_attackers"`
	Killed         []int64   `json:"killed_attackers"`
	TotalValue     float64   `json:"total_value"`
	FirstSeen      time.Time `json:"first_seen"`
	LastKill       time.Time `json:"last_kill"`
}

// BattleReport is the diagnostic view of one battle, raw store included.
type BattleReport struct {
	ID           string    `json:"id"`
	SolarSystemID int64    `json:"solar_system_id"`
	KillIDs      []int64   `json:"kill_ids"`
	Pilots       int       `json:"pilots"`
	Corporations int       `json:"corporations"`
	Alliances    int       `json:"alliances"`
	TotalValue   float64   `json:"total_value"`
	LastKill     time.Time `json:"last_kill"`
}

// Camps returns diagnostic copies of every tracked camp, suppressed ones
// included.
func (e *Engine) Camps() []CampReport {
	var out []CampReport

	e.mu.RLock()
	shards := make([]*shard, 0, len(e.shards))
	for _, s := range e.shards {
		shards = append(shards, s)
	}
	e.mu.RUnlock()

	for _, s := range shards {
		s.mu.Lock()
		for _, c := range s.camps.Camps() {
			logCopy := make([]string, len(c.ProbabilityLog))
			copy(logCopy, c.ProbabilityLog)
			out = append(out, CampReport{
				Key:            c.Key(),
				SolarSystemID:  c.SystemID,
				GateName:       c.GateName,
				Type:           string(c.Type),
				Probability:    c.Probability,
				ProbabilityLog: logCopy,
				KillIDs:        c.KillIDs(),
				Original:       c.Original.Values(),
				Active:         c.Active.Values(),
				Killed:         c.Killed.Values(),
				TotalValue:     c.TotalValue,
				FirstSeen:      c.FirstSeen,
				LastKill:       c.LastKill,
			})
		}
		s.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Battles returns diagnostic copies of every stored battle, including
// ones the display filter hides.
func (e *Engine) Battles() []BattleReport {
	var out []BattleReport

	e.mu.RLock()
	shards := make([]*shard, 0, len(e.shards))
	for _, s := range e.shards {
		shards = append(shards, s)
	}
	e.mu.RUnlock()

	for _, s := range shards {
		s.mu.Lock()
		for _, b := range s.battles.Battles() {
			out = append(out, BattleReport{
				ID:            b.ID,
				SolarSystemID: b.SystemID,
				KillIDs:       b.KillIDs(),
				Pilots:        b.Characters.Len(),
				Corporations:  b.Corporations.Len(),
				Alliances:     b.Alliances.Len(),
				TotalValue:    b.TotalValue,
				LastKill:      b.LastKill,
			})
		}
		s.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
