// Package activity exposes the classified state (camps and battles) as a
// read-only snapshot for consumers.
package activity

import (
	"fmt"
	"time"

	"gatewatch/internal/battle"
	"gatewatch/internal/camp"
)

// Classification tags one activity in the snapshot.
type Classification string

const (
	ClassGateCamp      Classification = "gatecamp"
	ClassSmartbombCamp Classification = "smartbomb"
	ClassBattle        Classification = "battle"
	// ClassRoam is assigned by external classifiers on top of this feed;
	// listed so consumers can switch over one closed set.
	ClassRoam Classification = "roam"
)

// Activity is the projection of one camp or battle. It owns no state:
// building it is a pure function of the aggregate.
type Activity struct {
	ID             string         `json:"id"`
	Classification Classification `json:"classification"`
	SolarSystemID  int64          `json:"solar_system_id"`
	GateName       string         `json:"gate_name,omitempty"`
	// Confidence is the camp probability percent, or the distinct pilot
	// count for battles.
	Confidence int       `json:"confidence"`
	Pilots     int       `json:"pilots,omitempty"`
	TotalValue float64   `json:"total_value"`
	KillIDs    []int64   `json:"kill_ids"`
	FirstSeen  time.Time `json:"first_seen,omitempty"`
	LastKill   time.Time `json:"last_kill"`
}

// Snapshot is the full published state. Consumers replace their previous
// copy wholesale; no diff contract exists.
type Snapshot struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Activities  []Activity `json:"activities"`
}

// FromCamp projects a camp aggregate. The id is stable across updates:
// it is the aggregate key itself.
func FromCamp(c *camp.Camp) Activity {
	class := ClassGateCamp
	if c.Type == camp.TypeSmartbomb {
		class = ClassSmartbombCamp
	}
	return Activity{
		ID:             fmt.Sprintf("camp/%s", c.Key()),
		Classification: class,
		SolarSystemID:  c.SystemID,
		GateName:       c.GateName,
		Confidence:     c.Probability,
		Pilots:         c.Active.Len(),
		TotalValue:     c.TotalValue,
		KillIDs:        c.KillIDs(),
		FirstSeen:      c.FirstSeen,
		LastKill:       c.LastKill,
	}
}

// FromBattle projects a battle aggregate.
func FromBattle(b *battle.Battle) Activity {
	return Activity{
		ID:             fmt.Sprintf("battle/%s", b.ID),
		Classification: ClassBattle,
		SolarSystemID:  b.SystemID,
		Confidence:     b.Characters.Len(),
		Pilots:         b.Characters.Len(),
		TotalValue:     b.TotalValue,
		KillIDs:        b.KillIDs(),
		LastKill:       b.LastKill,
	}
}
