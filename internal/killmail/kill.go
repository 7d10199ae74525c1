// Package killmail defines the immutable kill event ingested by the engine.
package killmail

import (
	"strings"
	"time"

	"gatewatch/internal/idset"
)

// Well-known kill labels attached by the upstream feed.
const (
	LabelNPC       = "npc"
	LabelStructure = "structure"
)

// Identity carries the character/corporation/alliance ids of one party.
// Any field may be zero when the upstream feed could not resolve it.
type Identity struct {
	CharacterID   int64 `json:"character_id,omitempty"`
	CorporationID int64 `json:"corporation_id,omitempty"`
	AllianceID    int64 `json:"alliance_id,omitempty"`
}

// Victim is the destroyed party of a kill.
type Victim struct {
	Identity
	ShipTypeID int64 `json:"ship_type_id"`
}

// Attacker is one aggressor on a kill.
type Attacker struct {
	Identity
	ShipTypeID   int64 `json:"ship_type_id,omitempty"`
	WeaponTypeID int64 `json:"weapon_type_id,omitempty"`
	FinalBlow    bool  `json:"final_blow,omitempty"`
}

// Pinpoint is the externally computed location resolution for a kill:
// whether it happened at a named celestial and whether position data
// triangulates to one.
type Pinpoint struct {
	AtCelestial      bool   `json:"at_celestial"`
	NearestCelestial string `json:"nearest_celestial,omitempty"`
	Triangulable     bool   `json:"triangulable"`
}

// Kill is one combat kill event. It is append-only: the engine never
// mutates a kill after ingestion.
type Kill struct {
	ID            int64      `json:"killmail_id"`
	SolarSystemID int64      `json:"solar_system_id"`
	Time          time.Time  `json:"killmail_time"`
	Victim        Victim     `json:"victim"`
	Attackers     []Attacker `json:"attackers,omitempty"`
	TotalValue    float64    `json:"total_value,omitempty"`
	DroppedValue  float64    `json:"dropped_value,omitempty"`
	Labels        []string   `json:"labels,omitempty"`
	Pinpoint      Pinpoint   `json:"pinpoint"`
}

// HasLabel reports whether the feed tagged the kill with label.
func (k *Kill) HasLabel(label string) bool {
	for _, l := range k.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// AtGate reports whether the kill is located at, or triangulable to, a
// stargate. Gate celestials carry "Stargate" in their name.
func (k *Kill) AtGate() bool {
	if !k.Pinpoint.AtCelestial && !k.Pinpoint.Triangulable {
		return false
	}
	return strings.Contains(k.Pinpoint.NearestCelestial, "Stargate")
}

// GateName returns the celestial name the kill resolves to, or "" when
// the kill has no location resolution.
func (k *Kill) GateName() string {
	return k.Pinpoint.NearestCelestial
}

// AttackerCharacters returns the character ids of all attackers.
func (k *Kill) AttackerCharacters() idset.Set {
	s := idset.New()
	for _, a := range k.Attackers {
		s.Add(a.CharacterID)
	}
	return s
}

// Characters returns victim plus attacker character ids.
func (k *Kill) Characters() idset.Set {
	s := k.AttackerCharacters()
	s.Add(k.Victim.CharacterID)
	return s
}

// Corporations returns victim plus attacker corporation ids.
func (k *Kill) Corporations() idset.Set {
	s := idset.New(k.Victim.CorporationID)
	for _, a := range k.Attackers {
		s.Add(a.CorporationID)
	}
	return s
}

// Alliances returns victim plus attacker alliance ids.
func (k *Kill) Alliances() idset.Set {
	s := idset.New(k.Victim.AllianceID)
	for _, a := range k.Attackers {
		s.Add(a.AllianceID)
	}
	return s
}
