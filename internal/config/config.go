// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CampConfig tunes the gate-camp probability scorer. All durations are
// expressed in the unit named by the field so they stay readable in YAML.
type CampConfig struct {
	// DecayStartMinutes is how long after the last kill the probability
	// starts decaying.
	DecayStartMinutes float64 `yaml:"decay_start_minutes"`
	// TimeoutMinutes past decay start forces the probability to zero.
	TimeoutMinutes float64 `yaml:"timeout_minutes"`
	// MaxAgeMinutes since the last kill evicts the camp outright.
	MaxAgeMinutes float64 `yaml:"max_age_minutes"`
	// BurstWindowSeconds is the gap under which two kills count as a burst.
	BurstWindowSeconds float64 `yaml:"burst_window_seconds"`
	// RecentCampMinutes is the camp age under which the burst penalty applies.
	RecentCampMinutes float64 `yaml:"recent_camp_minutes"`
	BurstPenalty      int     `yaml:"burst_penalty"`
	// SingleKillShipCap caps the threat-ship contribution when the camp
	// holds exactly one gate kill.
	SingleKillShipCap        int `yaml:"single_kill_ship_cap"`
	SmartbombWeaponBonus     int `yaml:"smartbomb_weapon_bonus"`
	SmartbombShipBonusSingle int `yaml:"smartbomb_ship_bonus_single"`
	SmartbombShipBonusMulti  int `yaml:"smartbomb_ship_bonus_multi"`
	VulnerableBonusSingle    int `yaml:"vulnerable_bonus_single"`
	VulnerableBonusMulti     int `yaml:"vulnerable_bonus_multi"`
	ConsistencyBonus         int `yaml:"consistency_bonus"`
	// ConsistencyKillCount is how many trailing gate kills the consistency
	// check examines.
	ConsistencyKillCount int `yaml:"consistency_kill_count"`
	// ConsistencyMinShared is the attacker overlap required between two
	// consecutive kills before the bonus applies.
	ConsistencyMinShared  int `yaml:"consistency_min_shared"`
	MaxProbability        int `yaml:"max_probability"`
	MinDisplayProbability int `yaml:"min_display_probability"`
}

// BattleConfig tunes the identity-overlap clusterer.
type BattleConfig struct {
	// TimeoutMinutes since the last kill drops a battle entirely.
	TimeoutMinutes float64 `yaml:"timeout_minutes"`
	// MaxAgeMinutes since the last kill hides a battle from consumers and
	// rejects stale kills on ingest.
	MaxAgeMinutes float64 `yaml:"max_age_minutes"`
	// MinPilots is the distinct-character floor for display.
	MinPilots int `yaml:"min_pilots"`
}

// ShipWeight binds a hull type id to its camp-characteristic weight.
type ShipWeight struct {
	TypeID int64  `yaml:"type_id"`
	Name   string `yaml:"name,omitempty"`
	Weight int    `yaml:"weight"`
}

// TypeRef names a ship or weapon type id without a weight.
type TypeRef struct {
	TypeID int64  `yaml:"type_id"`
	Name   string `yaml:"name,omitempty"`
}

// KnownCamp marks a historically camped gate. GateSubstring is matched
// against the gate celestial name.
type KnownCamp struct {
	SystemID      int64  `yaml:"system_id"`
	SystemName    string `yaml:"system_name,omitempty"`
	GateSubstring string `yaml:"gate_substring"`
	Weight        int    `yaml:"weight"`
}

// Config is the root configuration for the classification engine. Every
// scoring table and threshold is injectable here so deployments can tune
// them without a rebuild.
type Config struct {
	Camp             CampConfig   `yaml:"camp"`
	Battle           BattleConfig `yaml:"battle"`
	ThreatShips      []ShipWeight `yaml:"threat_ships"`
	SmartbombShips   []TypeRef    `yaml:"smartbomb_ships"`
	SmartbombWeapons []TypeRef    `yaml:"smartbomb_weapons"`
	IndustrialShips  []TypeRef    `yaml:"industrial_ships"`
	CapsuleTypes     []TypeRef    `yaml:"capsule_types"`
	KnownCamps       []KnownCamp  `yaml:"known_camps"`
}

// Load loads YAML config and validates it against a CUE schema. Fields
// absent from the file keep their defaults. A missing config file is
// not an error: the built-in defaults apply.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal YAML config: %w", err)
	}
	return cfg, nil
}

// ThreatWeights compiles the threat-ship table into a lookup map.
func (c *Config) ThreatWeights() map[int64]int {
	m := make(map[int64]int, len(c.ThreatShips))
	for _, s := range c.ThreatShips {
		m[s.TypeID] = s.Weight
	}
	return m
}

// SmartbombShipSet compiles the smartbomb hull table into a lookup map.
func (c *Config) SmartbombShipSet() map[int64]bool {
	return typeSet(c.SmartbombShips)
}

// SmartbombWeaponSet compiles the smartbomb weapon table into a lookup map.
func (c *Config) SmartbombWeaponSet() map[int64]bool {
	return typeSet(c.SmartbombWeapons)
}

// IndustrialShipSet compiles the vulnerable-hull table into a lookup map.
func (c *Config) IndustrialShipSet() map[int64]bool {
	return typeSet(c.IndustrialShips)
}

// CapsuleTypeSet compiles the capsule table into a lookup map.
func (c *Config) CapsuleTypeSet() map[int64]bool {
	return typeSet(c.CapsuleTypes)
}

func typeSet(refs []TypeRef) map[int64]bool {
	m := make(map[int64]bool, len(refs))
	for _, r := range refs {
		m[r.TypeID] = true
	}
	return m
}
