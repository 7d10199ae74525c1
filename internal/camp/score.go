package camp

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gatewatch/internal/idset"
	"gatewatch/internal/killmail"
)

// decayPerMinute is the probability fraction lost per minute once decay
// has started.
const decayPerMinute = 0.1

// rescore recomputes the camp probability and reason log. A scoring
// failure suppresses the one camp and is recorded in its log instead of
// aborting the caller's pass.
func (t *Tracker) rescore(c *Camp) {
	defer func() {
		if r := recover(); r != nil {
			c.Probability = 0
			c.ProbabilityLog = append(c.ProbabilityLog, fmt.Sprintf("scoring failed: %v", r))
		}
	}()
	c.Probability, c.ProbabilityLog = t.score(c, t.now())
}

// score computes the 0-95 camp probability for the current time together
// with the ordered list of contributing reasons.
func (t *Tracker) score(c *Camp, now time.Time) (int, []string) {
	var reasons []string
	cc := t.cfg.Camp

	gateKills := t.gateKills(c)
	if len(gateKills) == 0 {
		reasons = append(reasons, "no qualifying gate kills")
		return 0, reasons
	}
	single := len(gateKills) == 1
	burstWindow := time.Duration(cc.BurstWindowSeconds * float64(time.Second))

	score := 0.0

	// Burst penalty: a young camp whose kills landed in one quick burst
	// looks like a gang passing through, not a standing camp.
	campAge := now.Sub(c.FirstSeen)
	if campAge <= time.Duration(cc.RecentCampMinutes*float64(time.Minute)) && hasBurst(gateKills, burstWindow) {
		score -= float64(cc.BurstPenalty)
		reasons = append(reasons, fmt.Sprintf("burst of kills in young camp: -%d%%", cc.BurstPenalty))
	}

	// Threat-ship score over every attacker of every gate kill.
	shipScore := 0
	for _, k := range gateKills {
		for _, a := range k.Attackers {
			shipScore += t.threatWeights[a.ShipTypeID]
		}
	}
	if shipScore > 0 {
		if single && shipScore > cc.SingleKillShipCap {
			shipScore = cc.SingleKillShipCap
			reasons = append(reasons, fmt.Sprintf("threat ships (single kill, capped): +%d%%", shipScore))
		} else {
			reasons = append(reasons, fmt.Sprintf("threat ships: +%d%%", shipScore))
		}
		score += float64(shipScore)
	}

	// Smartbomb signature.
	if t.hasSmartbombWeapon(gateKills) {
		score += float64(cc.SmartbombWeaponBonus)
		reasons = append(reasons, fmt.Sprintf("smartbomb weapon used: +%d%%", cc.SmartbombWeaponBonus))
	}
	if t.hasSmartbombShip(gateKills) {
		bonus := cc.SmartbombShipBonusMulti
		if single {
			bonus = cc.SmartbombShipBonusSingle
		}
		score += float64(bonus)
		reasons = append(reasons, fmt.Sprintf("smartbomb hull present: +%d%%", bonus))
	}

	// Known camp locations.
	for _, loc := range t.cfg.KnownCamps {
		if loc.SystemID == c.SystemID && containsFold(c.GateName, loc.GateSubstring) {
			score += float64(loc.Weight)
			reasons = append(reasons, fmt.Sprintf("known camp location %s: +%d%%", loc.GateSubstring, loc.Weight))
		}
	}

	// Industrials dying at a gate are a strong camp signal.
	if t.hasVulnerableVictim(gateKills) {
		bonus := cc.VulnerableBonusMulti
		if single {
			bonus = cc.VulnerableBonusSingle
		}
		score += float64(bonus)
		reasons = append(reasons, fmt.Sprintf("industrial victim at gate: +%d%%", bonus))
	}

	// Consistency: repeat attackers across the most recent gate kills.
	score += t.consistencyBonus(gateKills, burstWindow, &reasons)

	if score > float64(cc.MaxProbability) {
		score = float64(cc.MaxProbability)
		reasons = append(reasons, fmt.Sprintf("capped at %d%%", cc.MaxProbability))
	}
	if score < 0 {
		score = 0
	}

	// Time decay. Clock skew can put lastKill in the future; clamp.
	minutes := now.Sub(c.LastKill).Minutes()
	if minutes < 0 {
		minutes = 0
	}
	if past := minutes - cc.DecayStartMinutes; past > 0 {
		if past > cc.TimeoutMinutes {
			reasons = append(reasons, "camp expired")
			return 0, reasons
		}
		frac := past * decayPerMinute
		if frac > 1 {
			frac = 1
		}
		score *= 1 - frac
		reasons = append(reasons, fmt.Sprintf("decay %.0f%% after %.1f min without kills", frac*100, minutes))
	}

	p := int(math.Round(score))
	if p < cc.MinDisplayProbability {
		if p > 0 {
			reasons = append(reasons, fmt.Sprintf("below %d%% display floor", cc.MinDisplayProbability))
		}
		return 0, reasons
	}
	if p > cc.MaxProbability {
		p = cc.MaxProbability
	}
	return p, reasons
}

// gateKills filters the camp's kills down to the ones usable for
// scoring: victim passes the exclusion guard and the kill resolves to a
// gate.
func (t *Tracker) gateKills(c *Camp) []*killmail.Kill {
	multi := len(c.Kills) > 1
	var out []*killmail.Kill
	for _, k := range c.Kills {
		if !t.victimQualifies(k, multi) || !k.AtGate() {
			continue
		}
		out = append(out, k)
	}
	return out
}

// victimQualifies applies the exclusion guard: NPC victims, structures,
// non-player entities (corporation without character), and pod kills
// riding another kill carry no camp signal.
func (t *Tracker) victimQualifies(k *killmail.Kill, multi bool) bool {
	if k.HasLabel(killmail.LabelNPC) || k.HasLabel(killmail.LabelStructure) {
		return false
	}
	if t.capsules[k.Victim.ShipTypeID] && multi {
		return false
	}
	if k.Victim.CharacterID == 0 && k.Victim.CorporationID != 0 {
		return false
	}
	return true
}

func (t *Tracker) hasSmartbombWeapon(kills []*killmail.Kill) bool {
	for _, k := range kills {
		for _, a := range k.Attackers {
			if t.smartbombWeapons[a.WeaponTypeID] {
				return true
			}
		}
	}
	return false
}

func (t *Tracker) hasSmartbombShip(kills []*killmail.Kill) bool {
	for _, k := range kills {
		for _, a := range k.Attackers {
			if t.smartbombShips[a.ShipTypeID] {
				return true
			}
		}
	}
	return false
}

func (t *Tracker) hasVulnerableVictim(kills []*killmail.Kill) bool {
	for _, k := range kills {
		if t.industrials[k.Victim.ShipTypeID] {
			return true
		}
	}
	return false
}

// consistencyBonus checks the trailing gate kills for repeat attackers.
// A quick burst whose kills all belong to one corporation or alliance is
// skipped: a single fleet passing through is not a standing camp.
func (t *Tracker) consistencyBonus(gateKills []*killmail.Kill, burstWindow time.Duration, reasons *[]string) float64 {
	cc := t.cfg.Camp
	n := cc.ConsistencyKillCount
	if len(gateKills) < 2 {
		return 0
	}
	recent := gateKills
	if len(recent) > n {
		recent = recent[len(recent)-n:]
	}

	if isBurst(recent, burstWindow) && sharesOneEntity(recent) {
		*reasons = append(*reasons, "same-entity burst, consistency skipped")
		return 0
	}

	bonus := 0.0
	for i := 0; i+1 < len(recent); i++ {
		shared := recent[i].AttackerCharacters().IntersectCount(recent[i+1].AttackerCharacters())
		if shared >= cc.ConsistencyMinShared {
			bonus += float64(cc.ConsistencyBonus)
			*reasons = append(*reasons, fmt.Sprintf("%d repeat attackers across kills: +%d%%", shared, cc.ConsistencyBonus))
		}
	}
	return bonus
}

// hasBurst reports whether any two consecutive kills landed within the
// burst window. Kills are time-sorted.
func hasBurst(kills []*killmail.Kill, window time.Duration) bool {
	for i := 0; i+1 < len(kills); i++ {
		if kills[i+1].Time.Sub(kills[i].Time) < window {
			return true
		}
	}
	return false
}

// isBurst reports whether every consecutive gap is within the window.
func isBurst(kills []*killmail.Kill, window time.Duration) bool {
	if len(kills) < 2 {
		return false
	}
	for i := 0; i+1 < len(kills); i++ {
		if kills[i+1].Time.Sub(kills[i].Time) >= window {
			return false
		}
	}
	return true
}

// sharesOneEntity reports whether all kills tie back to one corporation
// or one alliance, on either side of the fight: every victim in one
// entity, or one entity present among the attackers of every kill.
func sharesOneEntity(kills []*killmail.Kill) bool {
	if victimsShare(kills, func(k *killmail.Kill) int64 { return k.Victim.CorporationID }) {
		return true
	}
	if victimsShare(kills, func(k *killmail.Kill) int64 { return k.Victim.AllianceID }) {
		return true
	}
	if attackersShare(kills, func(a killmail.Attacker) int64 { return a.CorporationID }) {
		return true
	}
	return attackersShare(kills, func(a killmail.Attacker) int64 { return a.AllianceID })
}

func victimsShare(kills []*killmail.Kill, id func(*killmail.Kill) int64) bool {
	first := id(kills[0])
	if first == 0 {
		return false
	}
	for _, k := range kills[1:] {
		if id(k) != first {
			return false
		}
	}
	return true
}

func attackersShare(kills []*killmail.Kill, id func(killmail.Attacker) int64) bool {
	common := idset.New()
	for _, a := range kills[0].Attackers {
		common.Add(id(a))
	}
	for _, k := range kills[1:] {
		next := idset.New()
		for _, a := range k.Attackers {
			if candidate := id(a); common.Contains(candidate) {
				next.Add(candidate)
			}
		}
		common = next
		if common.Len() == 0 {
			return false
		}
	}
	return common.Len() > 0
}

// containsFold is a case-insensitive substring match for gate names.
func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
