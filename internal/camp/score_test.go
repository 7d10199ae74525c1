package camp

import (
	"strings"
	"testing"
	"time"

	"gatewatch/internal/config"
	"gatewatch/internal/killmail"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type killOpt func(*killmail.Kill)

func atGate(gate string) killOpt {
	return func(k *killmail.Kill) {
		k.Pinpoint = killmail.Pinpoint{AtCelestial: true, NearestCelestial: gate}
	}
}

func victim(charID, corpID, shipType int64) killOpt {
	return func(k *killmail.Kill) {
		k.Victim = killmail.Victim{Identity: killmail.Identity{CharacterID: charID, CorporationID: corpID}, ShipTypeID: shipType}
	}
}

func attacker(charID, corpID, shipType, weaponType int64) killOpt {
	return func(k *killmail.Kill) {
		k.Attackers = append(k.Attackers, killmail.Attacker{
			Identity:     killmail.Identity{CharacterID: charID, CorporationID: corpID},
			ShipTypeID:   shipType,
			WeaponTypeID: weaponType,
		})
	}
}

func newKill(id int64, at time.Time, opts ...killOpt) *killmail.Kill {
	k := &killmail.Kill{
		ID:            id,
		SolarSystemID: 30000142,
		Time:          at,
		Victim:        killmail.Victim{Identity: killmail.Identity{CharacterID: 100 + id, CorporationID: 9000 + id}, ShipTypeID: 17843},
	}
	for _, o := range opts {
		o(k)
	}
	return k
}

func testConfig() *config.Config { return config.Default() }

func newTestTracker(now time.Time) *Tracker {
	return NewTracker(testConfig(), func() time.Time { return now })
}

func hasReason(log []string, substr string) bool {
	for _, r := range log {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

func TestScore_SingleUnknownKillIsLow(t *testing.T) {
	tr := newTestTracker(t0.Add(time.Minute))
	c := tr.Record(newKill(1, t0,
		atGate("Stargate (Jita)"),
		attacker(201, 9100, 17843, 0),
	))
	if c == nil {
		t.Fatalf("gate kill must create a camp")
	}
	if c.Probability >= 20 {
		t.Fatalf("single kill with unknown hulls must score <20%%, got %d (%v)", c.Probability, c.ProbabilityLog)
	}
}

func TestScore_SameCorpBurstPenalizedAndConsistencySkipped(t *testing.T) {
	tr := newTestTracker(t0.Add(3 * time.Minute))
	var c *Camp
	for i := int64(0); i < 3; i++ {
		c = tr.Record(newKill(10+i, t0.Add(time.Duration(i)*45*time.Second),
			atGate("Stargate (Perimeter)"),
			victim(300+i, 9200+i, 17843),
			attacker(400, 9999, 17843, 0),
			attacker(401, 9999, 17843, 0),
		))
	}
	if !hasReason(c.ProbabilityLog, "burst") {
		t.Fatalf("expected burst penalty in log: %v", c.ProbabilityLog)
	}
	if !hasReason(c.ProbabilityLog, "consistency skipped") {
		t.Fatalf("expected consistency skip in log: %v", c.ProbabilityLog)
	}
	if c.Probability != 0 {
		t.Fatalf("burst-only camp must not score, got %d", c.Probability)
	}
}

func TestScore_ConsistencyBonusAppliesOnce(t *testing.T) {
	tr := newTestTracker(t0.Add(10*time.Minute + time.Second))
	tr.Record(newKill(20, t0,
		atGate("Stargate (Sobaseki)"),
		victim(500, 9300, 17843),
		attacker(600, 9400, 17843, 0),
		attacker(601, 9401, 17843, 0),
	))
	c := tr.Record(newKill(21, t0.Add(10*time.Minute),
		atGate("Stargate (Sobaseki)"),
		victim(501, 9301, 17843),
		attacker(600, 9400, 17843, 0),
		attacker(601, 9401, 17843, 0),
	))
	if c.Probability != 15 {
		t.Fatalf("expected exactly the 15%% consistency bonus, got %d (%v)", c.Probability, c.ProbabilityLog)
	}
	if !hasReason(c.ProbabilityLog, "repeat attackers") {
		t.Fatalf("expected repeat-attacker reason: %v", c.ProbabilityLog)
	}
}

func TestScore_ThreatShipsCappedOnSingleKill(t *testing.T) {
	tr := newTestTracker(t0.Add(time.Minute))
	c := tr.Record(newKill(30, t0,
		atGate("Stargate (Niarja)"),
		attacker(700, 9500, 22456, 0), // Sabre
		attacker(701, 9500, 22456, 0),
		attacker(702, 9500, 22456, 0),
	))
	if c.Probability != 50 {
		t.Fatalf("expected the single-kill ship cap of 50, got %d (%v)", c.Probability, c.ProbabilityLog)
	}
	if !hasReason(c.ProbabilityLog, "capped") {
		t.Fatalf("expected cap reason: %v", c.ProbabilityLog)
	}
}

func TestScore_SmartbombSignature(t *testing.T) {
	tr := newTestTracker(t0.Add(time.Minute))
	c := tr.Record(newKill(40, t0,
		atGate("Stargate (Crielere)"),
		attacker(800, 9600, 17738, 3993), // Machariel with a large smartbomb
	))
	if c.Type != TypeSmartbomb {
		t.Fatalf("expected smartbomb classification, got %s", c.Type)
	}
	if !hasReason(c.ProbabilityLog, "smartbomb weapon") || !hasReason(c.ProbabilityLog, "smartbomb hull") {
		t.Fatalf("expected both smartbomb reasons: %v", c.ProbabilityLog)
	}
}

func TestScore_KnownLocationBonus(t *testing.T) {
	tr := newTestTracker(t0.Add(time.Minute))
	k := newKill(50, t0, atGate("Stargate (Crielere)"), attacker(900, 9700, 17843, 0))
	k.SolarSystemID = 30002529 // Rancer
	c := tr.Record(k)
	if !hasReason(c.ProbabilityLog, "known camp location") {
		t.Fatalf("expected known-location bonus: %v", c.ProbabilityLog)
	}
	if c.Probability != 25 {
		t.Fatalf("expected the Rancer/Crielere weight of 25, got %d", c.Probability)
	}
}

func TestScore_VulnerableVictimBonus(t *testing.T) {
	tr := newTestTracker(t0.Add(6 * time.Minute))
	c := tr.Record(newKill(60, t0,
		atGate("Stargate (Uedama)"),
		victim(1000, 9800, 648), // Badger
		attacker(1100, 9900, 17843, 0),
	))
	if c.Probability != 20 {
		t.Fatalf("expected +20 for a single industrial loss, got %d (%v)", c.Probability, c.ProbabilityLog)
	}

	c = tr.Record(newKill(61, t0.Add(5*time.Minute),
		atGate("Stargate (Uedama)"),
		victim(1001, 9801, 17843),
		attacker(1101, 9901, 17843, 0),
	))
	if !hasReason(c.ProbabilityLog, "industrial victim") {
		t.Fatalf("expected the multi-kill industrial bonus to persist: %v", c.ProbabilityLog)
	}
	if c.Probability != 40 {
		t.Fatalf("expected +40 with multiple kills, got %d (%v)", c.Probability, c.ProbabilityLog)
	}
}

func TestScore_CappedAt95(t *testing.T) {
	tr := newTestTracker(t0.Add(10 * time.Minute))
	var c *Camp
	for i := int64(0); i < 3; i++ {
		k := newKill(70+i, t0.Add(time.Duration(i)*4*time.Minute),
			atGate("Stargate (Crielere)"),
			victim(1200+i, int64(9950+i), 648),
			attacker(1300, 9990, 22456, 3993),
			attacker(1301, 9991, 22456, 0),
			attacker(1302, 9992, 17738, 0),
		)
		k.SolarSystemID = 30002529
		c = tr.Record(k)
	}
	if c.Probability != 95 {
		t.Fatalf("probability must cap at 95, got %d (%v)", c.Probability, c.ProbabilityLog)
	}
}

func TestScore_DecayReducesProbability(t *testing.T) {
	tr := newTestTracker(t0.Add(15 * time.Minute))
	c := tr.Record(newKill(80, t0,
		atGate("Stargate (Amamake)"),
		victim(1400, 9960, 648),
		attacker(1500, 9970, 22456, 0),
	))
	// raw: 25 (Sabre) + 20 (industrial) = 45; 5 min past decay start
	// halves it.
	if c.Probability != 23 {
		t.Fatalf("expected 45%% decayed to 23, got %d (%v)", c.Probability, c.ProbabilityLog)
	}
	if !hasReason(c.ProbabilityLog, "decay") {
		t.Fatalf("expected decay reason: %v", c.ProbabilityLog)
	}
}

func TestScore_HardExpiryForcesZero(t *testing.T) {
	tr := newTestTracker(t0.Add(36 * time.Minute))
	c := tr.Record(newKill(81, t0,
		atGate("Stargate (Amamake)"),
		victim(1401, 9961, 648),
		attacker(1501, 9971, 22456, 0),
	))
	if c.Probability != 0 {
		t.Fatalf("expected hard expiry to zero the probability, got %d", c.Probability)
	}
	if !hasReason(c.ProbabilityLog, "expired") {
		t.Fatalf("expected expiry reason: %v", c.ProbabilityLog)
	}
}

func TestScore_ClockSkewClampsToZeroElapsed(t *testing.T) {
	tr := newTestTracker(t0)
	c := tr.Record(newKill(82, t0.Add(2*time.Minute), // kill "in the future"
		atGate("Stargate (Tama)"),
		victim(1402, 9962, 648),
		attacker(1502, 9972, 22456, 0),
	))
	if hasReason(c.ProbabilityLog, "decay") {
		t.Fatalf("future kill must not decay: %v", c.ProbabilityLog)
	}
	if c.Probability != 45 {
		t.Fatalf("expected undecayed 45, got %d (%v)", c.Probability, c.ProbabilityLog)
	}
}

func TestScore_DisplayFloor(t *testing.T) {
	tr := newTestTracker(t0.Add(19*time.Minute + 30*time.Second))
	// raw 45 decayed ~95% lands under the 5% floor.
	c := tr.Record(newKill(83, t0,
		atGate("Stargate (Tama)"),
		victim(1403, 9963, 648),
		attacker(1503, 9973, 22456, 0),
	))
	if c.Probability != 0 {
		t.Fatalf("expected sub-floor probability to report 0, got %d (%v)", c.Probability, c.ProbabilityLog)
	}
}

func TestScore_Deterministic(t *testing.T) {
	run := func() (int, []string) {
		tr := newTestTracker(t0.Add(12 * time.Minute))
		var c *Camp
		for i := int64(0); i < 3; i++ {
			c = tr.Record(newKill(90+i, t0.Add(time.Duration(i)*5*time.Minute),
				atGate("Stargate (Old Man Star)"),
				victim(1600+i, int64(9980+i), 648),
				attacker(1700, 9985, 22456, 0),
				attacker(1701, 9986, 12017, 0),
			))
		}
		return c.Probability, c.ProbabilityLog
	}
	p1, log1 := run()
	p2, log2 := run()
	if p1 != p2 || len(log1) != len(log2) {
		t.Fatalf("scoring must be deterministic: %d/%v vs %d/%v", p1, log1, p2, log2)
	}
	for i := range log1 {
		if log1[i] != log2[i] {
			t.Fatalf("reason logs diverge at %d: %q vs %q", i, log1[i], log2[i])
		}
	}
	if p1 < 0 || p1 > 95 {
		t.Fatalf("probability out of bounds: %d", p1)
	}
}
