package config

// Default returns the built-in configuration. The binary runs with these
// values when no config file is given; a file only overrides the fields
// it sets.
func Default() *Config {
	return &Config{
		Camp: CampConfig{
			DecayStartMinutes:        10,
			TimeoutMinutes:           25,
			MaxAgeMinutes:            40,
			BurstWindowSeconds:       120,
			RecentCampMinutes:        15,
			BurstPenalty:             20,
			SingleKillShipCap:        50,
			SmartbombWeaponBonus:     16,
			SmartbombShipBonusSingle: 15,
			SmartbombShipBonusMulti:  30,
			VulnerableBonusSingle:    20,
			VulnerableBonusMulti:     40,
			ConsistencyBonus:         15,
			ConsistencyKillCount:     3,
			ConsistencyMinShared:     2,
			MaxProbability:           95,
			MinDisplayProbability:    5,
		},
		Battle: BattleConfig{
			TimeoutMinutes: 10,
			MaxAgeMinutes:  5,
			MinPilots:      2,
		},
		ThreatShips: []ShipWeight{
			// Interdictors: the strongest single camp signal.
			{TypeID: 22456, Name: "Sabre", Weight: 25},
			{TypeID: 22452, Name: "Heretic", Weight: 25},
			{TypeID: 22460, Name: "Eris", Weight: 25},
			{TypeID: 22464, Name: "Flycatcher", Weight: 25},
			// Heavy interdiction cruisers.
			{TypeID: 12017, Name: "Devoter", Weight: 20},
			{TypeID: 12021, Name: "Phobos", Weight: 20},
			{TypeID: 11995, Name: "Onyx", Weight: 20},
			{TypeID: 11993, Name: "Broadsword", Weight: 20},
			// Combat recons with long tackle range.
			{TypeID: 17722, Name: "Curse", Weight: 15},
			{TypeID: 11971, Name: "Lachesis", Weight: 15},
			{TypeID: 11969, Name: "Arazu", Weight: 15},
			{TypeID: 11963, Name: "Rapier", Weight: 15},
			{TypeID: 11961, Name: "Huginn", Weight: 15},
			// Tactical destroyers seen in smallgang camps.
			{TypeID: 34562, Name: "Svipul", Weight: 10},
			{TypeID: 35683, Name: "Hecate", Weight: 10},
			{TypeID: 34828, Name: "Jackdaw", Weight: 10},
			{TypeID: 34317, Name: "Confessor", Weight: 10},
			// Fast tackle interceptors.
			{TypeID: 11198, Name: "Stiletto", Weight: 10},
			{TypeID: 11186, Name: "Malediction", Weight: 10},
			{TypeID: 11176, Name: "Crow", Weight: 10},
			{TypeID: 11202, Name: "Ares", Weight: 10},
		},
		SmartbombShips: []TypeRef{
			{TypeID: 17738, Name: "Machariel"},
			{TypeID: 17736, Name: "Nightmare"},
			{TypeID: 24692, Name: "Abaddon"},
			{TypeID: 24688, Name: "Rokh"},
			{TypeID: 642, Name: "Apocalypse"},
		},
		SmartbombWeapons: []TypeRef{
			{TypeID: 3993, Name: "Large EMP Smartbomb I"},
			{TypeID: 3995, Name: "Large EMP Smartbomb II"},
			{TypeID: 3987, Name: "Large Proton Smartbomb I"},
			{TypeID: 3989, Name: "Large Proton Smartbomb II"},
			{TypeID: 3975, Name: "Large Plasma Smartbomb I"},
			{TypeID: 3977, Name: "Large Plasma Smartbomb II"},
			{TypeID: 3981, Name: "Large Graviton Smartbomb I"},
			{TypeID: 3983, Name: "Large Graviton Smartbomb II"},
		},
		IndustrialShips: []TypeRef{
			{TypeID: 648, Name: "Badger"},
			{TypeID: 649, Name: "Tayra"},
			{TypeID: 652, Name: "Mammoth"},
			{TypeID: 657, Name: "Iteron Mark V"},
			{TypeID: 1944, Name: "Bestower"},
			{TypeID: 19744, Name: "Sigil"},
			{TypeID: 17478, Name: "Retriever"},
			{TypeID: 17476, Name: "Covetor"},
			{TypeID: 17480, Name: "Procurer"},
			{TypeID: 22544, Name: "Hulk"},
			{TypeID: 22546, Name: "Skiff"},
			{TypeID: 22548, Name: "Mackinaw"},
			{TypeID: 32880, Name: "Venture"},
			{TypeID: 20185, Name: "Charon"},
			{TypeID: 20187, Name: "Obelisk"},
		},
		CapsuleTypes: []TypeRef{
			{TypeID: 670, Name: "Capsule"},
			{TypeID: 33328, Name: "Capsule - Genolution 'Auroral' 197-variant"},
		},
		KnownCamps: []KnownCamp{
			{SystemID: 30002813, SystemName: "Tama", GateSubstring: "Nourvukaiken", Weight: 20},
			{SystemID: 30002813, SystemName: "Tama", GateSubstring: "Kedama", Weight: 15},
			{SystemID: 30002529, SystemName: "Rancer", GateSubstring: "Crielere", Weight: 25},
			{SystemID: 30002529, SystemName: "Rancer", GateSubstring: "Miroitem", Weight: 20},
			{SystemID: 30005196, SystemName: "Ahbazon", GateSubstring: "Hykkota", Weight: 25},
			{SystemID: 30002537, SystemName: "Amamake", GateSubstring: "Osoggur", Weight: 15},
			{SystemID: 30002768, SystemName: "Uedama", GateSubstring: "Sivala", Weight: 15},
		},
	}
}
