package contract

var builtinTriggers = []string{"Hit", "IncomingHit", "DotApply", "Kill"}

var builtinActionTypes = []string{
	"DebugNotify",
	"CastSpell",
	"CastSpellAdaptiveElement",
	"CastOnCrit",
	"ConvertDamage",
	"MindOverMatter",
	"Archmage",
	"CorpseExplosion",
	"SummonCorpseExplosion",
	"SpawnTrap",
}

// Ordered El (most common) to Zod (rarest).
var builtinRuneWeights = []RuneWeight{
	{"El", 1200}, {"Eld", 1100}, {"Tir", 1000}, {"Nef", 900}, {"Eth", 800},
	{"Ith", 700}, {"Tal", 620}, {"Ral", 560}, {"Ort", 500}, {"Thul", 450},
	{"Amn", 400}, {"Sol", 340}, {"Shael", 280}, {"Dol", 230}, {"Hel", 190},
	{"Io", 155}, {"Lum", 125}, {"Ko", 100}, {"Fal", 80}, {"Lem", 64},
	{"Pul", 50}, {"Um", 39}, {"Mal", 30}, {"Ist", 23}, {"Gul", 17},
	{"Vex", 14}, {"Ohm", 11}, {"Lo", 8}, {"Sur", 6}, {"Ber", 5},
	{"Jah", 4}, {"Cham", 3}, {"Zod", 2},
}

func fallbackRuneWeights() []RuneWeight {
	return append([]RuneWeight(nil), builtinRuneWeights...)
}

// Builtin returns the fallback contract used when no document is found.
func Builtin() *Contract {
	return newContract(
		append([]string(nil), builtinTriggers...),
		append([]string(nil), builtinActionTypes...),
		nil,
		fallbackRuneWeights(),
		SourceBuiltin,
	)
}
