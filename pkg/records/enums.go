package records

import "strings"

var actorValues = []string{
	"Aggression", "Confidence", "Energy", "Morality", "Mood", "Assistance",
	"OneHanded", "TwoHanded", "Archery", "Block", "Smithing", "HeavyArmor",
	"LightArmor", "Pickpocket", "Lockpicking", "Sneak", "Alchemy", "Speech",
	"Alteration", "Conjuration", "Destruction", "Illusion", "Restoration", "Enchanting",
	"Health", "Magicka", "Stamina", "HealRate", "MagickaRate", "StaminaRate",
	"SpeedMult", "InventoryWeight", "CarryWeight", "CriticalChance", "MeleeDamage",
	"UnarmedDamage", "Mass", "VoicePoints", "VoiceRate", "DamageResist",
	"PoisonResist", "ResistFire", "ResistShock", "ResistFrost", "ResistMagic",
	"ResistDisease", "Unknown46", "Unknown47", "Unknown48", "Paralysis",
	"Invisibility", "NightEye", "DetectLifeRange", "WaterBreathing", "WaterWalking",
	"Unknown56", "Fame", "Infamy", "JumpingBonus", "WardPower", "RightItemCharge",
	"ArmorPerks", "ShieldPerks", "WardDeflection", "Variable01", "Variable02",
	"Variable03", "Variable04", "Variable05", "Variable06", "Variable07",
	"Variable08", "Variable09", "Variable10", "BowSpeedBonus", "FavorActive",
	"FavorsPerDay", "FavorsPerDayTimer", "LeftItemCharge", "AbsorbChance", "Blindness",
	"WeaponSpeedMult", "ShoutRecoveryMult", "BowStaggerBonus", "Telekinesis",
	"FavorPointsBonus", "LastBribedIntimidated", "LastFlattered", "MovementNoiseMult",
	"BypassVendorStolenCheck", "BypassVendorKeywordCheck", "WaitingForPlayer",
	"OneHandedModifier", "TwoHandedModifier", "MarksmanModifier", "BlockModifier",
	"SmithingModifier", "HeavyArmorModifier", "LightArmorModifier", "PickpocketModifier",
	"LockpickingModifier", "SneakingModifier", "AlchemyModifier", "SpeechcraftModifier",
	"AlterationModifier", "ConjurationModifier", "DestructionModifier", "IllusionModifier",
	"RestorationModifier", "EnchantingModifier", "OneHandedSkillAdvance",
	"TwoHandedSkillAdvance", "MarksmanSkillAdvance", "BlockSkillAdvance",
	"SmithingSkillAdvance", "HeavyArmorSkillAdvance", "LightArmorSkillAdvance",
	"PickpocketSkillAdvance", "LockpickingSkillAdvance", "SneakingSkillAdvance",
	"AlchemySkillAdvance", "SpeechcraftSkillAdvance", "AlterationSkillAdvance",
	"ConjurationSkillAdvance", "DestructionSkillAdvance", "IllusionSkillAdvance",
	"RestorationSkillAdvance", "EnchantingSkillAdvance", "LeftWeaponSpeedMultiply",
	"DragonSouls", "CombatHealthRegenMultiply", "OneHandedPowerModifier",
	"TwoHandedPowerModifier", "MarksmanPowerModifier", "BlockPowerModifier",
	"SmithingPowerModifier", "HeavyArmorPowerModifier", "LightArmorPowerModifier",
	"PickpocketPowerModifier", "LockpickingPowerModifier", "SneakingPowerModifier",
	"AlchemyPowerModifier", "SpeechcraftPowerModifier", "AlterationPowerModifier",
	"ConjurationPowerModifier", "DestructionPowerModifier", "IllusionPowerModifier",
	"RestorationPowerModifier", "EnchantingPowerModifier", "DragonRend",
	"AttackDamageMult", "HealRateMult", "MagickaRateMult", "StaminaRateMult",
	"WerewolfPerks", "VampirePerks", "GrabActorOffset", "Grabbed",
	"DEPRECATED05", "ReflectDamage", "None",
}

var archetypes = []string{
	"ValueModifier", "Script", "Dispel", "CureDisease", "Absorb", "DualValueModifier",
	"Calm", "Demoralize", "Frenzy", "Disarm", "CommandSummoned", "Invisibility",
	"Light", "Darkness", "NightEye", "Lock", "Open", "BoundWeapon", "SummonCreature",
	"DetectLife", "Telekinesis", "Paralysis", "Reanimate", "SoulTrap", "TurnUndead",
	"Guide", "WerewolfFeed", "CureParalysis", "CureAddiction", "CurePoison",
	"Concussion", "ValueAndParts", "AccumulateMagnitude", "Stagger",
	"PeakValueModifier", "Cloak", "Werewolf", "SlowTime", "Rally", "EnhanceWeapon",
	"SpawnHazard", "Etherealize", "Banish", "SpawnScriptedRef", "Disguise",
	"GrabActor", "VampireLord",
}

// DefaultArchetype is used when a magic effect names none.
const DefaultArchetype = "ValueModifier"

func lookup(names []string, v string) (string, bool) {
	v = strings.TrimSpace(v)
	for _, n := range names {
		if strings.EqualFold(n, v) {
			return n, true
		}
	}
	return "", false
}

// LookupActorValue resolves an actor value name case-insensitively and
// returns its canonical spelling.
func LookupActorValue(v string) (string, bool) {
	return lookup(actorValues, v)
}

// LookupArchetype resolves a magic effect archetype name case-insensitively.
func LookupArchetype(v string) (string, bool) {
	return lookup(archetypes, v)
}
