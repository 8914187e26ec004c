package synth

import (
	"fmt"

	"github.com/jwebster45206/calamity-forge/pkg/records"
)

const (
	ConfigQuestEditorID = "CalamityAffixes_MCM"

	configQuestName     = "Calamity Affixes MCM"
	configQuestScript   = "CalamityAffixes_MCMConfig"
	configQuestPriority = 60
	playerAliasName     = "PlayerAlias_MCM"
)

// playerRef is the player actor reference in the base game master.
var playerRef = records.FormKey{Mod: "Skyrim.esm", ID: 0x000014}

// EnsureConfigQuest creates the configuration quest as the first record of
// the graph, so its id is FirstLocalID no matter how much content follows.
// Saves and the configuration menu track the quest by that id; a shifting id
// leaves duplicate or ghost menu entries behind.
func EnsureConfigQuest(g *records.Graph) (records.FormKey, error) {
	for _, q := range g.Quests {
		if q.EditorID == ConfigQuestEditorID {
			return q.FormKey, nil
		}
	}
	if n := g.NewRecordCount(); n > 0 {
		return records.FormKey{}, fmt.Errorf("%s must be created before any other record (%d already allocated)", ConfigQuestEditorID, n)
	}

	i := g.AddQuest(records.Quest{
		EditorID: ConfigQuestEditorID,
		Name:     configQuestName,
		Flags:    records.QuestFlagStartGameEnabled,
		Priority: configQuestPriority,
		Scripts:  []string{configQuestScript},
		Aliases: []records.QuestAlias{
			{ID: 0, Name: playerAliasName, ForcedReference: playerRef},
		},
	})
	return g.Quests[i].FormKey, nil
}
