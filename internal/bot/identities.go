package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// BotIdentity is the display profile of a bot opponent.
type BotIdentity struct {
	Name        string `json:"name"`
	AvatarIndex int    `json:"avatar_index"`
}

var defaultIdentities = []BotIdentity{
	{Name: "Zhenya", AvatarIndex: 0},
	{Name: "Liza", AvatarIndex: 1},
	{Name: "Kolya", AvatarIndex: 2},
}

var (
	botIdentities []BotIdentity
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path. Only the first
// call reads the file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var ids []BotIdentity
		if err := json.Unmarshal(data, &ids); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		botIdentities = ids
	})
	return loadErr
}

// GetBotIdentity returns the identity for the bot at index (mod pool size),
// falling back to the built-in names when nothing was loaded.
func GetBotIdentity(index int) BotIdentity {
	pool := botIdentities
	if len(pool) == 0 {
		pool = defaultIdentities
	}
	if index < 0 {
		index = -index
	}
	return pool[index%len(pool)]
}

// seatSlots maps a bot count to the table slots the bots occupy.
var seatSlots = map[int][]string{
	1: {"p2"},
	2: {"p1", "p3"},
	3: {"p1", "p2", "p3"},
}

// HumanSlot is the table slot of the human player.
const HumanSlot = "me"

// SlotsFor returns the slots for botCount bots, or nil if unsupported.
func SlotsFor(botCount int) []string {
	return append([]string(nil), seatSlots[botCount]...)
}
