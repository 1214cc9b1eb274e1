package bot

import (
	"fmt"
	"math/rand"

	"durak/internal/domain"
)

// NewBrain creates a bot policy for the difficulty level. skill is the
// probability of the tactical toss decision and is ignored on easy.
func NewBrain(level domain.Difficulty, skill float64, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		return nil, fmt.Errorf("bot: nil random source")
	}
	switch level {
	case domain.DifficultyEasy:
		return &EasyBot{rng: rng}, nil
	case domain.DifficultyMedium:
		return &MediumBot{Skill: skill, rng: rng}, nil
	case domain.DifficultyHard:
		return &HardBot{MediumBot: MediumBot{Skill: skill, rng: rng}}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %q", level)
	}
}

// RollSkill draws a skill coefficient uniformly from [lo, hi).
func RollSkill(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
