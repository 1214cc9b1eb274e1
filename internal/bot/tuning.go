package bot

const (
	// DefaultSkillMin and DefaultSkillMax bound the per-bot skill roll.
	DefaultSkillMin = 0.60
	DefaultSkillMax = 0.85

	// closingRankBonus lowers the defence weight of ranks already on the
	// table, since beating with them adds no new tossable rank.
	closingRankBonus = 5

	// safePairMaxValue is the highest rank value hard bots lead as a pair.
	safePairMaxValue = 10
	// safePairMinDefender is the defender hand size needed for a pair lead.
	safePairMinDefender = 2

	// largeHand is the hand size above which tossing is never held back.
	largeHand = 6
	// highCardValue marks cards not worth feeding to a taking defender.
	highCardValue = 11
)
