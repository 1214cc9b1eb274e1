package bot

import (
	"fmt"

	"durak/internal/domain"
)

// Agent is a bot seated at the table.
type Agent struct {
	Seat     int
	Name     string
	Strategy Brain
}

// Play asks the agent for its move in the current state.
func (a *Agent) Play(game *domain.Game) (domain.Move, error) {
	if a.Seat <= domain.HumanID || a.Seat >= len(game.Players) {
		return domain.Move{}, fmt.Errorf("agent %s: %w", a.Name, domain.ErrUnknownSeat)
	}
	if game.Players[a.Seat].IsOut || game.IsOver() {
		return domain.Move{}, ErrNoMove
	}
	return a.Strategy.CalculateMove(Observe(game, a.Seat))
}
