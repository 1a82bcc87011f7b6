package gamestate

// Phase is the active top-level state. Exactly one is active per tick.
type Phase int

const (
	Menu Phase = iota
	Playing
	LevelTransitioning
	Dead
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Menu:
		return "menu"
	case Playing:
		return "playing"
	case LevelTransitioning:
		return "level_transitioning"
	case Dead:
		return "dead"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
