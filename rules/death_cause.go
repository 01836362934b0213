package rules

// Death cause strings, used for logging only.
const (
	DeathCauseSelfCollision  = "self-collision"
	DeathCauseSnakeCollision = "snake-collision"
	DeathCauseHeadCollision  = "head-to-head-collision"
)
