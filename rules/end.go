package rules

// CheckForGameOver reports whether the game has ended: at most one snake
// left alive.
func CheckForGameOver(board *Board) bool {
	return len(board.AliveSnakes()) <= 1
}

// Winner picks the living snake with the highest score, join order
// breaking ties. With no snakes left alive the highest score overall
// wins, so a room where everyone died in the same tick still has a
// result.
func Winner(board *Board) *Snake {
	candidates := board.AliveSnakes()
	if len(candidates) == 0 {
		candidates = board.Snakes
	}
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, s := range candidates[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best
}
