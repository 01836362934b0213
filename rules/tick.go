package rules

import (
	log "github.com/sirupsen/logrus"
)

// Tick runs the board one step and updates it in place.
//
// Every candidate head and every collision check is evaluated against the
// bodies as they stood when the tick began, so all snakes move
// simultaneously: a snake never dies or survives because of another
// snake's already-updated body within the same tick.
//
// 1. apply pending turns and compute candidate heads, wrapped toroidally
// 2. check for death
//    a - self collision, the tail cell has not popped yet
//    b - collision with another living snake's body
//    c - two candidate heads converging on the same cell kill both
// 3. push heads for the survivors, settle food and tails
func Tick(board *Board, foodReward int) {
	alive := board.AliveSnakes()

	heads := make(map[string]Point, len(alive))
	for _, s := range alive {
		if s.NextDirection != (Point{}) {
			s.Direction = s.NextDirection
			s.NextDirection = Point{}
		}
		heads[s.ID] = s.Head().Add(s.Direction).Wrap(board.Width, board.Height)
	}

	causes := checkForDeath(alive, heads)

	ate := false
	for _, s := range alive {
		if cause, ok := causes[s.ID]; ok {
			s.Alive = false
			log.WithFields(log.Fields{
				"SnakeID": s.ID,
				"Name":    s.Name,
				"Cause":   cause,
			}).Info("snake died")
			continue
		}

		head := heads[s.ID]
		s.push(head)
		if head.Equal(board.Food) {
			s.Score += foodReward
			ate = true
			log.WithFields(log.Fields{
				"SnakeID": s.ID,
				"Name":    s.Name,
				"Food":    head,
			}).Info("snake ate")
		} else {
			s.popTail()
		}
	}

	if ate {
		board.Food = PlaceFood(board)
	}
}

// checkForDeath resolves collisions for every candidate head against the
// pre-tick bodies. A snake that dies here is skipped by the move step.
func checkForDeath(alive []*Snake, heads map[string]Point) map[string]string {
	causes := map[string]string{}
	for _, s := range alive {
		head := heads[s.ID]

		for _, b := range s.Body[1:] {
			if b.Equal(head) {
				causes[s.ID] = DeathCauseSelfCollision
				break
			}
		}
		if _, dead := causes[s.ID]; dead {
			continue
		}

		for _, other := range alive {
			if other.ID == s.ID {
				continue
			}
			if other.Occupies(head) {
				causes[s.ID] = DeathCauseSnakeCollision
				break
			}
			if heads[other.ID].Equal(head) {
				causes[s.ID] = DeathCauseHeadCollision
				break
			}
		}
	}
	return causes
}
