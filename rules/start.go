package rules

// SnakeSeed carries the identity of a player to be placed on a new board.
type SnakeSeed struct {
	ID   string
	Name string
}

const startLength = 3

// spawnSlot returns the head position and facing for a join-order slot.
// Slots alternate between the left edge facing right and the right edge
// facing left, on opposite rows, so no two starting bodies can touch.
func spawnSlot(index, width, height int) (Point, Point) {
	var x int
	var dir Point
	if index%2 == 0 {
		x = 5
		dir = Right
	} else {
		x = width - 6
		dir = Left
	}

	var y int
	switch index {
	case 0, 1:
		y = height / 2
	case 2:
		y = height / 4
	default:
		y = 3 * height / 4
	}

	return Point{X: x, Y: y}, dir
}

// NewBoard places every seed on a fresh board in join order, each with a
// length-3 body trailing away from its facing, and spawns the first food
// on an unoccupied cell.
func NewBoard(width, height int, seeds []SnakeSeed) *Board {
	board := &Board{
		Width:  width,
		Height: height,
	}

	for i, seed := range seeds {
		head, dir := spawnSlot(i, width, height)
		body := make([]Point, 0, startLength)
		for j := 0; j < startLength; j++ {
			body = append(body, Point{X: head.X - dir.X*j, Y: head.Y - dir.Y*j})
		}
		board.Snakes = append(board.Snakes, &Snake{
			ID:        seed.ID,
			Name:      seed.Name,
			Body:      body,
			Direction: dir,
			Alive:     true,
		})
	}

	board.Food = PlaceFood(board)
	return board
}
