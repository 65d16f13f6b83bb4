package game

// IsValidMove reports whether a tile may be placed at (row, col).
func IsValidMove(g *Grid, row, col int) bool {
	return g.IsEmpty(row, col)
}

// Winner returns 1 if player 1 connects the top row to the bottom row,
// 2 if player 2 connects the left column to the right column, else 0.
// Player 1 is checked first.
func Winner(g *Grid) int {
	if connected(g, Player1) {
		return 1
	}
	if connected(g, Player2) {
		return 2
	}
	return 0
}

var neighbours = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// connected runs a flood fill from the player's starting edge and reports
// whether it reaches the opposite edge.
func connected(g *Grid, p Cell) bool {
	var visited [Size][Size]bool
	stack := make([][2]int, 0, Size*Size)
	for i := 0; i < Size; i++ {
		r, c := 0, i
		if p == Player2 {
			r, c = i, 0
		}
		if g[r][c] == p {
			visited[r][c] = true
			stack = append(stack, [2]int{r, c})
		}
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if (p == Player1 && cur[0] == Size-1) || (p == Player2 && cur[1] == Size-1) {
			return true
		}
		for _, d := range neighbours {
			nr, nc := cur[0]+d[0], cur[1]+d[1]
			if InBounds(nr, nc) && !visited[nr][nc] && g[nr][nc] == p {
				visited[nr][nc] = true
				stack = append(stack, [2]int{nr, nc})
			}
		}
	}
	return false
}
