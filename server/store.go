package server

import (
	"sort"
	"sync"

	"tileduel/game"
)

// Store keeps every game in memory, keyed by id.
type Store struct {
	mu     sync.RWMutex
	games  map[int]*Game
	nextID int
}

// NewStore returns an empty store. Ids start at 1.
func NewStore() *Store {
	return &Store{games: make(map[int]*Game), nextID: 1}
}

// Create opens a waiting game for creator.
func (s *Store) Create(creator Seat) (*Game, error) {
	if !game.ValidColor(creator.Color) {
		return nil, ErrBadColor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g := NewGame(s.nextID, creator)
	s.games[g.ID] = g
	s.nextID++
	return g, nil
}

// Get returns the game with the given id.
func (s *Store) Get(id int) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Len returns the number of games held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// ListFor returns snapshots of the games userID plays in, most recently
// updated first.
func (s *Store) ListFor(userID int) []game.Snapshot {
	s.mu.RLock()
	mine := make([]*Game, 0)
	for _, g := range s.games {
		if g.IsPlayer(userID) {
			mine = append(mine, g)
		}
	}
	s.mu.RUnlock()

	sort.Slice(mine, func(i, j int) bool {
		ti, tj := mine[i].UpdatedAt(), mine[j].UpdatedAt()
		if ti.Equal(tj) {
			return mine[i].ID > mine[j].ID
		}
		return ti.After(tj)
	})
	out := make([]game.Snapshot, 0, len(mine))
	for _, g := range mine {
		out = append(out, g.Snapshot())
	}
	return out
}
