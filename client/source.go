package client

import (
	"context"
	"fmt"

	"tileduel/config"
	"tileduel/game"
)

// StateSource is where the client reads authoritative state from.
type StateSource interface {
	// Observe is one reconciliation read.
	Observe(ctx context.Context) (Observation, error)
	// Bootstrap returns everything needed to (re)build the client state.
	Bootstrap(ctx context.Context) (*game.Snapshot, error)
}

// NewSource picks the source implementation for kind.
func NewSource(kind config.Source, api *API) (StateSource, error) {
	switch kind {
	case config.SourceJSON:
		return jsonSource{api: api}, nil
	case config.SourcePage:
		return pageSource{api: api}, nil
	}
	return nil, fmt.Errorf("unknown source %q", kind)
}

// jsonSource reads the structured state endpoint.
type jsonSource struct{ api *API }

func (s jsonSource) Observe(ctx context.Context) (Observation, error) {
	snap, err := s.api.Snapshot(ctx)
	if err != nil {
		return Observation{}, err
	}
	return Observation{Grid: &snap.Board.Grid, Turn: &snap.CurrentTurn, Status: &snap.Status}, nil
}

func (s jsonSource) Bootstrap(ctx context.Context) (*game.Snapshot, error) {
	return s.api.Snapshot(ctx)
}

// pageSource scrapes the script globals out of the HTML game page.
type pageSource struct{ api *API }

func (s pageSource) Observe(ctx context.Context) (Observation, error) {
	page, err := s.api.Page(ctx)
	if err != nil {
		return Observation{}, err
	}
	return ParseObservation(page)
}

func (s pageSource) Bootstrap(ctx context.Context) (*game.Snapshot, error) {
	page, err := s.api.Page(ctx)
	if err != nil {
		return nil, err
	}
	return ParseBootstrap(page)
}
