package main

import (
	"context"

	"github.com/wharf-ops/wharf/internal/config"
	"github.com/wharf-ops/wharf/internal/domain/catalog/mongostore"
)

// connectStore dials the catalog store and pings it immediately, so a
// misconfigured MONGODB fails here with one attributable, actionable error
// instead of surfacing later from whatever load call happens to run first.
func connectStore(ctx context.Context, cfg config.Config) (*mongostore.Store, error) {
	store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.Database, cfg.AgentID)
	if err != nil {
		return nil, &config.UserError{
			Message:    "failed to connect to the catalog store",
			Suggestion: "check that MONGODB points at a reachable mongod/mongos instance",
			Underlying: err,
		}
	}
	if err := store.Ping(ctx); err != nil {
		return nil, &config.UserError{
			Message:    "catalog store did not respond to ping",
			Suggestion: "check that MONGODB points at a reachable mongod/mongos instance",
			Underlying: err,
		}
	}
	return store, nil
}
