package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

const (
	hostsCollection      = "hosts"
	blueprintsCollection = "blueprints"
	runLogCollection     = "run_log"
)

// Store is the catalog adapter (C1): it owns the MongoDB connection and
// implements loadHosts, loadBlueprints, findLastSuccessfulRun and saveRun
// exactly per spec §4.1.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	agentID catalog.HostID
}

// Connect constructs a client against the catalog store without verifying
// connectivity; the mongo driver dials lazily on first use. Callers that want
// to fail fast with a clear message (spec §7 tier 3) should call Ping
// immediately afterward rather than let a misconfigured MONGODB surface as a
// raw driver error three calls deep.
func Connect(ctx context.Context, uri, dbName string, agentID catalog.HostID) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to catalog store: %w", err)
	}
	return &Store{client: client, db: client.Database(dbName), agentID: agentID}, nil
}

// Ping verifies the catalog store is reachable. cmd/wharf-agent's
// connectStore calls this right after Connect so a misconfigured MONGODB
// fails with a single, attributable error instead of surfacing from
// whatever load call happens to run first (a supplemental check, see
// SPEC_FULL.md's catalog/mongostore section).
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from the catalog store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// LoadHosts reads every host document, marks the configured agent host, and
// probes reachability of every peer the agent holds SSH credentials for
// (spec §4.1). Probing is awaited per the §9 redesign flag: the original
// fire-and-forget probe left every host "reachable" by default; here each
// probe blocks on its own goroutine and the verdict reflects the real
// outcome.
func (s *Store) LoadHosts(ctx context.Context) (map[catalog.HostID]*catalog.Host, error) {
	cursor, err := s.db.Collection(hostsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load hosts: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	hosts := make(map[catalog.HostID]*catalog.Host)
	for cursor.Next(ctx) {
		var doc hostDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode host document: %w", err)
		}
		host, err := toHost(doc)
		if err != nil {
			return nil, err
		}
		hosts[host.ID] = host
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("load hosts: %w", err)
	}

	if agent, ok := hosts[s.agentID]; ok {
		agent.Agent = true
		probeReachability(ctx, agent, hosts)
	}

	return hosts, nil
}

// LoadBlueprints reads every blueprint document.
func (s *Store) LoadBlueprints(ctx context.Context) ([]catalog.Blueprint, error) {
	cursor, err := s.db.Collection(blueprintsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load blueprints: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var blueprints []catalog.Blueprint
	for cursor.Next(ctx) {
		var doc blueprintDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode blueprint document: %w", err)
		}
		b, err := toBlueprint(doc)
		if err != nil {
			return nil, err
		}
		blueprints = append(blueprints, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("load blueprints: %w", err)
	}
	return blueprints, nil
}

// FindLastSuccessfulRun returns the most recent run for planId whose error
// field is absent or null (spec §4.1, §7).
func (s *Store) FindLastSuccessfulRun(ctx context.Context, planID string) (*time.Time, error) {
	filter := bson.M{
		"plan.id": planID,
		"$or": bson.A{
			bson.M{"error": bson.M{"$exists": false}},
			bson.M{"error": nil},
		},
	}
	opts := options.FindOne().SetSort(bson.M{"timestamp": -1})

	var doc runDoc
	err := s.db.Collection(runLogCollection).FindOne(ctx, filter, opts).Decode(&doc)
	switch {
	case err == mongo.ErrNoDocuments:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("find last successful run for %q: %w", planID, err)
	}
	t := doc.Timestamp
	return &t, nil
}

// LoadSnapshot assembles a full catalog.Snapshot: every host (with peer
// reachability probed), every blueprint, and the last successful run time
// for each blueprint id. It also enforces the supplemental check that AGENT
// names a host actually present in the catalog, since the agent otherwise
// fails much later and more confusingly inside the planner.
func (s *Store) LoadSnapshot(ctx context.Context) (catalog.Snapshot, error) {
	hosts, err := s.LoadHosts(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	if _, ok := hosts[s.agentID]; !ok {
		return catalog.Snapshot{}, fmt.Errorf("configured agent host %q is not present in the catalog", s.agentID)
	}

	blueprints, err := s.LoadBlueprints(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}

	lastRun := make(map[string]time.Time, len(blueprints))
	for _, b := range blueprints {
		t, err := s.FindLastSuccessfulRun(ctx, b.ID)
		if err != nil {
			return catalog.Snapshot{}, err
		}
		if t != nil {
			lastRun[b.ID] = *t
		}
	}

	return catalog.NewSnapshot(hosts, blueprints, lastRun, s.agentID), nil
}

// SaveRun appends a run record. Presence of runErr marks the run as failed
// (spec §4.1).
func (s *Store) SaveRun(ctx context.Context, plan catalog.Plan, logLines []string, runErr error) error {
	doc := runDoc{
		Timestamp: time.Now().UTC(),
		Plan:      planDoc(plan),
		Log:       logLines,
	}
	if runErr != nil {
		msg := runErr.Error()
		doc.Error = &msg
	}
	if _, err := s.db.Collection(runLogCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("save run for plan %q: %w", plan.ID, err)
	}
	return nil
}
