package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/rebalance/internal/kvutil"
	"github.com/arloliu/rebalance/types"
)

// ErrBucketNameRequired is returned when a NATSKV bucket name is empty.
var ErrBucketNameRequired = errors.New("bucket name is required")

// NATSKVConfig names the KV buckets a NATSKV source reads from.
type NATSKVConfig struct {
	// InstanceBucket registers every known instance: one key per instance id.
	InstanceBucket string `yaml:"instanceBucket"`

	// HeartbeatBucket tracks liveness: instances keep a TTL-bound key alive
	// while they run, so the current key set is the live set.
	HeartbeatBucket string `yaml:"heartbeatBucket"`

	// StateModelBucket holds YAML state-model definitions keyed by model name.
	StateModelBucket string `yaml:"stateModelBucket"`
}

func (c *NATSKVConfig) validate() error {
	if c.InstanceBucket == "" || c.HeartbeatBucket == "" || c.StateModelBucket == "" {
		return ErrBucketNameRequired
	}

	return nil
}

// NATSKV implements types.SnapshotSource over NATS JetStream KeyValue
// buckets.
//
// Instance registrations, heartbeats and state models live in three separate
// buckets (see NATSKVConfig). Key sets are read fresh on every fetch; bucket
// handles are cached. Live and known instances are returned in sorted key
// order, which gives the driver the stable ordering it needs across fetches.
type NATSKV struct {
	js      jetstream.JetStream
	cfg     NATSKVConfig
	handles *xsync.Map[string, jetstream.KeyValue]
}

var _ types.SnapshotSource = (*NATSKV)(nil)

// NewNATSKV creates a snapshot source reading from JetStream KV buckets.
//
// Buckets are created on first use if they do not exist, so readers and
// writers can start in any order.
//
// Parameters:
//   - js: JetStream context
//   - cfg: Bucket names (all three are required)
//
// Returns:
//   - *NATSKV: Initialized source
//   - error: ErrBucketNameRequired when a bucket name is missing
//
// Example:
//
//	js, _ := jetstream.New(natsConn)
//	src, err := source.NewNATSKV(js, source.NATSKVConfig{
//	    InstanceBucket:   "cluster-instances",
//	    HeartbeatBucket:  "cluster-heartbeats",
//	    StateModelBucket: "cluster-statemodels",
//	})
func NewNATSKV(js jetstream.JetStream, cfg NATSKVConfig) (*NATSKV, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &NATSKV{
		js:      js,
		cfg:     cfg,
		handles: xsync.NewMap[string, jetstream.KeyValue](),
	}, nil
}

// FetchSnapshot reads the current cluster picture from the configured
// buckets.
//
// Live instances are the heartbeat keys intersected with the registered
// instance set, so a heartbeat without a registration never reaches the
// driver (the algorithm requires liveNodes to be a subset of allNodes).
//
// Parameters:
//   - ctx: Context for cancellation and deadline
//
// Returns:
//   - *types.ClusterSnapshot: Snapshot with sorted instance lists
//   - error: KV access or state-model decode failure
func (s *NATSKV) FetchSnapshot(ctx context.Context) (*types.ClusterSnapshot, error) {
	instances, err := s.listKeys(ctx, s.cfg.InstanceBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	heartbeats, err := s.listKeys(ctx, s.cfg.HeartbeatBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list heartbeats: %w", err)
	}

	registered := make(map[string]struct{}, len(instances))
	for _, id := range instances {
		registered[id] = struct{}{}
	}
	live := make([]string, 0, len(heartbeats))
	for _, id := range heartbeats {
		if _, ok := registered[id]; ok {
			live = append(live, id)
		}
	}

	defs, err := s.fetchStateModels(ctx)
	if err != nil {
		return nil, err
	}

	return &types.ClusterSnapshot{
		LiveInstances:  live,
		Instances:      instances,
		StateModelDefs: defs,
	}, nil
}

func (s *NATSKV) fetchStateModels(ctx context.Context) (map[string]*types.StateModelDefinition, error) {
	kv, err := s.bucket(ctx, s.cfg.StateModelBucket)
	if err != nil {
		return nil, err
	}

	names, err := s.listKeys(ctx, s.cfg.StateModelBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list state models: %w", err)
	}

	defs := make(map[string]*types.StateModelDefinition, len(names))
	for _, name := range names {
		entry, err := kv.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read state model %s: %w", name, err)
		}
		def, err := types.ParseStateModel(entry.Value())
		if err != nil {
			return nil, fmt.Errorf("invalid state model %s: %w", name, err)
		}
		defs[name] = def
	}

	return defs, nil
}

// listKeys returns the bucket's keys in sorted order. An empty bucket is not
// an error.
func (s *NATSKV) listKeys(ctx context.Context, bucket string) ([]string, error) {
	kv, err := s.bucket(ctx, bucket)
	if err != nil {
		return nil, err
	}

	lister, err := kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("failed to list keys of bucket %s: %w", bucket, err)
	}

	keys := make([]string, 0)
	for key := range lister.Keys() {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}

// bucket returns a cached KV handle, creating or opening the bucket on first
// use.
func (s *NATSKV) bucket(ctx context.Context, name string) (jetstream.KeyValue, error) {
	if kv, ok := s.handles.Load(name); ok {
		return kv, nil
	}

	kv, err := kvutil.EnsureBucket(ctx, s.js, jetstream.KeyValueConfig{Bucket: name}, 3)
	if err != nil {
		return nil, err
	}
	s.handles.Store(name, kv)

	return kv, nil
}
