package rebalance

import (
	"github.com/arloliu/rebalance/internal/logging"
	"github.com/arloliu/rebalance/internal/metrics"
	"github.com/arloliu/rebalance/placement"
	"github.com/arloliu/rebalance/types"
)

// Option configures a strategy or algorithm with optional dependencies.
type Option func(*options)

// options holds optional configuration shared by the strategy driver and the
// algorithm.
type options struct {
	scheme     placement.Scheme
	logger     types.Logger
	metrics    types.RebalanceMetrics
	maxPerNode int
}

func defaultOptions() options {
	return options{
		scheme:  placement.NewDefault(),
		logger:  logging.NewSlogDefault(),
		metrics: metrics.NewNop(),
	}
}

// WithPlacementScheme sets a custom placement scheme.
//
// Parameters:
//   - scheme: Scheme implementation (see placement.Scheme contract)
//
// Returns:
//   - Option: Functional option for NewAutoRebalanceStrategy / NewAlgorithm
//
// Example:
//
//	strategy := rebalance.NewAutoRebalanceStrategy(
//	    rebalance.WithPlacementScheme(myScheme),
//	)
func WithPlacementScheme(scheme placement.Scheme) Option {
	return func(o *options) {
		if scheme != nil {
			o.scheme = scheme
		}
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewAutoRebalanceStrategy / NewAlgorithm
func WithLogger(logger types.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - collector: RebalanceMetrics implementation
//
// Returns:
//   - Option: Functional option for NewAutoRebalanceStrategy / NewAlgorithm
func WithMetrics(collector types.RebalanceMetrics) Option {
	return func(o *options) {
		if collector != nil {
			o.metrics = collector
		}
	}
}

// WithMaxPartitionsPerNode caps the number of replicas any single node may
// receive in one computation. Values <= 0 mean unlimited.
//
// The strategy driver overrides this per resource from the ideal state's
// MAX_PARTITIONS_PER_INSTANCE field; the option matters when constructing an
// Algorithm directly.
//
// Parameters:
//   - n: Per-node replica cap (<= 0 for unlimited)
//
// Returns:
//   - Option: Functional option for NewAlgorithm
func WithMaxPartitionsPerNode(n int) Option {
	return func(o *options) {
		o.maxPerNode = n
	}
}
