package types

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// RebalanceMode selects how a resource's partition placement is managed.
type RebalanceMode string

const (
	// ModeAuto lets the controller place both partitions and states. The
	// ideal state carries per-replica node lists only; states are recomputed
	// downstream.
	ModeAuto RebalanceMode = "AUTO"

	// ModeSemiAuto pins partition locations but lets the controller assign
	// states.
	ModeSemiAuto RebalanceMode = "SEMI_AUTO"

	// ModeCustomized pins both locations and states.
	ModeCustomized RebalanceMode = "CUSTOMIZED"
)

// Simple-field keys used by IdealState.
const (
	fieldNumPartitions            = "NUM_PARTITIONS"
	fieldReplicas                 = "REPLICAS"
	fieldStateModelDefRef         = "STATE_MODEL_DEF_REF"
	fieldMaxPartitionsPerInstance = "MAX_PARTITIONS_PER_INSTANCE"
	fieldRebalanceMode            = "REBALANCE_MODE"
)

// IdealStateConfig is the typed view of an ideal state's simple fields.
//
// Decoding is weakly typed: numeric fields stored as strings parse into ints.
type IdealStateConfig struct {
	NumPartitions            int    `mapstructure:"NUM_PARTITIONS"`
	Replicas                 int    `mapstructure:"REPLICAS"`
	StateModelDefRef         string `mapstructure:"STATE_MODEL_DEF_REF"`
	MaxPartitionsPerInstance int    `mapstructure:"MAX_PARTITIONS_PER_INSTANCE"`
	RebalanceMode            string `mapstructure:"REBALANCE_MODE"`
}

// IdealState is the desired partition placement of one resource.
//
// It wraps a Record: scalar settings live in the simple fields, and the
// per-partition placement lives in the list and map fields. Which field
// collections are authoritative depends on the rebalance mode.
type IdealState struct {
	// Record is the backing record. It is exported so callers can persist it
	// directly; mutate it only through the accessors.
	Record *Record
}

// NewIdealState creates an empty ideal state for the named resource.
func NewIdealState(resourceName string) *IdealState {
	return &IdealState{Record: NewRecord(resourceName)}
}

// ResourceName returns the resource this ideal state describes.
func (is *IdealState) ResourceName() string {
	return is.Record.ID
}

// PartitionSet returns the resource's partitions in sorted order.
//
// Partitions are the union of list-field and map-field keys, so the set is
// stable regardless of which collection a given mode populates.
func (is *IdealState) PartitionSet() []string {
	seen := make(map[string]struct{}, len(is.Record.ListFields))
	for p := range is.Record.ListFields {
		seen[p] = struct{}{}
	}
	for p := range is.Record.MapFields {
		seen[p] = struct{}{}
	}

	partitions := make([]string, 0, len(seen))
	for p := range seen {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)

	return partitions
}

// Config decodes the simple fields into a typed IdealStateConfig.
//
// Returns:
//   - IdealStateConfig: Typed configuration (zero values for absent fields)
//   - error: Decode error for malformed field values
func (is *IdealState) Config() (IdealStateConfig, error) {
	var cfg IdealStateConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, fmt.Errorf("failed to build ideal state decoder: %w", err)
	}
	if err := dec.Decode(is.Record.SimpleFields); err != nil {
		return cfg, fmt.Errorf("failed to decode ideal state fields: %w", err)
	}

	return cfg, nil
}

// Replicas returns the per-partition replica count, or 0 if unset or
// malformed.
func (is *IdealState) Replicas() int {
	n, err := strconv.Atoi(is.Record.GetSimpleField(fieldReplicas))
	if err != nil {
		return 0
	}

	return n
}

// SetReplicas sets the per-partition replica count.
func (is *IdealState) SetReplicas(n int) {
	is.Record.SetSimpleField(fieldReplicas, strconv.Itoa(n))
}

// NumPartitions returns the declared partition count, or 0 if unset.
func (is *IdealState) NumPartitions() int {
	n, err := strconv.Atoi(is.Record.GetSimpleField(fieldNumPartitions))
	if err != nil {
		return 0
	}

	return n
}

// SetNumPartitions sets the declared partition count.
func (is *IdealState) SetNumPartitions(n int) {
	is.Record.SetSimpleField(fieldNumPartitions, strconv.Itoa(n))
}

// StateModelDefRef returns the name of the state model governing this
// resource.
func (is *IdealState) StateModelDefRef() string {
	return is.Record.GetSimpleField(fieldStateModelDefRef)
}

// SetStateModelDefRef sets the state model reference.
func (is *IdealState) SetStateModelDefRef(name string) {
	is.Record.SetSimpleField(fieldStateModelDefRef, name)
}

// MaxPartitionsPerInstance returns the per-node replica cap. Values <= 0
// (including an unset field) mean unlimited.
func (is *IdealState) MaxPartitionsPerInstance() int {
	n, err := strconv.Atoi(is.Record.GetSimpleField(fieldMaxPartitionsPerInstance))
	if err != nil {
		return 0
	}

	return n
}

// SetMaxPartitionsPerInstance sets the per-node replica cap.
func (is *IdealState) SetMaxPartitionsPerInstance(n int) {
	is.Record.SetSimpleField(fieldMaxPartitionsPerInstance, strconv.Itoa(n))
}

// RebalanceMode returns the resource's rebalance mode ("" if unset).
func (is *IdealState) RebalanceMode() RebalanceMode {
	return RebalanceMode(is.Record.GetSimpleField(fieldRebalanceMode))
}

// SetRebalanceMode sets the rebalance mode.
func (is *IdealState) SetRebalanceMode(mode RebalanceMode) {
	is.Record.SetSimpleField(fieldRebalanceMode, string(mode))
}
