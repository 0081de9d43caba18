package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Count specifiers understood by state-model definitions, besides plain
// positive integers.
const (
	// CountAllLiveNodes ("N") resolves to the current live-node count.
	CountAllLiveNodes = "N"

	// CountRemainder ("R") resolves to the total replica count minus the sum
	// of all numeric counts. At most one state may use it.
	CountRemainder = "R"
)

// StateSpec declares one state of a state model: its name and the number of
// replicas required in that state.
//
// Count is either a positive integer literal, CountAllLiveNodes, or
// CountRemainder.
type StateSpec struct {
	Name  string `yaml:"name" json:"name"`
	Count string `yaml:"count" json:"count"`
}

// StateModelDefinition is a named table of replica states in priority order
// with per-state required counts.
//
// Definitions are static configuration: they can be declared in YAML and
// loaded with ParseStateModel, or built in code with the prebuilt model
// constructors.
type StateModelDefinition struct {
	// Name identifies the state model (e.g. "MasterSlave").
	Name string `yaml:"name" json:"name"`

	// InitialState is the state a replica starts in before any transition.
	InitialState string `yaml:"initialState" json:"initialState"`

	// States lists the model's states in priority order, highest first.
	States []StateSpec `yaml:"states" json:"states"`
}

// StatesPriorityList returns the state names in priority order.
func (d *StateModelDefinition) StatesPriorityList() []string {
	names := make([]string, len(d.States))
	for i, s := range d.States {
		names[i] = s.Name
	}

	return names
}

// NumInstancesPerState returns the count specifier for the given state, or ""
// if the state is not part of the model.
func (d *StateModelDefinition) NumInstancesPerState(state string) string {
	for _, s := range d.States {
		if s.Name == state {
			return s.Count
		}
	}

	return ""
}

// ParseStateModel decodes a YAML state-model definition.
//
// Parameters:
//   - data: YAML document, e.g.
//
//     name: MasterSlave
//     initialState: OFFLINE
//     states:
//     - name: MASTER
//       count: "1"
//     - name: SLAVE
//       count: "R"
//
// Returns:
//   - *StateModelDefinition: Decoded definition
//   - error: YAML decode error, or a validation error for a nameless model
func ParseStateModel(data []byte) (*StateModelDefinition, error) {
	var def StateModelDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to decode state model: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("state model has no name")
	}

	return &def, nil
}

// MasterSlaveModel returns the canonical master/slave model: one MASTER, the
// remaining replicas SLAVE.
func MasterSlaveModel() *StateModelDefinition {
	return &StateModelDefinition{
		Name:         "MasterSlave",
		InitialState: "OFFLINE",
		States: []StateSpec{
			{Name: "MASTER", Count: "1"},
			{Name: "SLAVE", Count: CountRemainder},
		},
	}
}

// OnlineOfflineModel returns the online/offline model: every replica ONLINE.
func OnlineOfflineModel() *StateModelDefinition {
	return &StateModelDefinition{
		Name:         "OnlineOffline",
		InitialState: "OFFLINE",
		States: []StateSpec{
			{Name: "ONLINE", Count: CountRemainder},
		},
	}
}

// LeaderStandbyModel returns the leader/standby model: one LEADER, a STANDBY
// on every live node.
func LeaderStandbyModel() *StateModelDefinition {
	return &StateModelDefinition{
		Name:         "LeaderStandby",
		InitialState: "OFFLINE",
		States: []StateSpec{
			{Name: "LEADER", Count: "1"},
			{Name: "STANDBY", Count: CountAllLiveNodes},
		},
	}
}
