package store

import (
	"encoding/json"
	"fmt"

	appdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/application"
	employeedm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/employee"
	fleetdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/fleet"
	leaderdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/leader"
	newsdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/news"
	statsdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/stats"
	userdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/user"
	violatordm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/violator"
)

// SchemaVersion is written into every snapshot.
const SchemaVersion = 1

// State is the root portal object. It is persisted as one JSON document.
type State struct {
	SchemaVersion  int                        `json:"schemaVersion"`
	Sequence       int64                      `json:"sequence"`
	Users          []userdm.User              `json:"users"`
	News           []newsdm.Article           `json:"news"`
	Applications   []appdm.Application        `json:"applications"`
	Database       []violatordm.Record        `json:"database"`
	Employees      []employeedm.Employee      `json:"employees"`
	FiredEmployees []employeedm.FiredEmployee `json:"firedEmployees"`
	Leaders        []leaderdm.Leader          `json:"leaders"`
	Fleet          []fleetdm.Vehicle          `json:"fleet"`
	Stats          statsdm.Stats              `json:"stats"`
}

// Empty returns a state with every collection present and empty.
func Empty() *State {
	st := &State{}
	st.normalize()
	return st
}

// NextID issues the next record id.
func (st *State) NextID() int64 {
	st.Sequence++
	return st.Sequence
}

// Encode serializes the state after normalizing it.
func (st *State) Encode() ([]byte, error) {
	st.normalize()
	payload, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return payload, nil
}

// Decode parses a snapshot payload. Snapshots written before versioning are
// read as version 1.
func Decode(payload []byte) (*State, error) {
	st := &State{}
	if err := json.Unmarshal(payload, st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if st.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("decode state: unsupported schema version %d", st.SchemaVersion)
	}
	st.normalize()
	return st, nil
}

// inProgressStatus is the application status counted by ComputeStats.
const inProgressStatus = "в работе"

// ComputeStats derives the dashboard counters from the collections.
func (st *State) ComputeStats() statsdm.Stats {
	stats := statsdm.Stats{
		Employees:    len(st.Employees),
		Applications: len(st.Applications),
		Database:     len(st.Database),
	}
	for _, a := range st.Applications {
		if a.Status == inProgressStatus {
			stats.InProgress++
		}
	}
	return stats
}

// Clone returns a deep copy.
func (st *State) Clone() (*State, error) {
	payload, err := st.Encode()
	if err != nil {
		return nil, err
	}
	return Decode(payload)
}

func (st *State) normalize() {
	if st.SchemaVersion == 0 {
		st.SchemaVersion = SchemaVersion
	}
	if st.Users == nil {
		st.Users = []userdm.User{}
	}
	if st.News == nil {
		st.News = []newsdm.Article{}
	}
	if st.Applications == nil {
		st.Applications = []appdm.Application{}
	}
	if st.Database == nil {
		st.Database = []violatordm.Record{}
	}
	if st.Employees == nil {
		st.Employees = []employeedm.Employee{}
	}
	if st.FiredEmployees == nil {
		st.FiredEmployees = []employeedm.FiredEmployee{}
	}
	if st.Leaders == nil {
		st.Leaders = []leaderdm.Leader{}
	}
	if st.Fleet == nil {
		st.Fleet = []fleetdm.Vehicle{}
	}
	for i := range st.Applications {
		if st.Applications[i].Responses == nil {
			st.Applications[i].Responses = []appdm.Response{}
		}
	}
	if highest := st.maxID(); st.Sequence < highest {
		st.Sequence = highest
	}
}

func (st *State) maxID() int64 {
	var highest int64
	bump := func(id int64) {
		if id > highest {
			highest = id
		}
	}
	for _, u := range st.Users {
		bump(u.ID)
	}
	for _, n := range st.News {
		bump(n.ID)
	}
	for _, a := range st.Applications {
		bump(a.ID)
		for _, r := range a.Responses {
			bump(r.ID)
		}
	}
	for _, r := range st.Database {
		bump(r.ID)
	}
	for _, e := range st.Employees {
		bump(e.ID)
	}
	for _, e := range st.FiredEmployees {
		bump(e.ID)
	}
	for _, l := range st.Leaders {
		bump(l.ID)
	}
	for _, v := range st.Fleet {
		bump(v.ID)
	}
	return highest
}
