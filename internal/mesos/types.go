package mesos

import (
	"bytes"
	"encoding/json"
)

// Slave is one worker node record from the master's state summary.
//
// Only the fields the CLI reads are typed. The full record is kept in Raw
// so JSON output reproduces the cluster's payload without dropping fields.
type Slave struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	PID      string `json:"pid"`
	Active   bool   `json:"active"`

	Raw map[string]any `json:"-"`
}

// UnmarshalJSON decodes the typed fields and keeps the whole object in Raw.
func (s *Slave) UnmarshalJSON(b []byte) error {
	type plain Slave
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	// UseNumber keeps large integers exact when Raw is written back out.
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*s = Slave(p)
	s.Raw = raw
	return nil
}

// MarshalJSON emits Raw when present, otherwise the typed fields.
func (s Slave) MarshalJSON() ([]byte, error) {
	if s.Raw != nil {
		return json.Marshal(s.Raw)
	}
	type plain Slave
	return json.Marshal(plain(s))
}

// Host returns the host component of the slave's pid.
func (s Slave) Host() (string, error) {
	pid, err := ParsePID(s.PID)
	if err != nil {
		return "", err
	}
	return pid.Host, nil
}

// StateSummary is the subset of /mesos/master/state-summary the CLI uses.
type StateSummary struct {
	Hostname string  `json:"hostname"`
	Cluster  string  `json:"cluster"`
	Slaves   []Slave `json:"slaves"`
}

// Metadata is the cluster's /metadata document.
type Metadata struct {
	PublicIPv4 string `json:"PUBLIC_IPV4"`
	ClusterID  string `json:"CLUSTER_ID"`
}
