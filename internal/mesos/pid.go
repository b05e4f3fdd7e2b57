package mesos

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// PID is a parsed libprocess endpoint of the form
// "<process>(<instance>)@<host>:<port>", e.g. "slave(1)@10.0.0.5:5051".
type PID struct {
	Process string
	Host    string
	Port    int
}

// ParsePID splits a libprocess pid into its process id, host and port.
// IPv6 hosts must be bracketed ("slave(1)@[fd00::1]:5051").
func ParsePID(pid string) (PID, error) {
	process, endpoint, ok := strings.Cut(pid, "@")
	if !ok || process == "" {
		return PID{}, fmt.Errorf("invalid pid %q: expected <process>@<host>:<port>", pid)
	}

	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return PID{}, fmt.Errorf("invalid pid %q: %w", pid, err)
	}
	if host == "" {
		return PID{}, fmt.Errorf("invalid pid %q: empty host", pid)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return PID{}, fmt.Errorf("invalid pid %q: bad port %q", pid, portStr)
	}

	return PID{Process: process, Host: host, Port: port}, nil
}
