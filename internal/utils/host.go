// Package utils holds small process-level helpers.
package utils

import (
	"os"
	"sync"
)

var (
	hostName string
	hostOnce sync.Once
)

// GetHost returns the machine hostname, resolved once per process. It names
// the emitter in logs and the resolving replica in gRPC answers.
func GetHost() string {
	hostOnce.Do(func() {
		hostName = resolveHost(os.Hostname)
	})
	return hostName
}

func resolveHost(lookup func() (string, error)) string {
	h, err := lookup()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}
