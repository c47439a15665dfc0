// Package port resolves a service's bind port, falling back to an
// OS-assigned free one when the configured port is already taken — useful
// for role "all", which binds every service's Host in one process and
// would otherwise fail outright on a single stale port. Trimmed from the
// teacher's environment-aware PortManager down to the local-development
// auto-discovery path: examforge has no Kubernetes/Docker deployment-mode
// switch (spec.md names no such config surface), so that branching is
// dropped rather than carried over unused.
package port

import (
	"fmt"
	"net"
)

// Resolve checks whether host:configuredPort is free. If it is, it
// returns configuredPort unchanged. If not, it asks the OS for a free
// port on host and returns that instead, along with ok=false so the
// caller can log the fallback.
func Resolve(host string, configuredPort int) (resolved int, ok bool) {
	if isAvailable(host, configuredPort) {
		return configuredPort, true
	}
	return findAnyAvailable(host), false
}

func isAvailable(host string, p int) bool {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, p))
	if err != nil {
		return false
	}
	defer l.Close()
	return true
}

func findAnyAvailable(host string) int {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:0", host))
	if err != nil {
		return 0
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
