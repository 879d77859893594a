// Package netx contains networking helpers shared by the client: transfer
// of staged files over presigned URLs and classification of transport-level
// failures.
package netx

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Substrings that mark an error message as connectivity-related. Matched
// case-insensitively, after the typed checks below have had their chance.
var connectivitySubstrings = []string{
	"network",
	"fetch",
	"offline",
	"connection",
	"timeout",
	"unreachable",
	"unavailable",
	"no such host",
	"broken pipe",
	"econnrefused",
	"econnreset",
	"etimedout",
	"enotfound",
}

// IsConnectivityError reports whether err looks like a transport-level
// failure (server unreachable, DNS failure, timed-out dial) rather than a
// definitive rejection by the server. Callers use it to decide between
// "leave the record queued and retry later" and "surface the failure".
//
// A nil error is never a connectivity error. Typed checks run first: DNS
// errors, net.OpError, timeouts and the usual socket errnos. Anything not
// recognized by type falls back to a case-insensitive substring scan of the
// message, so that wrapped or third-party errors with recognizable text are
// still caught.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.EPIPE,
		syscall.EHOSTUNREACH,
		syscall.ENETUNREACH,
		syscall.ETIMEDOUT,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, s := range connectivitySubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}

	return false
}
