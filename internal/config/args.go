package config

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"gitlab.com/jobfeed.net/internal/static/errs"
)

// ParsePort parses a port argument. Zero and unparsable values are rejected.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q: %w", s, errs.ErrResourceInit)
	}
	return port, nil
}

// ResolveHost turns a host name into a dotted IPv4 address.
func ResolveHost(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
		return ip.String(), nil
	}
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return "", fmt.Errorf("couldn't assign IP-address to host name %s: %w: %w", host, errs.ErrResourceInit, err)
	}
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return ip.String(), nil
		}
	}
	return "", fmt.Errorf("no IPv4 address for host name %s: %w", host, errs.ErrResourceInit)
}
