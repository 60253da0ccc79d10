// Package sipmsg models the external, read-only message view the calltr
// core consumes: an already-parsed SIP message plus its attached media
// descriptors. Parsing itself (headers, SDP) is out of scope; this package
// only defines the shape a parser hands over.
package sipmsg

import (
	"fmt"
	"net"
)

// Addr is a structural (IP, port) pair. Two Addrs are equal iff their IPs
// and ports are equal; the IP comparison is address-family agnostic
// (net.IP.Equal handles v4-in-v6 forms).
type Addr struct {
	IP   net.IP
	Port uint16
}

// Equal reports whether a and b name the same endpoint.
func (a Addr) Equal(b Addr) bool {
	return a.Port == b.Port && a.IP.Equal(b.IP)
}

// String formats the endpoint as "IP:port", the canonical form used
// throughout the attribute projector (§6 of the spec).
func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.IP.String(), a.Port)
}

// Zero reports whether a is the unset address.
func (a Addr) Zero() bool {
	return a.IP == nil && a.Port == 0
}
