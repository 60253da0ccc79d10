// Package media models the two external-collaborator shapes a Call owns
// but never derives itself (§1: "RTP stream detection and metrics" is out
// of scope): an SDP-negotiated media stream descriptor, and a captured RTP
// packet. Detection, negotiation and codec/jitter metrics are all the
// responsibility of an external RTP engine; this package only carries the
// data that engine hands back so the core can store and cross-reference it
// (§4.1 add_stream/add_rtp_packet, msg_with_media).
package media

import (
	"time"

	"github.com/pion/sdp/v3"

	"github.com/sipwatch/dialogtrack/sipmsg"
)

// Descriptor is one SDP-negotiated media stream, as reconstructed by an
// external SDP parser/RTP correlator. It wraps pion/sdp's MediaDescription
// (the actual m=/a= line decode) with the two addresses the call-aggregate
// layer cross-references: the address each side offered in its SDP body.
type Descriptor struct {
	// Src and Dst are the endpoints the two call legs offered for this
	// stream. Call.MsgWithMedia (§4.1) does not read them; it matches
	// against each message's own Medias list.
	Src, Dst sipmsg.Addr

	// SDP is the raw decoded media line, kept for anything the embedding
	// process wants beyond the two addresses above (codec list, direction
	// attributes, ptime, ...). May be nil if the caller doesn't have a
	// parsed SDP body handy (e.g. a stream inferred purely from observed
	// RTP rather than from signaling).
	SDP *sdp.MediaDescription

	FirstSeen time.Time
	LastSeen  time.Time
}

// Addresses returns the two addresses this descriptor carries, Src first
// and Dst second.
func (d *Descriptor) Addresses() [2]sipmsg.Addr {
	return [2]sipmsg.Addr{d.Src, d.Dst}
}
