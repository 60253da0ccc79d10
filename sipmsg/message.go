package sipmsg

import "time"

// MediaRef is the minimal shape the core needs out of an attached media
// descriptor: the address the rest of the session is told to send/receive
// on. SDP parsing and the richer media.Descriptor type live in package
// media; the core only ever compares addresses (§4.1 msg_with_media), so
// the Message view exposes just that.
type MediaRef struct {
	Addr Addr
}

// Message is the read-only projection of a parsed SIP message the core
// consumes (§3 "Message (external, read-only to the core)"): it is produced
// and owned entirely by an external parser, and the core never mutates any
// field of it.
//
// The three fields §3 lists alongside it but that the core itself fills in
// at insertion time -- the owning-call back-reference, the position in the
// call, and the retransmission back-reference (invariant I1, §4.1, §4.2) --
// are deliberately NOT here: they live on calltr.Message, which wraps one
// of these by value and adds exactly those three core-owned fields. That split keeps this package a pure leaf (§2's
// "Message view" component) with no dependency on the Call aggregate.
type Message struct {
	Src, Dst  Addr
	ReqResp   ReqResp
	CSeq      uint32
	Payload   []byte
	Timestamp time.Time
	Medias    []MediaRef

	// PacketTransport names the underlying transport (e.g. "UDP", "TCP",
	// "TLS", "WS") as seen by the capture layer; used only by the
	// TRANSPORT attribute (§4.4), which reads it off the first message.
	PacketTransport string

	// ReasonTxt and Warning surface the parser's decoding of the SIP
	// Reason/Warning headers, per §3's "optional fields populated by the
	// parser". Warning follows the original source's numeric encoding
	// (see SPEC_FULL.md, "Supplemented features").
	ReasonTxt string
	Warning   int
}
