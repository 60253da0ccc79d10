// Package calltr is the core of a passive SIP dialog tracker: given a
// stream of already-parsed SIP messages grouped by Call-ID, it maintains an
// ordered transcript per call, derives a call-lifecycle state from that
// transcript via a state machine keyed on CSeq, and answers attribute
// queries (state, duration, who disconnected and with what status)
// consistently even from a partial transcript.
//
// The package does not capture packets, parse SIP/SDP, detect RTP streams,
// or own a call registry -- those are external collaborators. It consumes
// sipmsg.Message and media.Descriptor/media.Packet values handed to it by
// whatever owns those concerns.
package calltr

import (
	"time"

	"github.com/sipwatch/dialogtrack/media"
	"github.com/sipwatch/dialogtrack/sipmsg"
)

// Message wraps the external, read-only sipmsg.Message with the fields
// the core itself is responsible for filling in at insertion time: the
// owning-call back-reference and position (invariant I1), and the
// retransmission back-reference (§4.2). See sipmsg.Message's doc comment
// for why the split is across two packages.
type Message struct {
	sipmsg.Message

	Call  *Call
	Index int

	// Retrans is set by the retransmission detector (§4.2) to the earlier
	// message this one duplicates, or nil.
	Retrans *Message
}

// IsRetrans reports whether m was flagged as a retransmission.
func (m *Message) IsRetrans() bool {
	return m != nil && m.Retrans != nil
}

// Config configures a Call at creation time (§4.1 create(), §9's design
// note preferring an explicit constructor parameter over a global setting).
type Config struct {
	// CaptureRTP mirrors the environment's "capture RTP" toggle (§6). When
	// false, RTPPackets is never populated and AddRTPPacket is a no-op,
	// matching the original's "RTP packet list is initialized only when
	// the environment toggle is enabled; otherwise absent."
	CaptureRTP bool

	// Allocator is the injectable allocator new Calls and Messages are
	// obtained through (§5). A nil Allocator defaults to DefaultAllocator.
	Allocator Allocator

	// ResponseCatalog is the canonical "<code> <reason>" lookup consumed
	// by the state engine and attribute projector (§6). A nil catalog
	// falls back to sipmsg.DefaultResponseCatalog{}.
	ResponseCatalog sipmsg.ResponseCatalog
}

func (c Config) allocator() Allocator {
	if c.Allocator != nil {
		return c.Allocator
	}
	return DefaultAllocator
}

func (c Config) catalog() sipmsg.ResponseCatalog {
	if c.ResponseCatalog != nil {
		return c.ResponseCatalog
	}
	return sipmsg.DefaultResponseCatalog{}
}

// Call is the central entity (§3): an ordered transcript of messages, any
// associated media, cross-referenced related calls, and a derived state
// with attribution.
type Call struct {
	CallID  string
	XCallID string
	Index   int // assigned by the external registry, §6

	Messages     []*Message
	MediaStreams []*media.Descriptor
	RTPPackets   []*media.Packet // nil unless Config.CaptureRTP was set
	XCalls       []*Call         // weak references, never owned (I6)

	State      CallState
	InviteCSeq uint32 // §3 invariant I3

	ConvStartMsg *Message // §3 I2: element of Messages when set
	ConvEndMsg   *Message

	DisconnectBy   string // "IP:port", first-writer-wins (§4.3)
	DisconnectCode string

	ReasonTxt string
	Warning   int

	Filtered FilterState
	Changed  bool

	cfg Config
}

// New allocates a Call per §4.1 create(): empty sequences, State = CallUnset,
// Filtered = FilterUnevaluated, Changed = false. The RTP packet list is left
// nil unless cfg.CaptureRTP is set.
//
// New never panics (§7 "a passive observer must never crash"); if the
// configured allocator is exhausted it returns (nil, false).
func New(callID, xCallID string, cfg Config) (*Call, bool) {
	c := cfg.allocator().NewCall()
	if c == nil {
		return nil, false
	}
	c.CallID = callID
	c.XCallID = xCallID
	c.Filtered = FilterUnevaluated
	c.cfg = cfg
	if cfg.CaptureRTP {
		c.RTPPackets = make([]*media.Packet, 0, 8)
	}
	return c, true
}

// Release returns c to its allocator. Callers must not use c afterwards.
// Per I6/§5, Release never follows XCalls references.
func (c *Call) Release() {
	c.cfg.allocator().FreeCall(c)
}

// AddMessage appends msg to the call's transcript (§4.1 add_message). It
// sets msg.Call and msg.Index, and marks the call Changed. It does NOT run
// the state engine or the retransmission detector -- callers compose
// AddMessage, then UpdateState, then CheckRetrans, per §4.1's explicit
// ordering note.
//
// A nil msg is a malformed-input no-op (§7): the call is left unmodified.
func (c *Call) AddMessage(msg *Message) {
	if c == nil || msg == nil {
		return
	}
	msg.Call = c
	msg.Index = len(c.Messages)
	c.Messages = append(c.Messages, msg)
	c.Changed = true
}

// AddStream appends a media stream descriptor (§4.1 add_stream).
func (c *Call) AddStream(s *media.Descriptor) {
	if c == nil || s == nil {
		return
	}
	c.MediaStreams = append(c.MediaStreams, s)
	c.Changed = true
}

// AddRTPPacket appends a captured RTP packet (§4.1 add_rtp_packet). A no-op
// if RTP capture wasn't enabled at creation time.
func (c *Call) AddRTPPacket(p *media.Packet) {
	if c == nil || p == nil || c.RTPPackets == nil {
		return
	}
	c.RTPPackets = append(c.RTPPackets, p)
	c.Changed = true
}

// AddXCall appends a weak, non-owning reference to a related call (§4.1
// add_xcall). Silently ignores a nil argument, per spec.
func (c *Call) AddXCall(other *Call) {
	if c == nil || other == nil {
		return
	}
	c.XCalls = append(c.XCalls, other)
	c.Changed = true
}

// MsgCount returns the number of messages recorded so far.
func (c *Call) MsgCount() int {
	if c == nil {
		return 0
	}
	return len(c.Messages)
}

// HasChanged reports and does NOT clear the Changed flag -- clearing is the
// external observer's responsibility (§3 "cleared externally after
// observation").
func (c *Call) HasChanged() bool {
	return c != nil && c.Changed
}

// IsActive reports whether the call is in a non-terminal state.
func (c *Call) IsActive() bool {
	if c == nil {
		return false
	}
	return c.State == CallSetup || c.State == CallInCall
}

// IsInvite reports whether the very first message ever recorded for this
// call was an INVITE request (§4.1 is_invite). Per original_source/
// sip_call.c's call_is_invite, this classification is fixed by the first
// message only -- it does not change if e.g. all messages are later
// evicted except retransmissions of a later INVITE.
func (c *Call) IsInvite() bool {
	if c == nil || len(c.Messages) == 0 {
		return false
	}
	first := c.Messages[0]
	return first.ReqResp.Is(sipmsg.MInvite)
}

// MsgWithMedia returns the first message any of whose media descriptors has
// the given address, or nil (§4.1 msg_with_media). Used by RTP stream
// correlation in the embedding process.
func (c *Call) MsgWithMedia(addr sipmsg.Addr) *Message {
	if c == nil {
		return nil
	}
	for _, m := range c.Messages {
		for _, md := range m.Medias {
			if md.Addr.Equal(addr) {
				return m
			}
		}
	}
	return nil
}

// firstMsg and lastMsg are small helpers used by the attribute projector
// (§4.4 TOTAL_DURATION, TRANSPORT).
func (c *Call) firstMsg() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[0]
}

func (c *Call) lastMsg() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// msgTime returns m's timestamp, or the zero time for a nil message -- used
// so duration formatting can treat a missing endpoint uniformly.
func msgTime(m *Message) time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.Timestamp
}
