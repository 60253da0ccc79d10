package media

import (
	"time"

	"github.com/pion/rtp"

	"github.com/sipwatch/dialogtrack/sipmsg"
)

// Packet is one captured RTP packet, attached to a Call's rtp_packets list
// only when RTP capture is enabled at call creation (§4.1 create(), §6
// "capture RTP" setting). The actual header/payload decode is delegated to
// pion/rtp; this type adds only what the call aggregate needs to know
// without inspecting RTP internals: who sent it, and when it was captured.
type Packet struct {
	Src, Dst sipmsg.Addr
	Captured time.Time
	RTP      rtp.Packet
}

// SSRC is a convenience accessor onto the decoded RTP header.
func (p *Packet) SSRC() uint32 {
	return p.RTP.SSRC
}

// SequenceNumber is a convenience accessor onto the decoded RTP header.
func (p *Packet) SequenceNumber() uint16 {
	return p.RTP.SequenceNumber
}
