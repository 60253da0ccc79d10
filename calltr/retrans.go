package calltr

import "github.com/sipwatch/dialogtrack/bytescase"

// CheckRetrans looks backward from msg (which must already be present in
// c.Messages, i.e. called after AddMessage) for the nearest earlier message
// with the same (src, dst) pair and byte-identical payload under
// case-insensitive comparison, and records it on msg.Retrans (§4.2).
//
// Comparison stops at the first candidate with a matching address pair,
// matching the original's scan: an intervening message between two
// identical retransmissions (same addresses, different payload) prevents
// a match against the one before it, because the scan only looks at
// address pairs and breaks on the first one found -- payload equality
// is then checked against exactly that candidate, not against every
// same-address predecessor.
func (c *Call) CheckRetrans(msg *Message) {
	if c == nil || msg == nil {
		return
	}
	idx := msg.Index
	if idx < 0 || idx >= len(c.Messages) || c.Messages[idx] != msg {
		return
	}
	msgHash := caseFoldedHash(msg.Payload)
	for i := idx - 1; i >= 0; i-- {
		prev := c.Messages[i]
		if prev.Src.Equal(msg.Src) && prev.Dst.Equal(msg.Dst) {
			if caseFoldedHash(prev.Payload) == msgHash && bytescase.CmpEq(prev.Payload, msg.Payload) {
				msg.Retrans = prev
			}
			return
		}
	}
}
