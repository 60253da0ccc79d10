package calltr

import "github.com/sipwatch/dialogtrack/sipmsg"

// UpdateState runs the call-lifecycle state machine for one newly-added
// message (§4.3). It must be called after AddMessage, with the same msg,
// and only for calls where IsInvite() is true -- a precondition the
// original encodes as an early return rather than a precondition check, a
// choice preserved here (calling UpdateState on a non-INVITE call is a
// harmless no-op, not an error; §7).
//
// Attribution fields (DisconnectBy, DisconnectCode) follow first-writer-wins
// except the two refinements the original makes explicit: a CANCELLED call
// reaching a matching 487 upgrades its generic "CANCELLED" code to the
// precise response string, and a response matching a recorded BYE's CSeq
// upgrades the placeholder "BYE" code to the response's own string. The BYE
// refinement runs in the COMPLETED arm (the BYE itself already completed
// the call) as well as in the IN_CALL arm; neither refinement is
// generalized into the write-once rule.
func (c *Call) UpdateState(msg *Message) {
	if c == nil || msg == nil || !c.IsInvite() {
		return
	}

	if DBGon() {
		DBG("enter UpdateState: %s reqresp=%s cseq=%d\n", c.debugAttrString(), msg.ReqResp, msg.CSeq)
	}

	rr := msg.ReqResp

	// BYE is checked unconditionally, before the state switch, and always
	// wins: a BYE always completes the call regardless of current state.
	if rr.Is(sipmsg.MBye) {
		c.State = CallCompleted
		c.ConvEndMsg = msg
		c.setDisconnectBy(msg.Src)
		c.setDisconnectCodeString("BYE")
		return
	}

	if c.State == CallUnset {
		if rr.Is(sipmsg.MInvite) {
			c.InviteCSeq = msg.CSeq
			c.State = CallSetup
		}
		return
	}

	switch c.State {
	case CallSetup:
		c.updateFromCallSetup(msg)
	case CallDiverted:
		c.updateFromDiverted(msg)
	case CallCancelled:
		if rr.IsResponse() && rr.Code() == 487 {
			// Refine the placeholder "CANCELLED" code left by the CANCEL
			// itself into the precise response string, once.
			if c.DisconnectCode == "CANCELLED" {
				c.DisconnectCode = c.responseString(msg)
			}
		}
	case CallInCall:
		c.updateFromInCall(msg)
	case CallCompleted:
		// The BYE itself already flipped state to COMPLETED (see the
		// unconditional check above); a response to that BYE arrives on a
		// later message with the call already terminal, so the
		// placeholder-code refinement below runs against COMPLETED rather
		// than against IN_CALL (§8's "BYE response received" boundary
		// behavior is expressed in terms of the eventual disconnect code,
		// not of a state that's already moved on by the time it arrives).
		c.refineByeDisconnectCode(msg)
	default:
		if rr.Is(sipmsg.MInvite) {
			c.InviteCSeq = msg.CSeq
			c.State = CallSetup
		}
	}
}

func (c *Call) updateFromCallSetup(msg *Message) {
	rr := msg.ReqResp

	switch {
	case rr.Is(sipmsg.MAck):
		if msg.CSeq != c.InviteCSeq {
			return
		}
		c.ackAdvance(msg)

	case rr.Is(sipmsg.MCancel):
		c.State = CallCancelled
		c.setDisconnectBy(msg.Src)
		c.setDisconnectCodeString("CANCELLED")

	case rr.IsResponse() && rr.CodeIn(480, 486, 600):
		c.State = CallBusy
		c.setDisconnectCode(msg)
		c.setDisconnectBy(msg.Src)

	case rr.IsResponse() && rr.Code() == 603:
		c.State = CallRejected
		c.setDisconnectCode(msg)
		c.setDisconnectBy(msg.Src)

	case rr.IsResponse() && rr.Code() == 200:
		if msg.CSeq == c.InviteCSeq {
			c.State = CallInCall
			return
		}
		// CSeq mismatch: accept only if some earlier INVITE in the
		// transcript actually carried this CSeq (post-auth re-INVITE).
		for _, m := range c.Messages {
			if m.ReqResp.Is(sipmsg.MInvite) && m.CSeq == msg.CSeq {
				c.State = CallInCall
				c.InviteCSeq = msg.CSeq
				return
			}
		}

	case rr.IsResponse() && rr.Code() == 487 && msg.CSeq == c.InviteCSeq:
		c.State = CallCancelled
		c.setDisconnectBy(msg.Src)
		c.setDisconnectCode(msg)

	case rr.IsResponse() && rr.Code() > 400 && rr.Code() != 401 && rr.Code() != 407 && msg.CSeq == c.InviteCSeq:
		c.State = CallRejected
		if c.DisconnectCode == "" {
			c.DisconnectCode = c.responseString(msg)
			// Rejections during setup attribute to the destination of the
			// response (the endpoint that sent the request), not its
			// source -- preserved exactly as the original computes it even
			// though it reads as backwards next to every other branch
			// here; see DESIGN.md's note on this open question.
			c.setDisconnectBy(msg.Dst)
		}

	case rr.IsResponse() && rr.CodeIn(181, 301, 302):
		c.State = CallDiverted
		// No attribution stored for a provisional/redirect diversion --
		// the call waits for the eventual final response.

	case rr.IsResponse() && rr.CodeIn(480, 404, 503, 488, 603):
		// The {DIVERTED, CALL_SETUP} shared row (§4.3): reached whenever a
		// stale-CSeq final error arrives (e.g. a 404 answering a re-INVITE
		// sent after an auth challenge, while InviteCSeq still names the
		// original transaction) and none of the CSeq-gated cases above
		// matched. 480/603 are normally already caught earlier in this
		// switch; this arm mainly exists to classify 404/488/503 the same
		// way updateFromDiverted does for an already-diverted call.
		if rr.CodeIn(480, 503) {
			c.State = CallBusy
		} else {
			c.State = CallRejected
		}
		c.setDisconnectCode(msg)
		c.setDisconnectBy(msg.Src)
	}
}

// updateFromDiverted handles the messages that can still arrive once a
// call has been redirected (§4.3's diversion-then-error row): a following
// error response is recorded with source attribution and DIVERTED is kept
// as the terminal state rather than being overwritten by the more generic
// busy/rejected classification an identical code would produce straight
// out of CALL_SETUP.
func (c *Call) updateFromDiverted(msg *Message) {
	rr := msg.ReqResp
	if rr.IsResponse() && rr.CodeIn(480, 404, 503, 488, 603) {
		c.setDisconnectCode(msg)
		c.setDisconnectBy(msg.Src)
	}
}

// ackAdvance resolves a matching ACK against the most recent response
// carrying the same CSeq, falling back to a scan for any 200 when no exact
// match is found (the original's "timing issue" fallback).
func (c *Call) ackAdvance(ack *Message) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		if m == ack || !m.ReqResp.IsResponse() || m.CSeq != ack.CSeq {
			continue
		}
		switch {
		case m.ReqResp.Is2xx():
			c.State = CallInCall
			c.ConvStartMsg = ack
		case m.ReqResp.CodeIn(401, 407):
			// Auth challenge: remain in CALL_SETUP, waiting on a new
			// INVITE carrying credentials.
		}
		return
	}
	for _, m := range c.Messages {
		if m.ReqResp.IsResponse() && m.ReqResp.Code() == 200 {
			c.State = CallInCall
			c.ConvStartMsg = ack
			return
		}
	}
}

func (c *Call) updateFromInCall(msg *Message) {
	rr := msg.ReqResp

	if rr.IsResponse() && rr.Code() == 603 {
		c.State = CallRejected
		c.setDisconnectCode(msg)
		c.setDisconnectBy(msg.Src)
		return
	}

	c.refineByeDisconnectCode(msg)
}

// refineByeDisconnectCode upgrades the "BYE" placeholder code to the
// response's own canonical string once the response matching that BYE's
// CSeq arrives, and records who sent it if nothing else has yet (§8's
// "BYE response received" boundary behavior). It leaves state at
// COMPLETED -- the BYE that preceded this response already put it there.
func (c *Call) refineByeDisconnectCode(msg *Message) {
	rr := msg.ReqResp
	if !rr.IsResponse() || msg.CSeq == 0 {
		return
	}
	for _, m := range c.Messages {
		if m.ReqResp.Is(sipmsg.MBye) && m.CSeq == msg.CSeq {
			if c.DisconnectCode == "BYE" {
				c.DisconnectCode = ""
			}
			c.setDisconnectCode(msg)
			c.setDisconnectBy(msg.Src)
			return
		}
	}
}

func (c *Call) setDisconnectBy(addr sipmsg.Addr) {
	if c.DisconnectBy == "" {
		c.DisconnectBy = addr.String()
	}
}

func (c *Call) setDisconnectCode(msg *Message) {
	if c.DisconnectCode == "" {
		c.DisconnectCode = c.responseString(msg)
	}
}

func (c *Call) setDisconnectCodeString(s string) {
	if c.DisconnectCode == "" {
		c.DisconnectCode = s
	}
}

// responseString renders a response message's canonical "<code> <reason>"
// string via the configured catalog, falling back to the decimal code.
func (c *Call) responseString(msg *Message) string {
	return sipmsg.CanonicalString(c.cfg.catalog(), msg.ReqResp.Code())
}
