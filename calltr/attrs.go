package calltr

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sipwatch/dialogtrack/sipmsg"
)

// AttributeID names one queryable call attribute (§4.4).
type AttributeID int

const (
	AttrCallIndex AttributeID = iota
	AttrCallID
	AttrXCallID
	AttrMsgCount
	AttrCallState
	AttrTransport
	AttrConvDuration
	AttrTotalDuration
	AttrReasonTxt
	AttrWarning
	AttrDisconnectBy
	AttrDisconnectCode
)

// Attribute returns the string projection of id for c, and whether it was
// present (§4.4's "(call, attribute_id) -> optional string"). An id this
// package doesn't recognize reports absent; it is not forwarded to the
// messages, which have no generic attribute table of their own.
func (c *Call) Attribute(id AttributeID) (string, bool) {
	if c == nil {
		return "", false
	}
	switch id {
	case AttrCallIndex:
		return strconv.Itoa(c.Index), true
	case AttrCallID:
		return nonEmpty(c.CallID)
	case AttrXCallID:
		return nonEmpty(c.XCallID)
	case AttrMsgCount:
		return strconv.Itoa(c.MsgCount()), true
	case AttrCallState:
		return nonEmpty(c.State.String())
	case AttrTransport:
		if f := c.firstMsg(); f != nil {
			return nonEmpty(f.PacketTransport)
		}
		return "", false
	case AttrConvDuration:
		if c.ConvStartMsg == nil || c.ConvEndMsg == nil {
			return "-", true
		}
		return formatDuration(c.ConvStartMsg, c.ConvEndMsg)
	case AttrTotalDuration:
		return formatDuration(c.firstMsg(), c.lastMsg())
	case AttrReasonTxt:
		return nonEmpty(c.ReasonTxt)
	case AttrWarning:
		if c.Warning == 0 {
			return "", false
		}
		return strconv.Itoa(c.Warning), true
	case AttrDisconnectBy:
		return c.disconnectBy()
	case AttrDisconnectCode:
		return c.disconnectCode()
	default:
		return "", false
	}
}

func nonEmpty(s string) (string, bool) {
	return s, s != ""
}

// formatDuration renders the elapsed time between start and end as
// "HH:MM:SS" (§4.4 CONVERSATION_DURATION/TOTAL_DURATION), matching the
// original's timeval_to_duration used identically for both attributes.
// A negative span (clock skew between messages) clamps to zero rather
// than printing a sign, consistent with §7's never-crash-on-odd-input
// contract.
func formatDuration(start, end *Message) (string, bool) {
	t0, t1 := msgTime(start), msgTime(end)
	if t0.IsZero() || t1.IsZero() {
		return "", false
	}
	d := t1.Sub(t0)
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), true
}

// disconnectBy implements §4.4's DISCONNECT_BY fallback chain: stored
// value first, then a scan for the message that actually ended the call
// when nothing was recorded during the state machine's run (e.g. a call
// reconstructed from a partial transcript where only the terminal message
// survived eviction).
func (c *Call) disconnectBy() (string, bool) {
	if c.State == CallSetup {
		return "-", true
	}
	if c.DisconnectBy != "" {
		return c.DisconnectBy, true
	}
	switch c.State {
	case CallCancelled, CallRejected, CallBusy, CallCompleted, CallDiverted, CallInCall:
		if m := c.findTerminationMsg(); m != nil {
			return m.Src.String(), true
		}
		if c.State == CallInCall {
			return "-", true
		}
		return "Unknown", true
	default:
		return "", false
	}
}

// findTerminationMsg scans backward and returns the newest message that is
// either a CANCEL/BYE or a non-auth-challenge 4xx-6xx response, mirroring
// the original's combined loop (neither category takes priority).
func (c *Call) findTerminationMsg() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		rr := m.ReqResp
		if rr.Is(sipmsg.MCancel) || rr.Is(sipmsg.MBye) {
			return m
		}
		if rr.IsResponse() && rr.Code() >= 400 && rr.Code() < 700 &&
			rr.Code() != 401 && rr.Code() != 407 {
			return m
		}
	}
	return nil
}

// disconnectCode implements §4.4's DISCONNECT_CODE fallback chain,
// mirroring the original's per-state synthesis when no code was recorded
// by the state machine.
func (c *Call) disconnectCode() (string, bool) {
	if c.State == CallSetup {
		return "-", true
	}
	if c.DisconnectCode != "" {
		return c.DisconnectCode, true
	}
	switch c.State {
	case CallInCall:
		for i := len(c.Messages) - 1; i >= 0; i-- {
			if c.Messages[i].ReqResp.Is(sipmsg.MBye) {
				return "BYE (No Response)", true
			}
		}
		return "-", true
	case CallCancelled:
		for _, m := range c.Messages {
			if m.ReqResp.IsResponse() && m.ReqResp.Code() == 487 {
				return "487 Request Terminated", true
			}
		}
		return "CANCELLED", true
	case CallDiverted:
		for i := len(c.Messages) - 1; i >= 0; i-- {
			rr := c.Messages[i].ReqResp
			if rr.IsResponse() && rr.Code() >= 400 && rr.Code() < 700 &&
				rr.Code() != 401 && rr.Code() != 407 {
				return c.responseString(c.Messages[i]), true
			}
		}
		return "DIVERTED", true
	case CallRejected:
		return "REJECTED", true
	case CallBusy:
		return "BUSY", true
	case CallCompleted:
		return "BYE", true
	default:
		return "", false
	}
}

// debugAttrString is a small helper kept for log lines that want to show a
// call's id, state and message count without a full formatting layer.
func (c *Call) debugAttrString() string {
	state, _ := c.Attribute(AttrCallState)
	return fmt.Sprintf("call=%s state=%s msgs=%d", c.CallID, state, c.MsgCount())
}
