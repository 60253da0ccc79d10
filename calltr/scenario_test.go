package calltr

import (
	"net"
	"testing"
	"time"

	"github.com/sipwatch/dialogtrack/sipmsg"
)

// step is one message in an end-to-end scenario: direction is expressed as
// "A" or "B" sender, everything else is derived.
type step struct {
	rr   sipmsg.ReqResp
	cseq uint32
	from string // "A" or "B"
}

func runScenario(t *testing.T, steps []step) *Call {
	t.Helper()
	a := sipmsg.Addr{IP: net.ParseIP("10.0.0.1"), Port: 5060}
	b := sipmsg.Addr{IP: net.ParseIP("10.0.0.2"), Port: 5060}

	c, ok := New("scenario@call", "", Config{})
	if !ok {
		t.Fatalf("New failed")
	}
	base := time.Now()
	for i, s := range steps {
		src, dst := a, b
		if s.from == "B" {
			src, dst = b, a
		}
		m := &Message{Message: sipmsg.Message{
			Src: src, Dst: dst, ReqResp: s.rr, CSeq: s.cseq,
			Payload: []byte("msg"), Timestamp: base.Add(time.Duration(i) * time.Second),
		}}
		c.AddMessage(m)
		c.UpdateState(m)
	}
	return c
}

func TestScenarioNormalCall(t *testing.T) {
	c := runScenario(t, []step{
		{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		{sipmsg.Resp(100), 1, "B"},
		{sipmsg.Resp(180), 1, "B"},
		{sipmsg.Resp(200), 1, "B"},
		{sipmsg.Req(sipmsg.MAck), 1, "A"},
		{sipmsg.Req(sipmsg.MBye), 2, "A"},
		{sipmsg.Resp(200), 2, "B"},
	})
	if c.State != CallCompleted {
		t.Fatalf("state = %v, want CallCompleted", c.State)
	}
	if code, _ := c.Attribute(AttrDisconnectCode); code != "200 OK" {
		t.Errorf("disconnect code = %q, want %q", code, "200 OK")
	}
	if by, _ := c.Attribute(AttrDisconnectBy); by != "10.0.0.1:5060" {
		t.Errorf("disconnect by = %q, want A's address", by)
	}
}

func TestScenarioBusy(t *testing.T) {
	c := runScenario(t, []step{
		{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		{sipmsg.Resp(486), 1, "B"},
	})
	if c.State != CallBusy {
		t.Fatalf("state = %v, want CallBusy", c.State)
	}
	if code, _ := c.Attribute(AttrDisconnectCode); code != "486 Busy Here" {
		t.Errorf("disconnect code = %q", code)
	}
	if by, _ := c.Attribute(AttrDisconnectBy); by != "10.0.0.2:5060" {
		t.Errorf("disconnect by = %q, want B's address", by)
	}
}

func TestScenarioCallerCancels(t *testing.T) {
	c := runScenario(t, []step{
		{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		{sipmsg.Resp(180), 1, "B"},
		{sipmsg.Req(sipmsg.MCancel), 1, "A"},
		{sipmsg.Resp(487), 1, "B"},
	})
	if c.State != CallCancelled {
		t.Fatalf("state = %v, want CallCancelled", c.State)
	}
	if code, _ := c.Attribute(AttrDisconnectCode); code != "487 Request Terminated" {
		t.Errorf("disconnect code = %q, want refined 487 string", code)
	}
	if by, _ := c.Attribute(AttrDisconnectBy); by != "10.0.0.1:5060" {
		t.Errorf("disconnect by = %q, want unchanged A's address from CANCEL", by)
	}
}

func TestScenarioAuthReInvite(t *testing.T) {
	c := runScenario(t, []step{
		{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		{sipmsg.Resp(407), 1, "B"},
		{sipmsg.Req(sipmsg.MAck), 1, "A"},
		{sipmsg.Req(sipmsg.MInvite), 2, "A"},
		{sipmsg.Resp(200), 2, "B"},
		{sipmsg.Req(sipmsg.MAck), 2, "A"},
	})
	if c.State != CallInCall {
		t.Fatalf("state = %v, want CallInCall", c.State)
	}
	if c.InviteCSeq != 2 {
		t.Errorf("invite cseq = %d, want 2", c.InviteCSeq)
	}
	if code, _ := c.Attribute(AttrDisconnectCode); code != "-" {
		t.Errorf("disconnect code = %q, want %q for an in-progress call", code, "-")
	}
}

func TestScenarioDivertedThenRejected(t *testing.T) {
	c := runScenario(t, []step{
		{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		{sipmsg.Resp(302), 1, "B"},
		{sipmsg.Resp(404), 1, "B"},
	})
	if c.State != CallDiverted {
		t.Fatalf("state = %v, want CallDiverted (DIVERTED sticky against a later 404)", c.State)
	}
	if code, _ := c.Attribute(AttrDisconnectCode); code != "404 Not Found" {
		t.Errorf("disconnect code = %q, want %q", code, "404 Not Found")
	}
	if by, _ := c.Attribute(AttrDisconnectBy); by != "10.0.0.2:5060" {
		t.Errorf("disconnect by = %q, want B's address", by)
	}
}

// TestScenarioAuthReInviteThenStaleRejection covers the {DIVERTED,
// CALL_SETUP} shared row's CALL_SETUP precursor (§4.3): a re-INVITE sent
// after an auth challenge leaves InviteCSeq unchanged (no case in
// updateFromCallSetup advances it on a bare INVITE), so the eventual final
// error answering that re-INVITE arrives with a CSeq that never matches
// InviteCSeq and must still flip the call to REJECTED rather than leaving
// it stuck in CALL_SETUP forever.
func TestScenarioAuthReInviteThenStaleRejection(t *testing.T) {
	c := runScenario(t, []step{
		{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		{sipmsg.Resp(407), 1, "B"},
		{sipmsg.Req(sipmsg.MAck), 1, "A"},
		{sipmsg.Req(sipmsg.MInvite), 2, "A"},
		{sipmsg.Resp(404), 2, "B"},
	})
	if c.State != CallRejected {
		t.Fatalf("state = %v, want CallRejected", c.State)
	}
	if code, _ := c.Attribute(AttrDisconnectCode); code != "404 Not Found" {
		t.Errorf("disconnect code = %q, want %q", code, "404 Not Found")
	}
	if by, _ := c.Attribute(AttrDisconnectBy); by != "10.0.0.2:5060" {
		t.Errorf("disconnect by = %q, want B's address", by)
	}
}

// TestScenarioAuthReInviteThenStaleBusy is the {480, 503} -> BUSY half of
// the same shared row.
func TestScenarioAuthReInviteThenStaleBusy(t *testing.T) {
	c := runScenario(t, []step{
		{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		{sipmsg.Resp(401), 1, "B"},
		{sipmsg.Req(sipmsg.MAck), 1, "A"},
		{sipmsg.Req(sipmsg.MInvite), 2, "A"},
		{sipmsg.Resp(503), 2, "B"},
	})
	if c.State != CallBusy {
		t.Fatalf("state = %v, want CallBusy", c.State)
	}
	if code, _ := c.Attribute(AttrDisconnectCode); code != "503 Service Unavailable" {
		t.Errorf("disconnect code = %q, want %q", code, "503 Service Unavailable")
	}
}

func TestScenarioByeLost(t *testing.T) {
	c := runScenario(t, []step{
		{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		{sipmsg.Resp(200), 1, "B"},
		{sipmsg.Req(sipmsg.MAck), 1, "A"},
		{sipmsg.Req(sipmsg.MBye), 2, "A"},
	})
	if c.State != CallCompleted {
		t.Fatalf("state = %v, want CallCompleted (BYE always short-circuits)", c.State)
	}
	if code, _ := c.Attribute(AttrDisconnectCode); code != "BYE" {
		t.Errorf("disconnect code = %q, want placeholder %q", code, "BYE")
	}
	if by, _ := c.Attribute(AttrDisconnectBy); by != "10.0.0.1:5060" {
		t.Errorf("disconnect by = %q, want source of the BYE", by)
	}
}
