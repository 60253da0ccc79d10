package calltr

import (
	"net"
	"testing"

	"github.com/sipwatch/dialogtrack/sipmsg"
)

// TestIsActiveOnlyDuringSetupOrInCall checks P1: is_active() is true iff
// the call is in CALL_SETUP or IN_CALL, across every state a scenario can
// reach.
func TestIsActiveOnlyDuringSetupOrInCall(t *testing.T) {
	cases := []struct {
		name   string
		steps  []step
		active bool
	}{
		{"setup", []step{
			{sipmsg.Req(sipmsg.MInvite), 1, "A"},
		}, true},
		{"in_call", []step{
			{sipmsg.Req(sipmsg.MInvite), 1, "A"},
			{sipmsg.Resp(200), 1, "B"},
			{sipmsg.Req(sipmsg.MAck), 1, "A"},
		}, true},
		{"completed", []step{
			{sipmsg.Req(sipmsg.MInvite), 1, "A"},
			{sipmsg.Resp(200), 1, "B"},
			{sipmsg.Req(sipmsg.MAck), 1, "A"},
			{sipmsg.Req(sipmsg.MBye), 2, "A"},
		}, false},
		{"busy", []step{
			{sipmsg.Req(sipmsg.MInvite), 1, "A"},
			{sipmsg.Resp(486), 1, "B"},
		}, false},
		{"rejected", []step{
			{sipmsg.Req(sipmsg.MInvite), 1, "A"},
			{sipmsg.Resp(603), 1, "B"},
		}, false},
		{"cancelled", []step{
			{sipmsg.Req(sipmsg.MInvite), 1, "A"},
			{sipmsg.Req(sipmsg.MCancel), 1, "A"},
		}, false},
		{"diverted", []step{
			{sipmsg.Req(sipmsg.MInvite), 1, "A"},
			{sipmsg.Resp(302), 1, "B"},
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := runScenario(t, tc.steps)
			if got := c.IsActive(); got != tc.active {
				t.Errorf("state %v: IsActive() = %v, want %v", c.State, got, tc.active)
			}
		})
	}
}

// TestInCallImpliesMatching2xxInTranscript checks P3: whenever a call has
// reached IN_CALL, its transcript contains a 2xx response whose CSeq equals
// InviteCSeq -- the very response that is supposed to have driven the
// transition.
func TestInCallImpliesMatching2xxInTranscript(t *testing.T) {
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
	found := false
	for _, m := range c.Messages {
		if m.ReqResp.IsResponse() && m.ReqResp.Code()/100 == 2 && m.CSeq == c.InviteCSeq {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("IN_CALL but no 2xx response with CSeq %d found in transcript", c.InviteCSeq)
	}
}

// sanity-check the address helper is usable directly, matching call_test.go's
// own addr() helper shape.
func TestScenarioHelperAddresses(t *testing.T) {
	a := sipmsg.Addr{IP: net.ParseIP("10.0.0.1"), Port: 5060}
	if a.String() == "" {
		t.Fatalf("Addr.String() unexpectedly empty")
	}
}
