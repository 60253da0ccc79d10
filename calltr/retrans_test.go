package calltr

import (
	"net"
	"testing"

	"github.com/sipwatch/dialogtrack/sipmsg"
)

func TestCheckRetransDetectsDuplicate(t *testing.T) {
	c, _ := New("a", "", Config{})
	a := sipmsg.Addr{IP: net.ParseIP("10.0.0.1"), Port: 5060}
	b := sipmsg.Addr{IP: net.ParseIP("10.0.0.2"), Port: 5060}

	m0 := newMsg(sipmsg.Req(sipmsg.MInvite), 1, a, b, "INVITE sip:bob SIP/2.0")
	c.AddMessage(m0)
	c.CheckRetrans(m0)
	if m0.IsRetrans() {
		t.Fatalf("first message should never be a retransmission")
	}

	m1 := newMsg(sipmsg.Resp(100), 1, b, a, "SIP/2.0 100 Trying")
	c.AddMessage(m1)
	c.CheckRetrans(m1)

	// case-insensitively identical retransmission of m0, same addresses
	m2 := newMsg(sipmsg.Req(sipmsg.MInvite), 1, a, b, "invite sip:bob sip/2.0")
	c.AddMessage(m2)
	c.CheckRetrans(m2)

	if m2.Retrans != m0 {
		t.Fatalf("CheckRetrans should link m2 to m0, got %v", m2.Retrans)
	}
	if m1.IsRetrans() {
		t.Errorf("m1 has a different address pair and must not be flagged")
	}
}

func TestCheckRetransDifferentPayloadNotFlagged(t *testing.T) {
	c, _ := New("a", "", Config{})
	a := sipmsg.Addr{IP: net.ParseIP("10.0.0.1"), Port: 5060}
	b := sipmsg.Addr{IP: net.ParseIP("10.0.0.2"), Port: 5060}

	m0 := newMsg(sipmsg.Req(sipmsg.MInvite), 1, a, b, "INVITE sip:bob SIP/2.0")
	c.AddMessage(m0)
	c.CheckRetrans(m0)

	m1 := newMsg(sipmsg.Req(sipmsg.MInvite), 2, a, b, "INVITE sip:carol SIP/2.0")
	c.AddMessage(m1)
	c.CheckRetrans(m1)

	if m1.IsRetrans() {
		t.Errorf("differing payload must not be flagged as a retransmission")
	}
}

func TestCheckRetransStopsAtNearestAddressMatch(t *testing.T) {
	c, _ := New("a", "", Config{})
	a := sipmsg.Addr{IP: net.ParseIP("10.0.0.1"), Port: 5060}
	b := sipmsg.Addr{IP: net.ParseIP("10.0.0.2"), Port: 5060}

	m0 := newMsg(sipmsg.Req(sipmsg.MInvite), 1, a, b, "same payload")
	c.AddMessage(m0)
	c.CheckRetrans(m0)

	// different payload, same address pair: nearest match, breaks the scan
	m1 := newMsg(sipmsg.Req(sipmsg.MInvite), 1, a, b, "different payload")
	c.AddMessage(m1)
	c.CheckRetrans(m1)
	if m1.IsRetrans() {
		t.Fatalf("m1 differs in payload from the nearest same-address message and must not match")
	}

	// identical payload to m0, but the scan must stop at m1 (nearest
	// same-address predecessor) and therefore not find m0 either.
	m2 := newMsg(sipmsg.Req(sipmsg.MInvite), 1, a, b, "same payload")
	c.AddMessage(m2)
	c.CheckRetrans(m2)
	if m2.IsRetrans() {
		t.Errorf("scan must stop at the nearest same-address message (m1), not skip past it to m0")
	}
}
