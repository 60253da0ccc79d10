package sipmsg

import "strconv"

// Kind discriminates the two arms of ReqResp, the sum type the spec's design
// notes (§9) call for in place of the original C source's single conflated
// integer space (method constants packed alongside 100-699 response codes).
type Kind uint8

const (
	KindRequest Kind = iota
	KindResponse
)

// ReqResp is the "reqresp" field of a Message: either a request method or a
// 3-digit final/provisional response code, never both.
type ReqResp struct {
	kind   Kind
	method Method
	code   uint16
}

// Req builds a request-kind ReqResp for the given method.
func Req(m Method) ReqResp {
	return ReqResp{kind: KindRequest, method: m}
}

// Resp builds a response-kind ReqResp for the given status code.
// code is expected in [100, 699]; out-of-range values are still stored
// as-is (the core never rejects a message outright, see §7).
func Resp(code uint16) ReqResp {
	return ReqResp{kind: KindResponse, code: code}
}

// IsRequest reports whether rr carries a request method.
func (rr ReqResp) IsRequest() bool { return rr.kind == KindRequest }

// IsResponse reports whether rr carries a response code.
func (rr ReqResp) IsResponse() bool { return rr.kind == KindResponse }

// Method returns the carried method, or MUndef if rr is a response.
func (rr ReqResp) Method() Method {
	if rr.kind != KindRequest {
		return MUndef
	}
	return rr.method
}

// Code returns the carried status code, or 0 if rr is a request.
func (rr ReqResp) Code() uint16 {
	if rr.kind != KindResponse {
		return 0
	}
	return rr.code
}

// Is reports whether rr is a request for method m.
func (rr ReqResp) Is(m Method) bool {
	return rr.kind == KindRequest && rr.method == m
}

// IsProvisional reports whether rr is a 1xx response.
func (rr ReqResp) IsProvisional() bool {
	return rr.kind == KindResponse && rr.code >= 100 && rr.code <= 199
}

// Is2xx reports whether rr is a 2xx response.
func (rr ReqResp) Is2xx() bool {
	return rr.kind == KindResponse && rr.code >= 200 && rr.code <= 299
}

// IsFinal reports whether rr is a final (>= 200) response.
func (rr ReqResp) IsFinal() bool {
	return rr.kind == KindResponse && rr.code >= 200
}

// IsErrorCode reports whether rr is a response with code > 400 (the same
// test as §4.3's "rr > 400" row; the state engine spells that test out
// inline rather than calling this).
func (rr ReqResp) IsErrorCode() bool {
	return rr.kind == KindResponse && rr.code > 400
}

// CodeIn reports whether rr is a response whose code is one of codes.
func (rr ReqResp) CodeIn(codes ...uint16) bool {
	if rr.kind != KindResponse {
		return false
	}
	for _, c := range codes {
		if rr.code == c {
			return true
		}
	}
	return false
}

// String renders the method name (for requests) or the decimal code (for
// responses) -- a fallback used only when no canonical reason phrase is
// available; see ResponseCatalog for the "<code> <reason>" form.
func (rr ReqResp) String() string {
	if rr.kind == KindRequest {
		return rr.method.String()
	}
	return strconv.Itoa(int(rr.code))
}
