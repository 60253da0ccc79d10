package sipmsg

import "strconv"

// ResponseCatalog is the canonical response-string lookup the core consumes
// from the parser (§6): response_str(code) -> string, optional. The core
// never hardcodes reason phrases itself; it asks the catalog and falls back
// to the decimal code when the catalog doesn't know the code (§4.3: "The
// canonical response string is the textual form '<code> <reason>' ...; if
// unavailable, the numeric code in decimal.").
type ResponseCatalog interface {
	// String returns the "<code> <reason>" form of code, and true, or
	// ("", false) if the catalog has no entry for code.
	String(code uint16) (string, bool)
}

// reasonPhrases holds the reason phrases the state engine and attribute
// projector actually reference (auth challenges, busy/decline/diversion/
// rejection families, and the common 1xx/2xx). It is not an exhaustive
// RFC 3261 table -- a real deployment wires its own parser-backed catalog
// (e.g. one that echoes the Reason phrase actually seen on the wire)
// through calltr.Config.ResponseCatalog.
var reasonPhrases = map[uint16]string{
	100: "Trying",
	180: "Ringing",
	181: "Call Is Being Forwarded",
	182: "Queued",
	183: "Session Progress",
	200: "OK",
	301: "Moved Permanently",
	302: "Moved Temporarily",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	480: "Temporarily Unavailable",
	486: "Busy Here",
	487: "Request Terminated",
	488: "Not Acceptable Here",
	500: "Server Internal Error",
	503: "Service Unavailable",
	600: "Busy Everywhere",
	603: "Decline",
}

// DefaultResponseCatalog is a small built-in ResponseCatalog covering the
// status codes the state engine and attribute projector name explicitly.
type DefaultResponseCatalog struct{}

// String implements ResponseCatalog.
func (DefaultResponseCatalog) String(code uint16) (string, bool) {
	reason, ok := reasonPhrases[code]
	if !ok {
		return "", false
	}
	return strconv.Itoa(int(code)) + " " + reason, true
}

// CanonicalString formats the response code via cat, falling back to the
// plain decimal code when cat is nil or has no entry -- the exact fallback
// rule from §4.3.
func CanonicalString(cat ResponseCatalog, code uint16) string {
	if cat != nil {
		if s, ok := cat.String(code); ok {
			return s
		}
	}
	return strconv.Itoa(int(code))
}
