package calltr

// CallState is the derived call-lifecycle state a Call occupies (§3, §4.3).
// The zero value, CallUnset, is the state of a Call whose first message
// hasn't been classified yet (or isn't an INVITE -- §4.3's precondition:
// the engine only runs for INVITE-initiated dialogs).
type CallState uint8

const (
	CallUnset CallState = iota
	CallSetup
	CallInCall
	CallCancelled
	CallRejected
	CallBusy
	CallDiverted
	CallCompleted
)

// callStateName is the §6 "State->string mapping" table. Unknown states map
// to the empty string, matching the original's call_state_to_str fallthrough
// (no default case => implicit "").
var callStateName = [...]string{
	CallUnset:     "",
	CallSetup:     "CALL SETUP",
	CallInCall:    "IN CALL",
	CallCancelled: "CANCELLED",
	CallRejected:  "REJECTED",
	CallBusy:      "BUSY",
	CallDiverted:  "DIVERTED",
	CallCompleted: "COMPLETED",
}

// String implements the §6 state->string mapping.
func (s CallState) String() string {
	if int(s) >= len(callStateName) {
		return ""
	}
	return callStateName[s]
}

// FilterState is the tri-state display-filter cache slot (§3 "filtered").
// It is never written by the core itself -- only read and written by the
// (external) display/filter layer -- but the core owns the storage slot and
// resets it to Unevaluated on creation.
type FilterState int8

const (
	FilterUnevaluated FilterState = iota - 1
	FilterFail
	FilterPass
)
