package calltr

import "strings"

// Compare orders two calls by a single attribute (§4.5): CALL_INDEX and
// MSG_COUNT compare numerically, everything else compares as strings via
// Attribute, with the "empty sorts last" convention -- a call missing the
// attribute entirely sorts after one that has it, and two calls both
// missing it compare equal.
func Compare(one, two *Call, id AttributeID) int {
	switch id {
	case AttrCallIndex:
		return compareInt(one.Index, two.Index)
	case AttrMsgCount:
		return compareInt(one.MsgCount(), two.MsgCount())
	default:
		oneVal, _ := one.Attribute(id)
		twoVal, _ := two.Attribute(id)
		return compareStringEmptyLast(oneVal, twoVal)
	}
}

func compareInt(a, b int) int {
	switch {
	case a == b:
		return 0
	case a > b:
		return 1
	default:
		return -1
	}
}

func compareStringEmptyLast(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case b == "":
		return -1
	case a == "":
		return 1
	default:
		return strings.Compare(a, b)
	}
}
