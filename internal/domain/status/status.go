// Package status models the lifecycle state of hourly and big-catch entries.
//
// The set is closed: five wire values plus NotSubmitted, which stands for a
// missing record or an unrecognised value. Only the locked and offline states
// are countable.
package status

import "strings"

// Status is the state of a judge entry.
type Status uint8

// Entry states. NotSubmitted is the zero value.
const (
	NotSubmitted Status = iota
	Pending
	LockedJudge
	LockedAdmin
	OfflineJudge
	OfflineAdmin
)

var wireNames = [...]string{
	NotSubmitted: "",
	Pending:      "pending",
	LockedJudge:  "locked_judge",
	LockedAdmin:  "locked_admin",
	OfflineJudge: "offline_judge",
	OfflineAdmin: "offline_admin",
}

// Parse maps a wire string to a Status. Unknown strings yield NotSubmitted and ok=false.
func Parse(s string) (Status, bool) {
	switch strings.TrimSpace(s) {
	case "pending":
		return Pending, true
	case "locked_judge":
		return LockedJudge, true
	case "locked_admin":
		return LockedAdmin, true
	case "offline_judge":
		return OfflineJudge, true
	case "offline_admin":
		return OfflineAdmin, true
	default:
		return NotSubmitted, false
	}
}

// IsCountable reports whether an entry in this state is final enough to score.
// It is the single predicate used wherever sums are computed.
func (s Status) IsCountable() bool {
	switch s {
	case LockedJudge, LockedAdmin, OfflineJudge, OfflineAdmin:
		return true
	case NotSubmitted, Pending:
		return false
	default:
		return false
	}
}

// String returns the wire value; NotSubmitted renders as "".
func (s Status) String() string {
	if int(s) < len(wireNames) {
		return wireNames[s]
	}
	return ""
}

// All returns every explicit (submitted) state in declaration order.
func All() []Status {
	return []Status{Pending, LockedJudge, LockedAdmin, OfflineJudge, OfflineAdmin}
}
