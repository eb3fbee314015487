package chat

import (
	"strconv"
	"strings"
)

// User flag bits. The FLAGS wire field is two decimal integers joined
// by "|": index 0 is a bitmask over user kinds, index 1 over follow
// tiers.
const (
	flagBJ            = 1 << 2
	flagGuest         = 1 << 4
	flagFan           = 1 << 5
	flagManager       = 1 << 8
	flagTopFan        = 1 << 15
	flagFollowerTier1 = 1 << 18
	flagFollowerTier2 = 1 << 19
	flagSupporter     = 1 << 20
)

// User identifies a chat participant.
type User struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Status UserStatus `json:"status"`
	// Subscribe is set only on events that carry subscription months.
	Subscribe *UserSubscribe `json:"subscribe,omitempty"`
}

// UserStatus is the decoded FLAGS field.
type UserStatus struct {
	// Follow is the follow tier: 0 none, 1 tier one, 2 tier two.
	Follow      uint8 `json:"follow"`
	IsBJ        bool  `json:"isBj"`
	IsManager   bool  `json:"isManager"`
	IsTopFan    bool  `json:"isTopFan"`
	IsFan       bool  `json:"isFan"`
	IsSupporter bool  `json:"isSupporter"`
}

// UserSubscribe carries subscription month counters.
type UserSubscribe struct {
	AccMonths     uint32 `json:"acc"`
	CurrentMonths uint32 `json:"current"`
}

// parseUserStatus decodes a FLAGS field. Malformed halves decode as 0,
// yielding an all-false status.
func parseUserStatus(flagStr string) UserStatus {
	combined, follow := splitFlags(flagStr)
	return UserStatus{
		Follow:      followTier(follow),
		IsBJ:        hasFlag(combined, flagBJ),
		IsManager:   hasFlag(combined, flagManager),
		IsTopFan:    hasFlag(combined, flagTopFan),
		IsFan:       hasFlag(combined, flagFan),
		IsSupporter: hasFlag(combined, flagSupporter),
	}
}

func splitFlags(flagStr string) (combined, follow uint32) {
	head, tail, _ := strings.Cut(flagStr, "|")
	return parseUint32(head), parseUint32(tail)
}

func followTier(follow uint32) uint8 {
	switch {
	case hasFlag(follow, flagFollowerTier1):
		return 1
	case hasFlag(follow, flagFollowerTier2):
		return 2
	default:
		return 0
	}
}

func hasFlag(flags, flag uint32) bool {
	return flags&flag == flag
}

// parseUint32 is the "parse or 0" integer policy used throughout the
// field parsers.
func parseUint32(s string) uint32 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// NormalizeUserID strips trailing "(<digit>)" connection-instance
// suffixes from a user id. The suffix denotes a duplicate connection,
// not a distinct identity. Stripping repeats until no suffix remains,
// which keeps the function idempotent.
func NormalizeUserID(userID string) string {
	for {
		n := len(userID)
		if n < 3 || userID[n-1] != ')' || userID[n-3] != '(' || !isASCIIDigit(userID[n-2]) {
			return userID
		}
		userID = userID[:n-3]
	}
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
