package chat

import "strconv"

// Freeze target bits. The FREEZE frame carries a bitmask naming the
// viewer classes still allowed to chat.
const (
	freezeNormal    = 1 << 4
	freezeFan       = 1 << 5
	freezeSupporter = 1 << 6
	freezeTopFan    = 1 << 7
	freezeFollower  = 1 << 8
	freezeManager   = 1 << 9
)

// superUsers maps the MUTE superuser index to a role name.
var superUsers = [...]string{"streamer", "manager", "operator", "operator", "cleaner"}

// parseExit handles opcode 4. Field 0 == "1" marks an unspecified
// housekeeping frame and produces nothing. Field 3 distinguishes a
// voluntary exit from a kick.
func parseExit(m *Message) Event {
	f := m.Fields
	if len(f) <= 5 || f[0] == "1" {
		return nil
	}
	user := User{
		ID:     NormalizeUserID(f[1]),
		Label:  f[2],
		Status: parseUserStatus(f[5]),
	}
	meta := Meta{ReceivedAt: m.ReceivedAt}
	if f[3] == "1" {
		return &ExitEvent{Meta: meta, User: user}
	}
	return &KickEvent{Meta: meta, User: user}
}

func parseMute(m *Message) Event {
	f := m.Fields
	if len(f) <= 7 {
		return nil
	}
	idx := int(parseUint32(f[5]))
	if idx >= len(superUsers) {
		idx = 0
	}
	return &MuteEvent{
		Meta: Meta{ReceivedAt: m.ReceivedAt},
		User: User{
			ID:     NormalizeUserID(f[0]),
			Label:  f[7],
			Status: parseUserStatus(f[1]),
		},
		Seconds:       parseUint32(f[2]),
		Counts:        parseUint32Default(f[3], 1),
		By:            NormalizeUserID(f[4]),
		SuperuserType: superUsers[idx],
	}
}

func parseFreeze(m *Message) Event {
	f := m.Fields
	if len(f) <= 4 {
		return nil
	}
	return &FreezeEvent{
		Meta:                   Meta{ReceivedAt: m.ReceivedAt},
		Frozen:                 f[0] != "0",
		Targets:                freezeTargets(parseUint32(f[2])),
		LimitBalloons:          parseUint32(f[3]),
		LimitSubscriptionMonth: parseUint32(f[4]),
	}
}

func freezeTargets(mask uint32) []string {
	var targets []string
	for _, t := range []struct {
		bit  uint32
		name string
	}{
		{freezeNormal, "NORMAL"},
		{freezeFan, "FAN"},
		{freezeSupporter, "SUPPORTER"},
		{freezeTopFan, "TOP_FAN"},
		{freezeFollower, "FOLLOWER"},
		{freezeManager, "MANAGER"},
	} {
		if hasFlag(mask, t.bit) {
			targets = append(targets, t.name)
		}
	}
	return targets
}

// parseSlow handles opcode 23. The server sends the delay twice; the
// larger value wins.
func parseSlow(m *Message) Event {
	f := m.Fields
	if len(f) <= 1 {
		return nil
	}
	return &SlowEvent{
		Meta:     Meta{ReceivedAt: m.ReceivedAt},
		Duration: max(parseUint32(f[0]), parseUint32(f[1])),
	}
}

// parseKickCancel handles opcode 76. Field 0 must be "1".
func parseKickCancel(m *Message) Event {
	f := m.Fields
	if len(f) <= 1 || f[0] != "1" {
		return nil
	}
	return &KickCancelEvent{
		Meta:   Meta{ReceivedAt: m.ReceivedAt},
		UserID: NormalizeUserID(f[1]),
	}
}

// parseUserJoin handles opcode 127. The body carries exactly three
// fields; anything else is not a join.
func parseUserJoin(m *Message) Event {
	f := m.Fields
	if len(f) != 3 {
		return nil
	}
	return &JoinEvent{
		Meta:   Meta{ReceivedAt: m.ReceivedAt},
		UserID: NormalizeUserID(f[0]),
	}
}

func parseNotification(m *Message) Event {
	f := m.Fields
	if len(f) <= 3 {
		return nil
	}
	return &NotificationEvent{
		Meta:    Meta{ReceivedAt: m.ReceivedAt},
		Show:    f[1] == "1",
		Message: f[3],
	}
}

// parseUint32Default parses s or falls back to def when s is not a
// number.
func parseUint32Default(s string, def uint32) uint32 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return def
	}
	return uint32(n)
}
