package chat

import "strings"

// Field indices for opcode 5 (common chat).
const (
	chatFieldContent      = 0
	chatFieldUserID       = 1
	chatFieldUserNick     = 5
	chatFieldFlags        = 6
	chatFieldSubscribe    = 7
	chatFieldAccSubscribe = 10
)

func parseChat(m *Message) Event {
	f := m.Fields
	if len(f) <= chatFieldAccSubscribe {
		return nil
	}
	return &ChatEvent{
		Meta:    Meta{ReceivedAt: m.ReceivedAt},
		Type:    ChatCommon,
		Comment: f[chatFieldContent],
		User: User{
			ID:     NormalizeUserID(f[chatFieldUserID]),
			Label:  f[chatFieldUserNick],
			Status: parseUserStatus(f[chatFieldFlags]),
			Subscribe: &UserSubscribe{
				AccMonths:     parseUint32(f[chatFieldAccSubscribe]),
				CurrentMonths: parseUint32(f[chatFieldSubscribe]),
			},
		},
	}
}

func parseManagerChat(m *Message) Event {
	f := m.Fields
	if len(f) <= 5 {
		return nil
	}
	return &ChatEvent{
		Meta:    Meta{ReceivedAt: m.ReceivedAt},
		Type:    ChatManager,
		Comment: f[0],
		IsAdmin: f[2] == "1",
		User: User{
			ID:     NormalizeUserID(f[1]),
			Label:  f[4],
			Status: parseUserStatus(f[5]),
		},
	}
}

func parseEmoticonChat(m *Message) Event {
	f := m.Fields
	if len(f) <= 15 {
		return nil
	}
	return &ChatEvent{
		Meta: Meta{ReceivedAt: m.ReceivedAt},
		Type: ChatEmoticon,
		// Emoticon comments arrive with a stray carriage return.
		Comment: strings.ReplaceAll(f[1], "\r", ""),
		User: User{
			ID:     NormalizeUserID(f[5]),
			Label:  f[6],
			Status: parseUserStatus(f[7]),
			Subscribe: &UserSubscribe{
				AccMonths:     parseUint32(f[15]),
				CurrentMonths: parseUint32(f[12]),
			},
		},
		Emoticon: &Emoticon{
			ID:      f[2],
			Number:  f[3],
			Version: f[4],
			Ext:     f[11],
		},
	}
}
