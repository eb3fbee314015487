package chat

func parseSubscribe(m *Message) Event {
	f := m.Fields
	if len(f) <= 7 {
		return nil
	}
	return &SubscribeEvent{
		Meta:   Meta{ReceivedAt: m.ReceivedAt},
		UserID: NormalizeUserID(f[2]),
		Label:  f[3],
		Tier:   parseUint32(f[7]),
		Renew:  0,
	}
}

func parseSubscribeRenew(m *Message) Event {
	f := m.Fields
	if len(f) <= 7 {
		return nil
	}
	return &SubscribeEvent{
		Meta:   Meta{ReceivedAt: m.ReceivedAt},
		UserID: NormalizeUserID(f[1]),
		Label:  f[2],
		Tier:   parseUint32(f[7]),
		Renew:  parseUint32Default(f[3], 1),
	}
}
