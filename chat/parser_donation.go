package chat

// donationLayout maps a donation opcode's payload onto field indices.
// An index of -1 means the wire carries no such field and the zero
// value applies.
type donationLayout struct {
	typ     DonationType
	from    int
	label   int
	amount  int
	ordinal int
	topFan  int
}

var donationLayouts = map[uint32]donationLayout{
	opDonation:          {DonationBalloon, 1, 2, 3, 4, 8},
	opSubDonation:       {DonationBalloon, 3, 4, 5, 6, 9},
	opVODDonation:       {DonationBalloon, 1, 2, 3, -1, -1},
	opAdBalloon:         {DonationAdBalloon, 2, 3, 9, 10, 12},
	opVODAdDonation:     {DonationAdBalloon, 1, 2, 3, -1, -1},
	opAdStationDonation: {DonationAdBalloon, 1, 2, 3, -1, -1},
	opVideoDonation:     {DonationVodBalloon, 2, 3, 4, 5, 7},
}

func parseDonation(m *Message) Event {
	layout, ok := donationLayouts[m.Opcode]
	if !ok {
		return nil
	}
	f := m.Fields
	if len(f) <= layout.maxIndex() {
		return nil
	}

	ev := &DonationEvent{
		Meta:      Meta{ReceivedAt: m.ReceivedAt},
		Type:      layout.typ,
		From:      NormalizeUserID(f[layout.from]),
		FromLabel: f[layout.label],
		Amount:    parseUint32(f[layout.amount]),
	}
	if layout.ordinal >= 0 {
		ev.FanClubOrdinal = parseUint32(f[layout.ordinal])
	}
	if layout.topFan >= 0 {
		ev.BecomeTopFan = f[layout.topFan] == "1"
	}
	return ev
}

func (l donationLayout) maxIndex() int {
	max := l.from
	for _, i := range []int{l.label, l.amount, l.ordinal, l.topFan} {
		if i > max {
			max = i
		}
	}
	return max
}
