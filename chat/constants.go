package chat

// Wire delimiters for the SOOP chat protocol. The body of every frame is
// a sequence of UTF-8 fields separated by sep; fields may carry nested
// key/value elements bracketed by elemStart/elemEnd with spaceSep as the
// in-element record separator.
const (
	sep       = 0x0c // field separator (form feed)
	elemStart = 0x11 // element start
	elemEnd   = 0x12 // element end
	spaceSep  = 0x06 // space / record separator inside elements
)

// starter is the two-byte frame preamble (ESC TAB).
var starter = []byte{0x1b, 0x09}

// Opcodes the dispatcher understands. Anything else surfaces as an
// UnknownEvent carrying the raw opcode.
const (
	opPing              uint32 = 0
	opConnect           uint32 = 1
	opJoin              uint32 = 2
	opExit              uint32 = 4
	opChat              uint32 = 5
	opBJStateChange     uint32 = 7
	opMute              uint32 = 8
	opEnterInfo         uint32 = 12
	opDonation          uint32 = 18
	opFreeze            uint32 = 21
	opSlow              uint32 = 23
	opManagerChat       uint32 = 26
	opSubDonation       uint32 = 33
	opKickCancel        uint32 = 76
	opVODDonation       uint32 = 86
	opAdBalloon         uint32 = 87
	opSubscribe         uint32 = 91
	opSubscribeRenew    uint32 = 93
	opVODAdDonation     uint32 = 103
	opNotification      uint32 = 104
	opVideoDonation     uint32 = 105
	opAdStationDonation uint32 = 107
	opEmoticon          uint32 = 109
	opMissionDonation   uint32 = 121
	opUserJoin          uint32 = 127
)
