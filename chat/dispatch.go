package chat

import (
	"log/slog"

	"github.com/ByungJin-Lee/soop-sdk-go/internal/metrics"
)

// parserFunc turns a decoded message into a typed event, or nil when
// the body is short or malformed.
type parserFunc func(*Message) Event

// parsers is the opcode dispatch table. Opcodes absent here surface as
// UnknownEvent, except the ones the dispatcher handles itself before
// the table lookup (heartbeat, handshake, inbound JOIN, lifecycle,
// enter info).
var parsers = map[uint32]parserFunc{
	opExit:              parseExit,
	opChat:              parseChat,
	opMute:              parseMute,
	opDonation:          parseDonation,
	opFreeze:            parseFreeze,
	opSlow:              parseSlow,
	opManagerChat:       parseManagerChat,
	opSubDonation:       parseDonation,
	opKickCancel:        parseKickCancel,
	opVODDonation:       parseDonation,
	opAdBalloon:         parseDonation,
	opSubscribe:         parseSubscribe,
	opSubscribeRenew:    parseSubscribeRenew,
	opVODAdDonation:     parseDonation,
	opNotification:      parseNotification,
	opVideoDonation:     parseDonation,
	opAdStationDonation: parseDonation,
	opEmoticon:          parseEmoticonChat,
	opMissionDonation:   parseMission,
	opUserJoin:          parseUserJoin,
}

// dispatcher demultiplexes inbound frames into events and decides
// reply frames. It never fails: malformed frames are logged and
// dropped.
type dispatcher struct {
	fmtr   *formatter
	emit   func(Event)
	logger *slog.Logger
}

func newDispatcher(fmtr *formatter, emit func(Event), logger *slog.Logger) *dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &dispatcher{fmtr: fmtr, emit: emit, logger: logger}
}

// handle processes one inbound frame. The returned slice, when
// non-nil, is a reply frame the session must write back (only the
// CONNECT ack produces one: the JOIN request).
func (d *dispatcher) handle(raw []byte) []byte {
	// Every frame produces a RawEvent first, even ones that fail to
	// decode.
	msg, err := Decode(raw)
	if msg != nil {
		d.emit(&RawEvent{Meta: Meta{ReceivedAt: msg.ReceivedAt}, Data: raw})
	} else {
		d.emit(&RawEvent{Meta: metaNow(), Data: raw})
	}
	if err != nil {
		metrics.FramesMalformed.Inc()
		d.logger.Debug("dropping undecodable frame", "error", err, "len", len(raw))
		return nil
	}
	metrics.FramesDecoded.Inc()

	switch msg.Opcode {
	case opPing:
		// Server heartbeat ack. Nothing to do.
		return nil
	case opConnect:
		return d.fmtr.joinFrame()
	case opJoin:
		// Inbound room state differs across server versions; surface
		// it as unknown rather than guessing a shape.
		d.emit(&UnknownEvent{Meta: Meta{ReceivedAt: msg.ReceivedAt}, Opcode: msg.Opcode})
		return nil
	case opBJStateChange:
		d.emit(&BJStateChangeEvent{Meta: Meta{ReceivedAt: msg.ReceivedAt}})
		return nil
	case opEnterInfo:
		// Carries no usable fields.
		return nil
	}

	parse, ok := parsers[msg.Opcode]
	if !ok {
		d.emit(&UnknownEvent{Meta: Meta{ReceivedAt: msg.ReceivedAt}, Opcode: msg.Opcode})
		return nil
	}
	if ev := parse(msg); ev != nil {
		d.emit(ev)
	} else {
		d.logger.Debug("parser produced no event",
			"opcode", msg.Opcode,
			"fields", len(msg.Fields),
		)
	}
	return nil
}
