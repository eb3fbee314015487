package chat

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ByungJin-Lee/soop-sdk-go/internal/metrics"
)

// Frame layout: starter(2) + opcode(4 ASCII digits) + bodyLen(6 ASCII
// digits) + reserved(2) followed by the body. The body, when present,
// begins with a leading sep byte; the remaining bytes are sep-separated
// UTF-8 fields.
const headerLen = 14

// Encode limits. Opcodes are four decimal digits on the wire and the
// body length field holds six.
const (
	maxOpcode   = 9999
	maxBodyLen  = 1_000_000 - 1
	reservedHdr = "00"
)

// Message is a decoded inbound frame. Fields preserve order and empty
// entries; field counts are significant to the per-opcode parsers.
type Message struct {
	Opcode     uint32
	RetCode    uint32
	Fields     []string
	ReceivedAt time.Time
}

// Encode packs opcode and body into a wire frame. It rejects opcodes
// that do not fit in four digits and bodies that do not fit in six.
func Encode(opcode uint32, body []byte) ([]byte, error) {
	if opcode > maxOpcode {
		return nil, fmt.Errorf("chat: opcode %d out of range", opcode)
	}
	if len(body) > maxBodyLen {
		return nil, fmt.Errorf("chat: body length %d out of range", len(body))
	}

	buf := make([]byte, 0, headerLen+len(body))
	buf = append(buf, starter...)
	buf = appendPadded(buf, int(opcode), 4)
	buf = appendPadded(buf, len(body), 6)
	buf = append(buf, reservedHdr...)
	buf = append(buf, body...)
	return buf, nil
}

// Decode parses a wire frame into a Message. Numeric header fields are
// tolerant: non-numeric bytes decode as 0. The declared body length is
// advisory only — the actual byte count wins, with a warning when the
// two disagree.
func Decode(data []byte) (*Message, error) {
	now := time.Now().UTC()

	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidFrame, len(data))
	}

	opcode := atoiOrZero(data[2:6])
	retCode := atoiOrZero(data[12:14])

	body := data[headerLen:]
	if declared := atoiOrZero(data[6:12]); int(declared) != len(body) {
		metrics.FrameLengthMismatch.Inc()
		slog.Warn("frame body length mismatch",
			"opcode", opcode,
			"declared", declared,
			"actual", len(body),
		)
	}

	return &Message{
		Opcode:     opcode,
		RetCode:    retCode,
		Fields:     splitBody(body),
		ReceivedAt: now,
	}, nil
}

// splitBody drops the leading separator byte and splits the remainder
// into lossy-UTF-8 fields. Bodies shorter than two bytes carry no
// fields at all.
func splitBody(body []byte) []string {
	if len(body) < 2 {
		return nil
	}
	parts := bytes.Split(body[1:], []byte{sep})
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.ToValidUTF8(string(p), "�")
	}
	return fields
}

// appendPadded appends n as zero-filled ASCII decimal of the given width.
func appendPadded(buf []byte, n, width int) []byte {
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, s...)
}

// atoiOrZero decodes ASCII decimal bytes, returning 0 on any garbage.
func atoiOrZero(b []byte) uint32 {
	n, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}
