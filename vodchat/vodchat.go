// Package vodchat parses VOD chat replay XML into the same event
// values the live chat session emits, so applications can reuse one
// event-handling path for live and recorded streams.
package vodchat

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ByungJin-Lee/soop-sdk-go/chat"
)

// broadStartLayout is the timestamp format of the station API's
// broad_start field.
const broadStartLayout = "2006-01-02 15:04:05"

// Parse reads a VOD chat replay XML document and returns the replayed
// events in document order. When broadStart parses as
// "2006-01-02 15:04:05" (UTC), event timestamps are broadStart plus the
// per-message offset; when it is empty or does not parse, the current
// time is used.
func Parse(r io.Reader, broadStart string) ([]chat.Event, error) {
	var startAt time.Time
	if broadStart != "" {
		if t, err := time.ParseInLocation(broadStartLayout, broadStart, time.UTC); err == nil {
			startAt = t
		}
	}

	dec := xml.NewDecoder(r)
	var events []chat.Event

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, fmt.Errorf("vodchat: parse: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "chat", "follow", "adballoon", "fanclub", "balloon", "challenge_mission":
			fields, err := readFields(dec, start.Name.Local)
			if err != nil {
				return events, fmt.Errorf("vodchat: element %s: %w", start.Name.Local, err)
			}
			if ev := buildEvent(start.Name.Local, fields, startAt); ev != nil {
				events = append(events, ev)
			}
		}
	}
}

// ParseString is Parse over an in-memory document.
func ParseString(doc, broadStart string) ([]chat.Event, error) {
	return Parse(strings.NewReader(doc), broadStart)
}

// readFields collects the child elements of one replay entry into a
// name → text map. Text and CDATA children are treated alike.
func readFields(dec *xml.Decoder, parent string) (map[string]string, error) {
	fields := make(map[string]string)
	var current string

	for {
		tok, err := dec.Token()
		if err != nil {
			return fields, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
		case xml.CharData:
			if current != "" {
				fields[current] += string(t)
			}
		case xml.EndElement:
			if t.Name.Local == parent {
				return fields, nil
			}
			current = ""
		}
	}
}

// buildEvent maps one replay element onto a chat event.
func buildEvent(element string, fields map[string]string, startAt time.Time) chat.Event {
	meta := chat.Meta{ReceivedAt: eventTime(startAt, fields["t"])}

	switch element {
	case "chat":
		return &chat.ChatEvent{
			Meta:    meta,
			Type:    chat.ChatCommon,
			Comment: fields["m"],
			User: chat.User{
				ID:    chat.NormalizeUserID(fields["u"]),
				Label: fields["n"],
			},
		}

	case "balloon":
		return &chat.DonationEvent{
			Meta:      meta,
			Type:      chat.DonationBalloon,
			From:      chat.NormalizeUserID(fields["u"]),
			FromLabel: fields["n"],
			Amount:    balloonAmount(fields),
		}

	case "adballoon":
		// The replay format carries no count for ad balloons; each
		// entry is one.
		return &chat.DonationEvent{
			Meta:      meta,
			Type:      chat.DonationAdBalloon,
			From:      chat.NormalizeUserID(fields["u"]),
			FromLabel: fields["n"],
			Amount:    1,
		}

	case "fanclub":
		return &chat.JoinEvent{
			Meta:   meta,
			UserID: chat.NormalizeUserID(fields["u"]),
		}

	case "follow":
		// A follow replays as a tier-one subscription.
		return &chat.SubscribeEvent{
			Meta:   meta,
			UserID: chat.NormalizeUserID(fields["u"]),
			Label:  fields["n"],
			Tier:   1,
			Renew:  0,
		}

	case "challenge_mission":
		return challengeMissionEvent(meta, fields)
	}
	return nil
}

// balloonAmount reads the donation count from the c element, falling
// back to the suffix of the "<name>_<count>" fn form found in older
// replays.
func balloonAmount(fields map[string]string) uint32 {
	if n, err := strconv.ParseUint(strings.TrimSpace(fields["c"]), 10, 32); err == nil {
		return uint32(n)
	}
	fn := fields["fn"]
	if i := strings.LastIndex(fn, "_"); i >= 0 {
		if n, err := strconv.ParseUint(strings.TrimSpace(fn[i+1:]), 10, 32); err == nil {
			return uint32(n)
		}
	}
	return 0
}

// challengeMissionEvent demultiplexes a challenge_mission entry on its
// type child: gifts and settlements replay as mission donations, the
// outcome notice as a challenge result.
func challengeMissionEvent(meta chat.Meta, fields map[string]string) chat.Event {
	switch fields["type"] {
	case "CHALLENGE_NOTICE":
		return &chat.ChallengeMissionResultEvent{
			Meta:      meta,
			IsSuccess: fields["ms"] == "SUCCESS",
			Title:     fields["title"],
		}

	case "CHALLENGE_SETTLE":
		from, label := fields["u"], fields["n"]
		if from == "" {
			from = "system"
		}
		if label == "" {
			label = "시스템"
		}
		return &chat.MissionDonationEvent{
			Meta:      meta,
			Type:      chat.MissionChallenge,
			From:      chat.NormalizeUserID(from),
			FromLabel: label,
			Amount:    uint32(parseUint(fields["c"])),
		}

	default:
		// CHALLENGE_GIFT, and unrecognized types for forward
		// compatibility.
		return &chat.MissionDonationEvent{
			Meta:      meta,
			Type:      chat.MissionChallenge,
			From:      chat.NormalizeUserID(fields["u"]),
			FromLabel: fields["n"],
			Amount:    uint32(parseUint(fields["c"])),
		}
	}
}

// eventTime converts a replay offset (fractional seconds from broadcast
// start) into a wall-clock timestamp.
func eventTime(startAt time.Time, offset string) time.Time {
	if startAt.IsZero() {
		return time.Now().UTC()
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(offset), 64)
	if err != nil {
		return startAt
	}
	return startAt.Add(time.Duration(secs * float64(time.Second)))
}

func parseUint(s string) uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
