package chat

import (
	"encoding/json"

	"github.com/ByungJin-Lee/soop-sdk-go/internal/flexjson"
)

// Mission frames carry a single JSON field discriminated by "type".
type missionHeader struct {
	Type string `json:"type"`
}

type missionGift struct {
	UserID   string        `json:"user_id"`
	UserNick string        `json:"user_nick"`
	Count    flexjson.Uint `json:"gift_count"`
}

type missionSettle struct {
	Count flexjson.Uint `json:"settle_count"`
}

type missionBattleNotice struct {
	Draw   flexjson.Bool `json:"draw"`
	Winner string        `json:"winner"`
	Title  string        `json:"title"`
}

type missionChallengeNotice struct {
	Status string `json:"missionStatus"`
	Title  string `json:"title"`
}

// parseMission handles opcode 121. Malformed JSON or an unknown
// discriminator produces nothing.
func parseMission(m *Message) Event {
	f := m.Fields
	if len(f) < 1 {
		return nil
	}
	raw := []byte(f[0])

	var hdr missionHeader
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return nil
	}
	meta := Meta{ReceivedAt: m.ReceivedAt}

	switch hdr.Type {
	case "GIFT", "CHALLENGE_GIFT":
		var p missionGift
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil
		}
		return &MissionDonationEvent{
			Meta:      meta,
			Type:      missionTypeFor(hdr.Type),
			From:      NormalizeUserID(p.UserID),
			FromLabel: p.UserNick,
			Amount:    uint32(p.Count),
		}
	case "SETTLE", "CHALLENGE_SETTLE":
		var p missionSettle
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil
		}
		return &MissionTotalEvent{
			Meta:   meta,
			Type:   missionTypeFor(hdr.Type),
			Amount: uint32(p.Count),
		}
	case "NOTICE":
		var p missionBattleNotice
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil
		}
		return &BattleMissionResultEvent{
			Meta:   meta,
			IsDraw: bool(p.Draw),
			Winner: p.Winner,
			Title:  p.Title,
		}
	case "CHALLENGE_NOTICE":
		var p missionChallengeNotice
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil
		}
		return &ChallengeMissionResultEvent{
			Meta:      meta,
			IsSuccess: p.Status == "SUCCESS",
			Title:     p.Title,
		}
	default:
		return nil
	}
}

func missionTypeFor(discriminator string) MissionType {
	switch discriminator {
	case "CHALLENGE_GIFT", "CHALLENGE_SETTLE":
		return MissionChallenge
	default:
		return MissionBattle
	}
}
