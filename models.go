package soop

import "github.com/ByungJin-Lee/soop-sdk-go/internal/flexjson"

// LiveDetail is the resolved broadcast metadata for a streamer.
type LiveDetail struct {
	IsLive       bool     `json:"isLive"`
	ChatHost     string   `json:"chatHost"`
	ChatPort     int      `json:"chatPort"`
	RoomID       string   `json:"roomId"`
	StreamerNick string   `json:"streamerNick"`
	Title        string   `json:"title"`
	Categories   []string `json:"categories"`
}

// rawLiveDetail is the player live API response shape.
type rawLiveDetail struct {
	Channel struct {
		Result     flexjson.Int  `json:"RESULT"`
		ChDomain   string        `json:"CHDOMAIN"`
		ChPt       flexjson.Uint `json:"CHPT"`
		ChatNo     string        `json:"CHATNO"`
		BJNick     string        `json:"BJNICK"`
		Title      string        `json:"TITLE"`
		Categories []string      `json:"CATEGORY_TAGS"`
	} `json:"CHANNEL"`
}

// Station is a channel's station page summary.
type Station struct {
	BroadStart  string `json:"broadStart"`
	IsPassword  bool   `json:"isPassword"`
	ViewerCount uint64 `json:"viewerCount"`
	Title       string `json:"title"`
}

// rawStation is the station API response shape.
type rawStation struct {
	Station struct {
		BroadStart string `json:"broad_start"`
	} `json:"station"`
	Broad struct {
		IsPassword  flexjson.Bool `json:"is_password"`
		ViewerCount flexjson.Uint `json:"current_sum_viewer"`
		Title       string        `json:"broad_title"`
	} `json:"broad"`
}

// SignatureEmoticon is one entry of a streamer's signature emoticon
// catalog.
type SignatureEmoticon struct {
	Title       string `json:"title"`
	PCImage     string `json:"pc_img"`
	MobileImage string `json:"mobile_img"`
}

// SignatureEmoticons is the tiered signature emoticon catalog.
type SignatureEmoticons struct {
	Tier1 []SignatureEmoticon `json:"tier1"`
	Tier2 []SignatureEmoticon `json:"tier2"`
}

type rawSignatureEmoticonResponse struct {
	Result flexjson.Int       `json:"result"`
	Data   SignatureEmoticons `json:"data"`
}

// VOD is a single entry of a streamer's VOD listing.
type VOD struct {
	ID           uint64 `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     uint64 `json:"duration"`
}

// publicVODAuth marks VODs visible without login in the listing API.
const publicVODAuth = 101

type rawVODResponse struct {
	Data []struct {
		TitleNo   flexjson.Uint `json:"title_no"`
		TitleName string        `json:"title_name"`
		AuthNo    flexjson.Int  `json:"auth_no"`
		UCC       struct {
			Thumb             string        `json:"thumb"`
			TotalFileDuration flexjson.Uint `json:"total_file_duration"`
		} `json:"ucc"`
	} `json:"data"`
}

// VODDetail is the per-VOD metadata including its replay chat files.
type VODDetail struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ChannelID  string    `json:"channelId"`
	BroadStart string    `json:"broadStart"`
	Files      []VODFile `json:"files"`
}

// VODFile is one media segment of a VOD with its chat replay URL.
type VODFile struct {
	ID        uint64 `json:"id"`
	Order     uint64 `json:"order"`
	FileKey   string `json:"fileKey"`
	FileStart string `json:"fileStart"`
	Chat      string `json:"chat"`
	Duration  uint64 `json:"duration"`
}

type rawVODDetailResponse struct {
	Result flexjson.Int `json:"result"`
	Data   *struct {
		TitleNo    flexjson.Uint `json:"title_no"`
		FullTitle  string        `json:"full_title"`
		BJID       string        `json:"bj_id"`
		BroadStart string        `json:"broad_start"`
		Files      []struct {
			Idx         flexjson.Uint `json:"idx"`
			FileOrder   flexjson.Uint `json:"file_order"`
			FileInfoKey string        `json:"file_info_key"`
			FileStart   string        `json:"file_start"`
			Chat        string        `json:"chat"`
			Duration    flexjson.Uint `json:"duration"`
		} `json:"files"`
	} `json:"data"`
}
