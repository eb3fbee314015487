// Package soop is an SDK for the SOOP live-streaming platform. It
// provides the REST metadata client (live detail, station info,
// signature emoticons, VOD listings) and, through the chat subpackage,
// a real-time chat session client.
package soop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ByungJin-Lee/soop-sdk-go/chat"
	"github.com/ByungJin-Lee/soop-sdk-go/internal/httpkit"
)

// Production endpoints. Override with WithBaseURLs in tests.
const (
	defaultLiveAPIURL     = "https://live.sooplive.co.kr/afreeca/player_live_api.php"
	defaultEmoticonAPIURL = "https://live.sooplive.co.kr/api/signature_emoticon_api.php"
	defaultChAPIBaseURL   = "https://chapi.sooplive.co.kr"
)

// responseLimit caps how much of an API response body is decoded.
const responseLimit = 4 << 20

// Client talks to the SOOP REST APIs. It implements chat.LiveResolver.
type Client struct {
	http           *http.Client
	logger         *slog.Logger
	liveAPIURL     string
	emoticonAPIURL string
	chAPIBaseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the client logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithBaseURLs overrides the API endpoints. Empty strings keep the
// production defaults.
func WithBaseURLs(liveAPI, emoticonAPI, chAPIBase string) Option {
	return func(c *Client) {
		if liveAPI != "" {
			c.liveAPIURL = liveAPI
		}
		if emoticonAPI != "" {
			c.emoticonAPIURL = emoticonAPI
		}
		if chAPIBase != "" {
			c.chAPIBaseURL = strings.TrimRight(chAPIBase, "/")
		}
	}
}

// NewClient creates a SOOP REST client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		logger:         slog.Default(),
		liveAPIURL:     defaultLiveAPIURL,
		emoticonAPIURL: defaultEmoticonAPIURL,
		chAPIBaseURL:   defaultChAPIBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = httpkit.NewClient(
			httpkit.WithRetry(2, 500*time.Millisecond),
			httpkit.WithLogger(c.logger),
		)
	}
	return c
}

// LiveDetail fetches the current broadcast state for a streamer. An
// offline channel returns IsLive false with no error.
func (c *Client) LiveDetail(ctx context.Context, streamerID string) (*LiveDetail, error) {
	form := url.Values{"bid": {streamerID}}
	reqURL := c.liveAPIURL + "?bjid=" + url.QueryEscape(streamerID)

	var raw rawLiveDetail
	if err := c.postForm(ctx, reqURL, form, &raw); err != nil {
		return nil, fmt.Errorf("live detail for %s: %w", streamerID, err)
	}

	if raw.Channel.Result != 1 {
		return &LiveDetail{IsLive: false}, nil
	}
	return &LiveDetail{
		IsLive:       true,
		ChatHost:     raw.Channel.ChDomain,
		ChatPort:     int(raw.Channel.ChPt),
		RoomID:       raw.Channel.ChatNo,
		StreamerNick: raw.Channel.BJNick,
		Title:        raw.Channel.Title,
		Categories:   raw.Channel.Categories,
	}, nil
}

// ResolveLive implements chat.LiveResolver.
func (c *Client) ResolveLive(ctx context.Context, streamerID string) (*chat.LiveDetail, error) {
	detail, err := c.LiveDetail(ctx, streamerID)
	if err != nil {
		return nil, err
	}
	return &chat.LiveDetail{
		IsLive:       detail.IsLive,
		ChatHost:     detail.ChatHost,
		ChatPort:     detail.ChatPort,
		RoomID:       detail.RoomID,
		StreamerNick: detail.StreamerNick,
		Title:        detail.Title,
		Categories:   detail.Categories,
	}, nil
}

// Station fetches a channel's station page summary.
func (c *Client) Station(ctx context.Context, streamerID string) (*Station, error) {
	reqURL := fmt.Sprintf("%s/api/%s/station", c.chAPIBaseURL, url.PathEscape(streamerID))

	var raw rawStation
	if err := c.get(ctx, reqURL, &raw); err != nil {
		return nil, fmt.Errorf("station for %s: %w", streamerID, err)
	}
	return &Station{
		BroadStart:  raw.Station.BroadStart,
		IsPassword:  bool(raw.Broad.IsPassword),
		ViewerCount: uint64(raw.Broad.ViewerCount),
		Title:       raw.Broad.Title,
	}, nil
}

// SignatureEmoticons fetches a streamer's tiered signature emoticon
// catalog.
func (c *Client) SignatureEmoticons(ctx context.Context, streamerID string) (*SignatureEmoticons, error) {
	form := url.Values{
		"szBjId": {streamerID},
		"work":   {"list"},
		"v":      {"tier"},
	}

	var raw rawSignatureEmoticonResponse
	if err := c.postForm(ctx, c.emoticonAPIURL, form, &raw); err != nil {
		return nil, fmt.Errorf("signature emoticons for %s: %w", streamerID, err)
	}
	return &raw.Data, nil
}

// VODs fetches a streamer's public VOD listing.
func (c *Client) VODs(ctx context.Context, streamerID string) ([]VOD, error) {
	reqURL := fmt.Sprintf("%s/api/%s/vods/review", c.chAPIBaseURL, url.PathEscape(streamerID))

	var raw rawVODResponse
	if err := c.get(ctx, reqURL, &raw); err != nil {
		return nil, fmt.Errorf("vods for %s: %w", streamerID, err)
	}

	vods := make([]VOD, 0, len(raw.Data))
	for _, v := range raw.Data {
		if v.AuthNo != publicVODAuth {
			continue
		}
		vods = append(vods, VOD{
			ID:           uint64(v.TitleNo),
			Title:        v.TitleName,
			ThumbnailURL: "https:" + v.UCC.Thumb,
			Duration:     uint64(v.UCC.TotalFileDuration),
		})
	}
	return vods, nil
}

// VODDetail fetches one VOD's metadata including its chat replay file
// URLs.
func (c *Client) VODDetail(ctx context.Context, vodID string) (*VODDetail, error) {
	reqURL := fmt.Sprintf("%s/api/vod/%s", c.chAPIBaseURL, url.PathEscape(vodID))

	var raw rawVODDetailResponse
	if err := c.get(ctx, reqURL, &raw); err != nil {
		return nil, fmt.Errorf("vod detail for %s: %w", vodID, err)
	}
	if raw.Result != 1 || raw.Data == nil {
		return nil, fmt.Errorf("vod detail for %s: not found", vodID)
	}

	d := raw.Data
	detail := &VODDetail{
		ID:         fmt.Sprintf("%d", uint64(d.TitleNo)),
		Title:      d.FullTitle,
		ChannelID:  d.BJID,
		BroadStart: d.BroadStart,
		Files:      make([]VODFile, 0, len(d.Files)),
	}
	for _, f := range d.Files {
		detail.Files = append(detail.Files, VODFile{
			ID:        uint64(f.Idx),
			Order:     uint64(f.FileOrder),
			FileKey:   f.FileInfoKey,
			FileStart: f.FileStart,
			Chat:      f.Chat,
			Duration:  uint64(f.Duration),
		})
	}
	return detail, nil
}

// get issues a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// postForm issues a form-encoded POST and decodes the JSON response
// into out.
func (c *Client) postForm(ctx context.Context, reqURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer httpkit.DrainAndClose(resp.Body, responseLimit)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s",
			resp.StatusCode, httpkit.ReadErrorBody(resp.Body, 512))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseLimit)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
