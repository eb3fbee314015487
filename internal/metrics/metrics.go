// Package metrics exposes Prometheus counters for the SDK's wire and
// channel activity. Counters register on the default registry; embed
// promhttp in the consuming application to scrape them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesDecoded counts inbound frames decoded successfully.
	FramesDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soop_chat_frames_decoded_total",
		Help: "Total chat frames decoded from the WebSocket.",
	})

	// FramesMalformed counts inbound frames rejected by the codec.
	FramesMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soop_chat_frames_malformed_total",
		Help: "Total chat frames rejected as malformed.",
	})

	// FrameLengthMismatch counts frames whose declared body length
	// disagreed with the actual byte count.
	FrameLengthMismatch = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soop_chat_frame_length_mismatch_total",
		Help: "Total frames whose declared body length did not match the payload.",
	})

	// FramesSent counts outbound frames written to the WebSocket.
	FramesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soop_chat_frames_sent_total",
		Help: "Total chat frames written to the WebSocket.",
	})

	// EventsDropped counts events discarded because a subscriber's
	// channel was full.
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soop_chat_events_dropped_total",
		Help: "Total events dropped due to slow subscribers.",
	})

	// CommandsRejected counts commands rejected by a full queue.
	CommandsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soop_chat_commands_rejected_total",
		Help: "Total commands rejected due to a full command queue.",
	})

	// Reconnects counts reconnection attempts made by the resilience
	// layer.
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soop_chat_reconnects_total",
		Help: "Total reconnection attempts.",
	})
)
