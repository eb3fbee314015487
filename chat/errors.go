package chat

import "errors"

// Sentinel errors callers are expected to branch on with errors.Is.
var (
	// ErrStreamOffline is returned when the resolved channel is not live.
	ErrStreamOffline = errors.New("chat: stream is offline")

	// ErrAlreadyStarted is returned by Start when the session task has
	// already been launched. A Conn drives exactly one session.
	ErrAlreadyStarted = errors.New("chat: session already started")

	// ErrChannelFull is returned when a command cannot be enqueued
	// without blocking.
	ErrChannelFull = errors.New("chat: command queue full")

	// ErrInvalidFrame is returned by Decode for frames shorter than the
	// fixed header.
	ErrInvalidFrame = errors.New("chat: invalid frame")

	// ErrNotStarted is returned when a command is submitted after the
	// session has terminated.
	ErrNotStarted = errors.New("chat: session not running")
)
