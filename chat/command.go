package chat

// Command is an instruction submitted to the running session task.
type Command interface {
	isCommand()
}

// SendChat asks the session to post a chat message to the room.
type SendChat struct {
	Message string
}

// Shutdown asks the session to close the socket and terminate cleanly.
type Shutdown struct{}

func (SendChat) isCommand() {}
func (Shutdown) isCommand() {}
