package types

// CommandKind identifies the action a parsed update resolves to.
type CommandKind string

const (
	KindStart       CommandKind = "start"
	KindHelp        CommandKind = "help"
	KindPrice       CommandKind = "price"
	KindTrending    CommandKind = "trending"
	KindFunds       CommandKind = "funds"
	KindDrophunting CommandKind = "drophunting"
	KindFreeText    CommandKind = "free_text"
)

// TextMessage is an inbound chat message.
type TextMessage struct {
	ChatID   int64  `json:"chat_id"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// ButtonPress is an inline-button tap echoed back by the transport.
type ButtonPress struct {
	ChatID      int64  `json:"chat_id"`
	MessageID   int    `json:"message_id"`
	CallbackID  string `json:"callback_id"`
	ActionToken string `json:"action_token"`
}

// InboundUpdate is one inbound chat event. Exactly one of Message and
// Button is set.
type InboundUpdate struct {
	Message *TextMessage
	Button  *ButtonPress
}

// CommandRequest is the classified form of an update. Argument is set for
// price lookups (ticker symbols, uppercased), trending presets and
// drophunting status filters.
type CommandRequest struct {
	Kind     CommandKind
	Argument string
}

// Button is one inline action attached to a reply.
type Button struct {
	Label       string
	ActionToken string
}

// ReplyPayload is the terminal reply shape handed to the transport.
// A non-zero MessageID means edit-in-place instead of a new message.
type ReplyPayload struct {
	ChatID    int64
	MessageID int
	Text      string
	Buttons   []Button
}
