package model

// ActionKind tags an OutboundAction.
type ActionKind int

const (
	ActionSendText ActionKind = iota + 1
	ActionEditButtons
	ActionAckButton
)

func (k ActionKind) String() string {
	switch k {
	case ActionSendText:
		return "send_text"
	case ActionEditButtons:
		return "edit_buttons"
	case ActionAckButton:
		return "ack_button"
	default:
		return "unknown"
	}
}

// ParseModeMarkdown asks the transport to render legacy Markdown.
const ParseModeMarkdown = "Markdown"

// OutboundAction describes one platform call for the transport to perform.
type OutboundAction struct {
	Kind          ActionKind
	ChatID        int64
	Text          string
	ParseMode     string
	Markup        *Markup
	MessageID     int
	CallbackAckID string
}

func SendText(chatID int64, text string, markup *Markup) OutboundAction {
	return OutboundAction{Kind: ActionSendText, ChatID: chatID, Text: text, Markup: markup}
}

func SendMarkdown(chatID int64, text string, markup *Markup) OutboundAction {
	a := SendText(chatID, text, markup)
	a.ParseMode = ParseModeMarkdown
	return a
}

func EditButtons(chatID int64, messageID int, markup *Markup) OutboundAction {
	return OutboundAction{Kind: ActionEditButtons, ChatID: chatID, MessageID: messageID, Markup: markup}
}

func AckButton(ackID, transientText string) OutboundAction {
	return OutboundAction{Kind: ActionAckButton, CallbackAckID: ackID, Text: transientText}
}

// Button is one inline button; Token is echoed back on press.
type Button struct {
	Text  string
	Token string
}

// Markup is a grid of inline buttons.
type Markup struct {
	Rows [][]Button
}

// NewMarkup builds a markup with one button per row.
func NewMarkup(buttons ...Button) *Markup {
	m := &Markup{Rows: make([][]Button, 0, len(buttons))}
	for _, b := range buttons {
		m.Rows = append(m.Rows, []Button{b})
	}
	return m
}

// Row appends a row of buttons and returns m for chaining.
func (m *Markup) Row(buttons ...Button) *Markup {
	if len(buttons) > 0 {
		m.Rows = append(m.Rows, buttons)
	}
	return m
}
