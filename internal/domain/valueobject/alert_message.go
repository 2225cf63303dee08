package valueobject

import "strings"

// AlertMessage is a flash message encoded as "KIND text", e.g.
// "SUCCESS Feed has been added".
type AlertMessage struct {
	Kind string
	Text string
}

const (
	AlertSuccess = "SUCCESS"
	AlertInfo    = "INFO"
	AlertError   = "ERROR"
)

func NewAlertMessage(kind, text string) AlertMessage {
	return AlertMessage{Kind: strings.ToLower(kind), Text: text}
}

// ParseAlertMessage splits the encoded form. A message without a kind keeps
// its whole text and an empty kind.
func ParseAlertMessage(raw string) AlertMessage {
	raw = strings.TrimSpace(raw)
	kind, text, found := strings.Cut(raw, " ")
	if !found {
		return AlertMessage{Text: raw}
	}
	return AlertMessage{Kind: strings.ToLower(kind), Text: text}
}

func (m AlertMessage) IsZero() bool {
	return m.Text == ""
}

// Encode is the inverse of ParseAlertMessage.
func (m AlertMessage) Encode() string {
	if m.Kind == "" {
		return m.Text
	}
	return strings.ToUpper(m.Kind) + " " + m.Text
}

// CSSClass returns the classes of the rendered alert box.
func (m AlertMessage) CSSClass() string {
	if m.Kind == "" {
		return "alert"
	}
	return "alert alert--" + m.Kind
}
