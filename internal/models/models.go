package models

const (
	TypeLaunchRequest       = "LaunchRequest"
	TypeIntentRequest       = "IntentRequest"
	TypeSessionEndedRequest = "SessionEndedRequest"

	SpeechPlainText = "PlainText"
	Version         = "1.0"
)

// Request describes an incoming voice platform event.
type Request struct {
	Version string      `json:"version"`
	Session *Session    `json:"session,omitempty"`
	Request RequestBody `json:"request"`
}

type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	User        User           `json:"user"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID string `json:"userId"`
}

// RequestBody is the typed part of the event. Intent is set for
// IntentRequest only; Reason and Error for SessionEndedRequest only.
type RequestBody struct {
	Type      string        `json:"type"`
	RequestID string        `json:"requestId"`
	Timestamp string        `json:"timestamp"`
	Locale    string        `json:"locale"`
	Intent    *Intent       `json:"intent,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Error     *SessionError `json:"error,omitempty"`
}

type Intent struct {
	Name               string          `json:"name"`
	ConfirmationStatus string          `json:"confirmationStatus,omitempty"`
	Slots              map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name               string `json:"name"`
	Value              string `json:"value,omitempty"`
	ConfirmationStatus string `json:"confirmationStatus,omitempty"`
}

type SessionError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// IntentName returns the intent name or "" when the request carries none.
func (r *Request) IntentName() string {
	if r == nil || r.Request.Intent == nil {
		return ""
	}
	return r.Request.Intent.Name
}

// Response describes the envelope returned to the voice platform.
type Response struct {
	Version           string          `json:"version"`
	SessionAttributes map[string]any  `json:"sessionAttributes"`
	Response          ResponsePayload `json:"response"`
}

type ResponsePayload struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	ShouldEndSession bool         `json:"shouldEndSession"`
	Reprompt         *Reprompt    `json:"reprompt,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}
