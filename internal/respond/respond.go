// Package respond builds voice platform response envelopes.
package respond

import "bitbucket.org/sotavant/solar-skill/internal/models"

// Simple builds an envelope with plain text speech. The reprompt is only
// emitted while the session stays open; an open session without reprompt
// text reuses the speech so the platform always has something to repeat.
func Simple(speech string, endSession bool, reprompt string, attributes map[string]any) *models.Response {
	if attributes == nil {
		attributes = map[string]any{}
	}

	payload := models.ResponsePayload{
		OutputSpeech:     plainText(speech),
		ShouldEndSession: endSession,
	}

	if !endSession {
		if reprompt == "" {
			reprompt = speech
		}
		payload.Reprompt = &models.Reprompt{OutputSpeech: plainText(reprompt)}
	}

	return &models.Response{
		Version:           models.Version,
		SessionAttributes: attributes,
		Response:          payload,
	}
}

// Ask speaks and keeps the session open.
func Ask(speech, reprompt string, attributes ...map[string]any) *models.Response {
	return Simple(speech, false, reprompt, first(attributes))
}

// Tell speaks and ends the session.
func Tell(speech string, attributes ...map[string]any) *models.Response {
	return Simple(speech, true, "", first(attributes))
}

// Empty is the body returned when a request needs no envelope.
func Empty() struct{} {
	return struct{}{}
}

func plainText(text string) models.OutputSpeech {
	return models.OutputSpeech{Type: models.SpeechPlainText, Text: text}
}

func first(attributes []map[string]any) map[string]any {
	if len(attributes) == 0 {
		return nil
	}
	return attributes[0]
}
