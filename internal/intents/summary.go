package intents

import (
	"bitbucket.org/sotavant/solar-skill/internal/format"
	"bitbucket.org/sotavant/solar-skill/internal/models"
	"bitbucket.org/sotavant/solar-skill/internal/remote"
	"bitbucket.org/sotavant/solar-skill/internal/respond"
	"context"
	"go.uber.org/zap"
	"strings"
)

const (
	partialSummaryPrefix = "Here's a partial summary: "
	noSummarySpeech      = "Sorry, I couldn't parse any summary information from the system's response."
	emptySummarySpeech   = "Sorry, I received an empty response from the system. I can't provide a summary right now."
)

var summaryFailures = failureSpeech{
	unavailable: unavailableSpeech,
	serverError: "Sorry, there seems to be an issue with the solar system's reporting service. Please try again later.",
	timeout:     "Sorry, the request to your solar system timed out. Please try again later.",
	generic:     "Sorry, I couldn't retrieve the system summary right now due to a connection issue. Please try again later.",
}

// summarize builds one phrase per field; a bad field never stops the others.
func summarize(res remote.Result, log *zap.Logger) (parts []string, failed int) {
	if watts, state := numberField(res, fieldCurrentPower); state == fieldOK {
		parts = append(parts, "Currently generating "+format.Power(watts)+".")
	} else {
		log.Warn("currentPowerW missing or not a number in summary response", zap.Any("result", res))
		parts = append(parts, "Couldn't determine the current power generation.")
		failed++
	}

	if kWh, state := numberField(res, fieldDailyProduction); state == fieldOK {
		if kWh > 0 {
			parts = append(parts, "Today's production is "+format.Energy(kWh)+" so far.")
		} else {
			parts = append(parts, "There has been no production recorded yet today.")
		}
	} else {
		log.Warn("dailyProductionKWh missing or not a number in summary response", zap.Any("result", res))
		parts = append(parts, "Couldn't determine today's production data.")
		failed++
	}

	if online, state := boolField(res, fieldOnline); state == fieldOK {
		if online {
			parts = append(parts, "The system is online.")
		} else {
			parts = append(parts, "The system is reporting as offline.")
		}
	} else {
		log.Warn("isOnline missing or not a boolean in summary response", zap.Any("result", res))
		parts = append(parts, "Couldn't determine the system's online status.")
		failed++
	}

	return parts, failed
}

func handleSummary(ctx context.Context, _ *models.Request, log *zap.Logger, caller remote.Caller, cfg Config) (*models.Response, error) {
	log.Info("handling summary intent")

	res, err := fetch(ctx, log, caller, cfg, remote.DataSummary)
	if err != nil {
		logFailure(log, IntentSummary, err)
		return respond.Tell(summaryFailures.speechFor(err)), nil
	}

	if res == nil {
		log.Warn("received empty summary response")
		return respond.Tell(emptySummarySpeech), nil
	}

	parts, failed := summarize(res, log)

	var speech string
	switch {
	case failed == len(parts):
		speech = noSummarySpeech
	case failed > 0:
		speech = partialSummaryPrefix + strings.Join(parts, " ")
	default:
		speech = strings.Join(parts, " ")
	}

	log.Info("summary speech constructed", zap.Int("failedFields", failed))
	return respond.Tell(speech), nil
}
