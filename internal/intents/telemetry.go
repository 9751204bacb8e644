package intents

import (
	"bitbucket.org/sotavant/solar-skill/internal/format"
	"bitbucket.org/sotavant/solar-skill/internal/models"
	"bitbucket.org/sotavant/solar-skill/internal/remote"
	"bitbucket.org/sotavant/solar-skill/internal/respond"
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"strings"
)

const (
	fieldCurrentPower    = "currentPowerW"
	fieldDailyProduction = "dailyProductionKWh"
	fieldOnline          = "isOnline"

	unavailableSpeech = "The solar monitor service seems to be temporarily unavailable. Please try again soon."
	timeoutSpeech     = "The request to the solar monitor timed out. Please try again."
	connectSpeech     = "Sorry, I couldn't connect to the solar monitor right now."
	incompleteSpeech  = "Sorry, I received an incomplete response from the solar monitor. Please try again later."
	badFormatSpeech   = "Sorry, I received unexpected data format from the solar monitor. Please try again later."
)

type fieldState int

const (
	fieldOK fieldState = iota
	fieldMissing
	fieldWrongType
)

func numberField(res remote.Result, name string) (float64, fieldState) {
	v, ok := res[name]
	if !ok {
		return 0, fieldMissing
	}
	n, ok := v.(float64)
	if !ok {
		return 0, fieldWrongType
	}
	return n, fieldOK
}

func boolField(res remote.Result, name string) (bool, fieldState) {
	v, ok := res[name]
	if !ok {
		return false, fieldMissing
	}
	b, ok := v.(bool)
	if !ok {
		return false, fieldWrongType
	}
	return b, fieldOK
}

// failureSpeech holds what to say for each class of transport failure.
type failureSpeech struct {
	unavailable string
	serverError string
	timeout     string
	generic     string
}

func (f failureSpeech) speechFor(err error) string {
	var rerr *remote.Error
	if errors.As(err, &rerr) {
		switch {
		case rerr.StatusCode == 503:
			return f.unavailable
		case rerr.StatusCode >= 500:
			return f.serverError
		case rerr.Kind == remote.KindTimeout:
			return f.timeout
		}
		return f.generic
	}

	if strings.Contains(strings.ToLower(err.Error()), "timed out") {
		return f.timeout
	}
	return f.generic
}

func fetch(ctx context.Context, log *zap.Logger, caller remote.Caller, cfg Config, dataType string) (remote.Result, error) {
	payload := remote.Payload{Action: remote.ActionGetSolarData, DataType: dataType}
	log.Info("calling remote function", zap.Any("payload", payload))

	res, err := caller.Call(ctx, cfg.TargetAudience, cfg.BearerToken, payload, log)
	if err != nil {
		return nil, err
	}

	log.Debug("received response from remote function", zap.Any("result", res))
	return res, nil
}

func logFailure(log *zap.Logger, intent string, err error) {
	fields := []zap.Field{zap.Error(err)}
	var rerr *remote.Error
	if errors.As(err, &rerr) {
		fields = append(fields,
			zap.Stringer("kind", rerr.Kind),
			zap.Int("statusCode", rerr.StatusCode),
			zap.String("responseBody", rerr.Body),
		)
	}
	log.Error(fmt.Sprintf("error calling remote function for %s", intent), fields...)
}

var currentPowerFailures = failureSpeech{
	unavailable: unavailableSpeech,
	serverError: "There was a problem retrieving the current power data from the backend.",
	timeout:     timeoutSpeech,
	generic:     connectSpeech,
}

func handleCurrentPower(ctx context.Context, _ *models.Request, log *zap.Logger, caller remote.Caller, cfg Config) (*models.Response, error) {
	log.Info("handling current power intent")

	res, err := fetch(ctx, log, caller, cfg, remote.DataCurrent)
	if err != nil {
		logFailure(log, IntentCurrentPower, err)
		return respond.Tell(currentPowerFailures.speechFor(err)), nil
	}

	watts, state := numberField(res, fieldCurrentPower)
	switch state {
	case fieldMissing:
		log.Error("remote response is missing currentPowerW", zap.Any("result", res))
		return respond.Tell(incompleteSpeech), nil
	case fieldWrongType:
		log.Error("remote response field currentPowerW is not a number", zap.Any("result", res))
		return respond.Tell(badFormatSpeech), nil
	}

	return respond.Tell(fmt.Sprintf("Your current solar production is %s.", format.Power(watts))), nil
}

var dailyProductionFailures = failureSpeech{
	unavailable: unavailableSpeech,
	serverError: "There was a problem retrieving the daily production data from the backend.",
	timeout:     timeoutSpeech,
	generic:     connectSpeech,
}

func handleDailyProduction(ctx context.Context, _ *models.Request, log *zap.Logger, caller remote.Caller, cfg Config) (*models.Response, error) {
	log.Info("handling daily production intent")

	res, err := fetch(ctx, log, caller, cfg, remote.DataDaily)
	if err != nil {
		logFailure(log, IntentDailyProduction, err)
		return respond.Tell(dailyProductionFailures.speechFor(err)), nil
	}

	kWh, state := numberField(res, fieldDailyProduction)
	switch state {
	case fieldMissing:
		log.Error("remote response is missing dailyProductionKWh", zap.Any("result", res))
		return respond.Tell(incompleteSpeech), nil
	case fieldWrongType:
		log.Error("remote response field dailyProductionKWh is not a number", zap.Any("result", res))
		return respond.Tell(badFormatSpeech), nil
	}

	return respond.Tell(fmt.Sprintf("Your total solar production for the day is %s.", format.Energy(kWh))), nil
}

var onlineStatusFailures = failureSpeech{
	unavailable: unavailableSpeech,
	serverError: "There was a problem retrieving the system status from the backend.",
	timeout:     timeoutSpeech,
	generic:     "Sorry, I couldn't retrieve the system status right now. There might be a connection issue. Please try again later.",
}

func handleOnlineStatus(ctx context.Context, _ *models.Request, log *zap.Logger, caller remote.Caller, cfg Config) (*models.Response, error) {
	log.Info("handling online status intent")

	res, err := fetch(ctx, log, caller, cfg, remote.DataStatus)
	if err != nil {
		logFailure(log, IntentOnlineStatus, err)
		return respond.Tell(onlineStatusFailures.speechFor(err)), nil
	}

	online, state := boolField(res, fieldOnline)
	switch state {
	case fieldMissing:
		log.Error("remote response is missing isOnline", zap.Any("result", res))
		return respond.Tell("Sorry, I received an incomplete response from the solar monitor. I can't determine if it's online right now."), nil
	case fieldWrongType:
		log.Error("remote response field isOnline is not a boolean", zap.Any("result", res))
		return respond.Tell("Sorry, I received an unexpected status format from the system. I can't determine if it's online right now."), nil
	}

	if online {
		return respond.Tell("The solar energy system is currently online and reporting data."), nil
	}
	return respond.Tell("The solar energy system is currently reporting as offline."), nil
}
