// Package intents maps voice requests to handlers and implements them.
package intents

import (
	"bitbucket.org/sotavant/solar-skill/internal/models"
	"bitbucket.org/sotavant/solar-skill/internal/remote"
	"context"
	"go.uber.org/zap"
)

const (
	IntentCurrentPower    = "GetCurrentPowerIntent"
	IntentDailyProduction = "GetDailyProductionIntent"
	IntentOnlineStatus    = "GetOnlineStatusIntent"
	IntentSummary         = "GetSummaryIntent"
	IntentHelp            = "AMAZON.HelpIntent"
	IntentStop            = "AMAZON.StopIntent"
	IntentCancel          = "AMAZON.CancelIntent"
	IntentFallback        = "AMAZON.FallbackIntent"
)

// Config is built once per invocation after authentication succeeds.
type Config struct {
	TargetAudience string
	BearerToken    string
}

// HandlerFunc produces the envelope for one request. A nil envelope with a
// nil error means the request needs no response body.
type HandlerFunc func(ctx context.Context, req *models.Request, log *zap.Logger, caller remote.Caller, cfg Config) (*models.Response, error)

type Kind string

const (
	KindLaunch          Kind = "launch"
	KindSessionEnded    Kind = "session_ended"
	KindCurrentPower    Kind = "current_power"
	KindDailyProduction Kind = "daily_production"
	KindOnlineStatus    Kind = "online_status"
	KindSummary         Kind = "summary"
	KindHelp            Kind = "help"
	KindStopCancel      Kind = "stop_cancel"
	KindFallback        Kind = "fallback"
)

// Handler is a routing target tagged with its kind.
type Handler struct {
	Kind  Kind
	Serve HandlerFunc
}

var (
	launchHandler       = Handler{Kind: KindLaunch, Serve: handleLaunch}
	sessionEndedHandler = Handler{Kind: KindSessionEnded, Serve: handleSessionEnded}
	fallbackHandler     = Handler{Kind: KindFallback, Serve: handleFallback}
	stopCancelHandler   = Handler{Kind: KindStopCancel, Serve: handleStopOrCancel}
)

var intentTable = map[string]Handler{
	IntentCurrentPower:    {Kind: KindCurrentPower, Serve: handleCurrentPower},
	IntentDailyProduction: {Kind: KindDailyProduction, Serve: handleDailyProduction},
	IntentOnlineStatus:    {Kind: KindOnlineStatus, Serve: handleOnlineStatus},
	IntentSummary:         {Kind: KindSummary, Serve: handleSummary},
	IntentHelp:            {Kind: KindHelp, Serve: handleHelp},
	IntentStop:            stopCancelHandler,
	IntentCancel:          stopCancelHandler,
	IntentFallback:        fallbackHandler,
}

// Route picks the handler for req. It reports false when the request type
// is missing or unsupported; unknown intent names go to the fallback.
func Route(req *models.Request, log *zap.Logger) (Handler, bool) {
	log = log.With(zap.String("module", "router"))

	requestType := req.Request.Type
	intentName := req.IntentName()
	log.Info("routing request", zap.String("requestType", requestType), zap.String("intentName", intentName))

	switch requestType {
	case "":
		log.Error("request type is missing")
		return Handler{}, false
	case models.TypeLaunchRequest:
		return launchHandler, true
	case models.TypeSessionEndedRequest:
		return sessionEndedHandler, true
	case models.TypeIntentRequest:
		if intentName == "" {
			log.Warn("intent request without intent name, routing to fallback")
			return fallbackHandler, true
		}
		if h, ok := intentTable[intentName]; ok {
			return h, true
		}
		log.Warn("no handler for intent name, routing to fallback", zap.String("intentName", intentName))
		return fallbackHandler, true
	default:
		log.Warn("unknown request type, no handler available", zap.String("requestType", requestType))
		return Handler{}, false
	}
}
