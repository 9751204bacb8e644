package intents

import (
	"bitbucket.org/sotavant/solar-skill/internal/models"
	"bitbucket.org/sotavant/solar-skill/internal/remote"
	"bitbucket.org/sotavant/solar-skill/internal/respond"
	"context"
	"go.uber.org/zap"
)

const (
	launchSpeech   = "Welcome to Solar Monitor! You can ask about your current solar production, your daily total, the system status, or a summary. What would you like to know?"
	launchReprompt = "Try asking: what's my current production?"

	helpSpeech   = "You can ask me about your solar energy system. For example, try saying: 'What's my current power production?', 'How much energy did I produce today?', 'Is the system online?', or 'Give me a summary'. What would you like to know?"
	helpReprompt = "You can ask about current power, daily production, or the system status. What data are you interested in?"

	fallbackSpeech   = "Sorry, I didn't understand that request. You can ask about current power, daily production, or system status. You can also say 'help' for more options. What would you like to know?"
	fallbackReprompt = "What solar data are you interested in? Try asking 'what's my current power?' or say 'help'."

	goodbyeSpeech = "Goodbye!"
)

func handleLaunch(_ context.Context, _ *models.Request, log *zap.Logger, _ remote.Caller, _ Config) (*models.Response, error) {
	log.Info("handling launch request")
	return respond.Ask(launchSpeech, launchReprompt), nil
}

func handleHelp(_ context.Context, _ *models.Request, log *zap.Logger, _ remote.Caller, _ Config) (*models.Response, error) {
	log.Info("handling help intent")
	return respond.Ask(helpSpeech, helpReprompt), nil
}

func handleFallback(_ context.Context, req *models.Request, log *zap.Logger, _ remote.Caller, _ Config) (*models.Response, error) {
	log.Info("handling fallback", zap.String("intentName", req.IntentName()))
	return respond.Ask(fallbackSpeech, fallbackReprompt), nil
}

// Stop and cancel share one goodbye; only the log line tells them apart.
func handleStopOrCancel(_ context.Context, req *models.Request, log *zap.Logger, _ remote.Caller, _ Config) (*models.Response, error) {
	log.Info("handling stop or cancel", zap.String("intentName", req.IntentName()))
	return respond.Tell(goodbyeSpeech), nil
}

func handleSessionEnded(_ context.Context, req *models.Request, log *zap.Logger, _ remote.Caller, _ Config) (*models.Response, error) {
	fields := []zap.Field{zap.String("reason", req.Request.Reason)}
	if e := req.Request.Error; e != nil {
		fields = append(fields, zap.String("errorType", e.Type), zap.String("errorMessage", e.Message))
	}
	log.Info("handling session ended request", fields...)
	return nil, nil
}
