// Package skill runs one voice request through authentication, routing and
// the selected intent handler.
package skill

import (
	"bitbucket.org/sotavant/solar-skill/internal/idtoken"
	"bitbucket.org/sotavant/solar-skill/internal/intents"
	"bitbucket.org/sotavant/solar-skill/internal/metrics"
	"bitbucket.org/sotavant/solar-skill/internal/models"
	"bitbucket.org/sotavant/solar-skill/internal/remote"
	"bitbucket.org/sotavant/solar-skill/internal/respond"
	"bitbucket.org/sotavant/solar-skill/internal/secrets"
	"context"
	"fmt"
	"go.uber.org/zap"
	"net/http"
)

const (
	notConfiguredSpeech = "Sorry, the skill is not configured correctly. Please contact the skill developer."
	credentialsSpeech   = "Sorry, I couldn't retrieve the necessary credentials to reach your solar monitor. Please try again later."
	authSpeech          = "Sorry, I encountered an issue authenticating with the solar monitor service. Please try again later."
	notUnderstoodSpeech = "Sorry, I didn't understand that request. Please try again."
	unexpectedSpeech    = "Sorry, something went wrong while handling your request. Please try again later."
)

// Settings are the values checked at the start of every invocation.
type Settings struct {
	SecretID       string
	TargetAudience string
}

// Invocation carries per-call metadata used for log correlation.
type Invocation struct {
	RequestID string
}

// Result is the outcome of one invocation. A nil Response means the
// platform expects an empty body. Status is the transport-level code for
// deployments that report one.
type Result struct {
	Response *models.Response
	Status   int
}

// Body returns the value to serialize.
func (r Result) Body() any {
	if r.Response == nil {
		return respond.Empty()
	}
	return r.Response
}

type Skill struct {
	settings Settings
	secrets  secrets.Store
	minter   idtoken.Minter
	caller   remote.Caller
	log      *zap.Logger
}

func New(settings Settings, store secrets.Store, minter idtoken.Minter, caller remote.Caller, log *zap.Logger) *Skill {
	return &Skill{
		settings: settings,
		secrets:  store,
		minter:   minter,
		caller:   caller,
		log:      log,
	}
}

// Handle never fails: every error becomes a spoken apology.
func (s *Skill) Handle(ctx context.Context, req *models.Request, inv Invocation) (res Result) {
	log := s.log.With(zap.String("requestId", inv.RequestID))
	handler := "none"

	defer func() {
		if r := recover(); r != nil {
			log.Error("unhandled panic while handling request",
				zap.String("errName", fmt.Sprintf("%T", r)),
				zap.String("errMessage", fmt.Sprint(r)),
				zap.Stack("errStack"),
			)
			res = Result{Response: respond.Tell(unexpectedSpeech), Status: http.StatusOK}
		}
		metrics.InvocationsTotal.WithLabelValues(handler, outcome(res)).Inc()
	}()

	if req == nil {
		req = &models.Request{}
	}
	log.Info("received event",
		zap.String("requestType", req.Request.Type),
		zap.String("intentName", req.IntentName()),
	)

	if s.settings.SecretID == "" || s.settings.TargetAudience == "" {
		log.Error("skill is not configured",
			zap.Bool("secretIdSet", s.settings.SecretID != ""),
			zap.Bool("targetAudienceSet", s.settings.TargetAudience != ""),
		)
		return Result{Response: respond.Tell(notConfiguredSpeech), Status: http.StatusInternalServerError}
	}

	log.Info("fetching credentials")
	creds, err := s.secrets.Fetch(ctx, s.settings.SecretID, log)
	if err != nil || creds == nil {
		log.Error("failed to retrieve credentials", zap.Error(err))
		return Result{Response: respond.Tell(credentialsSpeech), Status: http.StatusInternalServerError}
	}
	log.Info("retrieved credentials", zap.String("projectId", creds.ProjectID))

	log.Info("minting ID token")
	token, err := s.minter.Mint(ctx, creds, s.settings.TargetAudience, log)
	if err != nil || token == "" {
		log.Error("failed to mint ID token", zap.Error(err))
		return Result{Response: respond.Tell(authSpeech), Status: http.StatusInternalServerError}
	}

	h, ok := intents.Route(req, log)
	if !ok {
		if req.Request.Type == models.TypeSessionEndedRequest {
			return Result{Status: http.StatusOK}
		}
		return Result{Response: respond.Tell(notUnderstoodSpeech), Status: http.StatusOK}
	}
	handler = string(h.Kind)

	cfg := intents.Config{TargetAudience: s.settings.TargetAudience, BearerToken: token}
	resp, err := h.Serve(ctx, req, log, s.caller, cfg)
	if err != nil {
		log.Error("handler failed",
			zap.String("handler", handler),
			zap.String("errName", fmt.Sprintf("%T", err)),
			zap.String("errMessage", err.Error()),
			zap.Stack("errStack"),
		)
		return Result{Response: respond.Tell(unexpectedSpeech), Status: http.StatusOK}
	}

	log.Info("sending response", zap.String("handler", handler), zap.Bool("empty", resp == nil))
	return Result{Response: resp, Status: http.StatusOK}
}

func outcome(r Result) string {
	switch {
	case r.Status >= 500:
		return "setup_error"
	case r.Response == nil:
		return "empty"
	default:
		return "ok"
	}
}
