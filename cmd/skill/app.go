package main

import (
	"bitbucket.org/sotavant/solar-skill/internal/models"
	"bitbucket.org/sotavant/solar-skill/internal/skill"
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"net/http"
)

// handler is the part of skill.Skill the transports depend on.
type handler interface {
	Handle(ctx context.Context, req *models.Request, inv skill.Invocation) skill.Result
}

type app struct {
	skill handler
	log   *zap.Logger
}

func newApp(s handler, log *zap.Logger) *app {
	return &app{skill: s, log: log}
}

func (a *app) webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.log.Debug("got request with bad method", zap.String("method", r.Method))
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	a.log.Debug("decoding request")
	var req models.Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		a.log.Debug("cannot decode request JSON body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	res := a.skill.Handle(r.Context(), &req, skill.Invocation{RequestID: requestID})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(res.Status)

	enc := json.NewEncoder(w)
	if err := enc.Encode(res.Body()); err != nil {
		a.log.Debug("error encoding response", zap.Error(err))
		return
	}
	a.log.Debug("sending HTTP response", zap.Int("status", res.Status))
}
