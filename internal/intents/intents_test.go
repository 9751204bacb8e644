package intents

import (
	"bitbucket.org/sotavant/solar-skill/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

func intentRequest(name string) *models.Request {
	return &models.Request{
		Version: "1.0",
		Request: models.RequestBody{
			Type:      models.TypeIntentRequest,
			RequestID: "req-1",
			Intent:    &models.Intent{Name: name},
		},
	}
}

func TestRoute(t *testing.T) {
	testCases := []struct {
		name     string
		req      *models.Request
		wantKind Kind
		wantOK   bool
	}{
		{name: "launch", req: &models.Request{Request: models.RequestBody{Type: models.TypeLaunchRequest}}, wantKind: KindLaunch, wantOK: true},
		{name: "session_ended", req: &models.Request{Request: models.RequestBody{Type: models.TypeSessionEndedRequest}}, wantKind: KindSessionEnded, wantOK: true},
		{name: "current_power", req: intentRequest(IntentCurrentPower), wantKind: KindCurrentPower, wantOK: true},
		{name: "daily_production", req: intentRequest(IntentDailyProduction), wantKind: KindDailyProduction, wantOK: true},
		{name: "online_status", req: intentRequest(IntentOnlineStatus), wantKind: KindOnlineStatus, wantOK: true},
		{name: "summary", req: intentRequest(IntentSummary), wantKind: KindSummary, wantOK: true},
		{name: "help", req: intentRequest(IntentHelp), wantKind: KindHelp, wantOK: true},
		{name: "stop", req: intentRequest(IntentStop), wantKind: KindStopCancel, wantOK: true},
		{name: "cancel", req: intentRequest(IntentCancel), wantKind: KindStopCancel, wantOK: true},
		{name: "fallback", req: intentRequest(IntentFallback), wantKind: KindFallback, wantOK: true},
		{name: "unknown_intent", req: intentRequest("OrderPizzaIntent"), wantKind: KindFallback, wantOK: true},
		{name: "case_sensitive", req: intentRequest("getcurrentpowerintent"), wantKind: KindFallback, wantOK: true},
		{name: "no_intent", req: &models.Request{Request: models.RequestBody{Type: models.TypeIntentRequest}}, wantKind: KindFallback, wantOK: true},
		{name: "missing_type", req: &models.Request{}, wantOK: false},
		{name: "unknown_type", req: &models.Request{Request: models.RequestBody{Type: "CanFulfillIntentRequest"}}, wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, ok := Route(tc.req, zap.NewNop())
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantKind, h.Kind)
			if ok {
				assert.NotNil(t, h.Serve)
			}
		})
	}
}

func TestRouteLogging(t *testing.T) {
	t.Run("unknown_intent_warns", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		h, ok := Route(intentRequest("OrderPizzaIntent"), zap.New(core))

		assert.True(t, ok)
		assert.Equal(t, KindFallback, h.Kind)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	})

	t.Run("missing_type_errors", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		_, ok := Route(&models.Request{}, zap.New(core))

		assert.False(t, ok)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("unknown_type_warns", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		_, ok := Route(&models.Request{Request: models.RequestBody{Type: "Display.ElementSelected"}}, zap.New(core))

		assert.False(t, ok)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	})
}
