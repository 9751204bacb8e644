package main

import (
	"bitbucket.org/sotavant/solar-skill/internal/models"
	"bitbucket.org/sotavant/solar-skill/internal/skill"
	"context"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// lambdaHandler adapts the skill to the Lambda runtime. The envelope is the
// whole output; Lambda mode has no transport status.
func lambdaHandler(s handler) func(ctx context.Context, req models.Request) (any, error) {
	return func(ctx context.Context, req models.Request) (any, error) {
		var inv skill.Invocation
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			inv.RequestID = lc.AwsRequestID
		}
		return s.Handle(ctx, &req, inv).Body(), nil
	}
}
