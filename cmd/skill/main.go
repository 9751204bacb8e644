package main

import (
	"bitbucket.org/sotavant/solar-skill/internal/config"
	"bitbucket.org/sotavant/solar-skill/internal/idtoken"
	"bitbucket.org/sotavant/solar-skill/internal/logger"
	"bitbucket.org/sotavant/solar-skill/internal/remote"
	"bitbucket.org/sotavant/solar-skill/internal/secrets"
	"bitbucket.org/sotavant/solar-skill/internal/skill"
	"context"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"net/http"
)

func main() {
	parseFlags()
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	cfg, err := config.Load(flagConfigPath, flagOverrides)
	if err != nil {
		return err
	}

	log, err := logger.Initialize(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	sk, err := newSkill(context.Background(), cfg, log)
	if err != nil {
		return err
	}

	if cfg.Server.Mode == config.ModeLambda {
		log.Info("starting lambda handler")
		lambda.Start(lambdaHandler(sk))
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", logger.RequestLogger(log, gzipMiddleware(log, newApp(sk, log).webhook)))
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info("Running server", zap.String("address", cfg.Server.Addr))
	return srv.ListenAndServe()
}

func newSkill(ctx context.Context, cfg *config.Config, log *zap.Logger) (*skill.Skill, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Skill.AWSRegion))
	if err != nil {
		return nil, err
	}

	store := secrets.NewAWSStore(secretsmanager.NewFromConfig(awsCfg))
	minter := idtoken.NewServiceAccountMinter(idtoken.WithTokenURI(cfg.Skill.TokenURI))
	caller := remote.NewHTTPCaller(cfg.Skill.RemoteTimeout)

	settings := skill.Settings{
		SecretID:       cfg.Skill.SecretID,
		TargetAudience: cfg.Skill.TargetAudience,
	}

	return skill.New(settings, store, minter, caller, log), nil
}
