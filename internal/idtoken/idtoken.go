// Package idtoken mints Google-signed ID tokens from service account keys.
//
// A JWT assertion carrying the target audience is signed with the account's
// private key and exchanged at the OAuth token endpoint using the
// jwt-bearer grant.
package idtoken

import (
	"bitbucket.org/sotavant/solar-skill/internal/metrics"
	"bitbucket.org/sotavant/solar-skill/internal/secrets"
	"context"
	"errors"
	"fmt"
	"github.com/go-resty/resty/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"time"
)

//go:generate mockgen -destination=mock/minter.go -package=mock . Minter

const (
	grantType      = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionTTL   = time.Hour
	defaultTimeout = 10 * time.Second
)

// Minter returns a bearer token valid for audience.
type Minter interface {
	Mint(ctx context.Context, creds *secrets.Credentials, audience string, log *zap.Logger) (string, error)
}

var (
	ErrMissingInput = errors.New("credentials and audience are required")
	ErrNoIDToken    = errors.New("token endpoint returned no id_token")
)

type tokenResponse struct {
	IDToken          string `json:"id_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ServiceAccountMinter exchanges signed assertions for ID tokens.
type ServiceAccountMinter struct {
	client   *resty.Client
	tokenURI string
	now      func() time.Time
}

type Option func(*ServiceAccountMinter)

// WithTokenURI overrides the endpoint used when the credentials name none.
func WithTokenURI(uri string) Option {
	return func(m *ServiceAccountMinter) { m.tokenURI = uri }
}

func WithClient(c *resty.Client) Option {
	return func(m *ServiceAccountMinter) { m.client = c }
}

func WithClock(now func() time.Time) Option {
	return func(m *ServiceAccountMinter) { m.now = now }
}

func NewServiceAccountMinter(opts ...Option) *ServiceAccountMinter {
	m := &ServiceAccountMinter{
		client:   resty.New().SetTimeout(defaultTimeout),
		tokenURI: "https://oauth2.googleapis.com/token",
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *ServiceAccountMinter) Mint(ctx context.Context, creds *secrets.Credentials, audience string, log *zap.Logger) (string, error) {
	if creds == nil || audience == "" {
		return "", ErrMissingInput
	}

	tokenURI := creds.TokenURI
	if tokenURI == "" {
		tokenURI = m.tokenURI
	}

	assertion, err := m.sign(creds, tokenURI, audience)
	if err != nil {
		metrics.TokenMintsTotal.WithLabelValues("sign_error").Inc()
		return "", err
	}

	log.Info("exchanging assertion for ID token", zap.String("tokenUri", tokenURI))

	var body tokenResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": grantType,
			"assertion":  assertion,
		}).
		SetResult(&body).
		SetError(&body).
		Post(tokenURI)
	if err != nil {
		metrics.TokenMintsTotal.WithLabelValues("network_error").Inc()
		return "", fmt.Errorf("token exchange: %w", err)
	}

	if resp.IsError() {
		metrics.TokenMintsTotal.WithLabelValues("rejected").Inc()
		return "", fmt.Errorf("token exchange returned %d: %s %s", resp.StatusCode(), body.Error, body.ErrorDescription)
	}

	if body.IDToken == "" {
		metrics.TokenMintsTotal.WithLabelValues("empty").Inc()
		return "", ErrNoIDToken
	}

	metrics.TokenMintsTotal.WithLabelValues("ok").Inc()
	log.Info("generated ID token",
		zap.String("targetAudience", audience),
		zap.Int("tokenLength", len(body.IDToken)),
	)

	return body.IDToken, nil
}

func (m *ServiceAccountMinter) sign(creds *secrets.Credentials, tokenURI, audience string) (string, error) {
	key, err := jwtlib.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	now := m.now()
	claims := jwtlib.MapClaims{
		"iss":             creds.ClientEmail,
		"sub":             creds.ClientEmail,
		"aud":             tokenURI,
		"iat":             now.Unix(),
		"exp":             now.Add(assertionTTL).Unix(),
		"target_audience": audience,
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims)
	if creds.PrivateKeyID != "" {
		token.Header["kid"] = creds.PrivateKeyID
	}

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return signed, nil
}
