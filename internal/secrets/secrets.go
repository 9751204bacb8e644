// Package secrets retrieves the service account credentials used to mint
// ID tokens.
package secrets

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
	"sort"
)

//go:generate mockgen -destination=mock/store.go -package=mock . Store

// Store fetches credentials by secret identifier.
type Store interface {
	Fetch(ctx context.Context, secretID string, log *zap.Logger) (*Credentials, error)
}

// Credentials is a Google service account key.
type Credentials struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

var (
	ErrNoSecretID = errors.New("secret id is empty")
	ErrEmptyValue = errors.New("secret has no value")
	ErrNullSecret = errors.New("secret is JSON null")
)

// SecretsManagerAPI is the part of the Secrets Manager client the store uses.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSStore reads JSON credentials from AWS Secrets Manager.
type AWSStore struct {
	client SecretsManagerAPI
}

func NewAWSStore(client SecretsManagerAPI) *AWSStore {
	return &AWSStore{client: client}
}

func (s *AWSStore) Fetch(ctx context.Context, secretID string, log *zap.Logger) (*Credentials, error) {
	log = log.With(zap.String("service", "SecretsManager"), zap.String("secretId", secretID))
	log.Info("attempting to fetch secret")

	if secretID == "" {
		return nil, ErrNoSecretID
	}

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret value: %w", err)
	}

	var raw []byte
	switch {
	case aws.ToString(out.SecretString) != "":
		raw = []byte(aws.ToString(out.SecretString))
		log.Info("secret string retrieved")
	case len(out.SecretBinary) > 0:
		raw = decodeBinary(out.SecretBinary)
		log.Info("secret binary retrieved")
	default:
		return nil, ErrEmptyValue
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse secret as JSON: %w", err)
	}
	if fields == nil {
		return nil, ErrNullSecret
	}
	log.Debug("parsed secret keys", zap.Strings("secretKeys", keys(fields)))

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}

	return &creds, nil
}

// decodeBinary accepts both raw JSON bytes and base64 encoded JSON.
func decodeBinary(b []byte) []byte {
	if json.Valid(b) {
		return b
	}
	decoded, err := base64.StdEncoding.DecodeString(string(b))
	if err != nil {
		return b
	}
	return decoded
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
