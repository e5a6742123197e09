package aws_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

type SecretManager struct {
	svc secretsmanageriface.SecretsManagerAPI
}

func NewSecretManager(svc secretsmanageriface.SecretsManagerAPI) *SecretManager {
	return &SecretManager{svc: svc}
}

func (s *SecretManager) GetSecretValue(ctx context.Context, secretId string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretId),
	}

	result, err := s.svc.GetSecretValueWithContext(ctx, input)
	if err != nil {
		return "", err
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretId)
	}

	return *result.SecretString, nil
}

// DBCredentials is the JSON layout RDS-managed secrets use.
type DBCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GetDBCredentials reads a database secret. Plain-text secrets are taken as
// the password alone.
func (s *SecretManager) GetDBCredentials(ctx context.Context, secretId string) (*DBCredentials, error) {
	value, err := s.GetSecretValue(ctx, secretId)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		return &DBCredentials{Password: value}, nil
	}
	var creds DBCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, fmt.Errorf("decode secret %s: %w", secretId, err)
	}
	return &creds, nil
}
