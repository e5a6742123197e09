package aws_handler_test

import (
	"context"
	"errors"
	"testing"

	aws_handler "ledger/src/utils/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	values map[string]*string
}

func (m *mockSecretsManager) GetSecretValueWithContext(ctx aws.Context, input *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	value, ok := m.values[aws.StringValue(input.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: value}, nil
}

func TestSecretManager(t *testing.T) {
	ctx := context.Background()
	manager := aws_handler.NewSecretManager(&mockSecretsManager{values: map[string]*string{
		"json":   aws.String(`{"username":"rds","password":"s3cret"}`),
		"plain":  aws.String("only-a-password"),
		"broken": aws.String("{not json"),
		"binary": nil,
	}})

	t.Run("should decode a JSON secret", func(t *testing.T) {
		creds, err := manager.GetDBCredentials(ctx, "json")
		require.NoError(t, err)
		assert.Equal(t, "rds", creds.Username)
		assert.Equal(t, "s3cret", creds.Password)
	})

	t.Run("should take a plain secret as the password", func(t *testing.T) {
		creds, err := manager.GetDBCredentials(ctx, "plain")
		require.NoError(t, err)
		assert.Empty(t, creds.Username)
		assert.Equal(t, "only-a-password", creds.Password)
	})

	t.Run("should fail on malformed JSON", func(t *testing.T) {
		_, err := manager.GetDBCredentials(ctx, "broken")
		assert.Error(t, err)
	})

	t.Run("should fail on a secret without a string value", func(t *testing.T) {
		_, err := manager.GetSecretValue(ctx, "binary")
		assert.ErrorContains(t, err, "has no string value")
	})

	t.Run("should surface lookup errors", func(t *testing.T) {
		_, err := manager.GetSecretValue(ctx, "missing")
		assert.Error(t, err)
	})
}
