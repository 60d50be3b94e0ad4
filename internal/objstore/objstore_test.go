package objstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no such key", &types.NoSuchKey{}, true},
		{"head not found", &types.NotFound{}, true},
		{"wrapped", fmt.Errorf("get: %w", &types.NoSuchKey{}), true},
		{"generic code", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"other api error", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestIsPreconditionFailed(t *testing.T) {
	assert.True(t, IsPreconditionFailed(&smithy.GenericAPIError{Code: "PreconditionFailed"}))
	assert.True(t, IsPreconditionFailed(fmt.Errorf("put: %w", &smithy.GenericAPIError{Code: "ConditionalRequestConflict"})))
	assert.False(t, IsPreconditionFailed(&types.NoSuchKey{}))
	assert.False(t, IsPreconditionFailed(errors.New("PreconditionFailed")))
}

func TestNewClient_StaticCredentialsAndEndpoint(t *testing.T) {
	c, err := NewClient(context.Background(), Options{
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "admin",
		SecretKey: "secretpassword",
	})
	require.NoError(t, err)

	o := c.Options()
	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)
	assert.Equal(t, "us-east-1", o.Region)
}
