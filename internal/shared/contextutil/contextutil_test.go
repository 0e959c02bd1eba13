package contextutil_test

import (
	"context"
	"testing"

	"go-sirh/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetActor(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, contextutil.SystemActor, contextutil.GetActor(ctx))

	ctx = contextutil.WithUserID(ctx, "12")
	assert.Equal(t, "12", contextutil.GetActor(ctx))

	ctx = contextutil.WithActor(ctx, "Salma Idrissi")
	assert.Equal(t, "Salma Idrissi", contextutil.GetActor(ctx))
}

func TestGetLogger_Fallbacks(t *testing.T) {
	def := zap.NewExample()
	assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	scoped := zap.NewExample().Named("scoped")
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, def))
}

func TestExtractMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithUserID(ctx, "u-1")
	md := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, "rid-1", md.RequestID)
	assert.Equal(t, "u-1", md.UserID)
	assert.Equal(t, "u-1", md.Actor)
}
