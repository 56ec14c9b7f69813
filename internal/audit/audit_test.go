package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	Log(ctx, PaymentVerified, "u-1", logger.PaymentID("p-1"))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "audit", e.LoggerName)
	assert.Equal(t, PaymentVerified, e.Message)
	fields := e.ContextMap()
	assert.Equal(t, "u-1", fields["actor_id"])
	assert.Equal(t, "p-1", fields["payment_id"])
}
