package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFrom_FallsBackToGlobal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))

	From(context.Background()).Info("hola")
	require.Equal(t, 1, logs.Len())
}

func TestWith_ScopesContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))

	ctx := With(context.Background(), ResidenceID("res-1"))
	ctx = With(ctx, UserID("u-1"))
	From(ctx).Info("scoped", Amount(10050))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "res-1", fields["residence_id"])
	assert.Equal(t, "u-1", fields["user_id"])
	assert.Equal(t, int64(10050), fields["amount_cents"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"Jane.Doe@Example.com": "j…@e….com",
		"a@b.ma":               "a@b.ma",
		"abc":                  "***",
		"":                     "",
		"residente":            "r…e",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}
