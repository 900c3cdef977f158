package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

func TestCreateAndCompleteRequest(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	now := time.Now().UTC()

	req := &model.RequestRecord{
		RequestID: "req-1",
		Status:    config.RequestStatusProcessing,
		Prompt:    "Flight EY123 on 2026-01-20 had a hydraulic fault.",
		CreatedAt: now,
		UpdatedAt: now,
		TTL:       now.Add(time.Hour),
	}
	require.NoError(t, c.CreateRequest(ctx, req))

	fetched, err := c.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, config.RequestStatusProcessing, fetched.Status)
	assert.Nil(t, fetched.Assessment)

	assessment := &model.ArbitratorOutput{FinalDecision: "delay 6 hours", Confidence: 0.9}
	require.NoError(t, c.CompleteRequest(ctx, "req-1", assessment, 4200))

	fetched, err = c.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, config.RequestStatusComplete, fetched.Status)
	require.NotNil(t, fetched.Assessment)
	assert.Equal(t, "delay 6 hours", fetched.Assessment.FinalDecision)
	assert.Equal(t, int64(4200), fetched.ExecutionTimeMS)
}

func TestErrorRequestUnknownID(t *testing.T) {
	c := newTestClient(t)
	err := c.ErrorRequest(context.Background(), "missing", config.ErrorCodeTimeout, "boom")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
