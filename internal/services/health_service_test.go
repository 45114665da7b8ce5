package services

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"studentlens/internal/shared/testutil"
	"studentlens/pkg/contracts"
)

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func TestHealthService_LivenessCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", fixedCounter(4), logger)

	status := hs.LivenessCheck(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, 4, status.Sessions)
	assert.Equal(t, runtime.Version(), status.Runtime["go_version"])
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_NilCounter(t *testing.T) {
	hs := NewHealthService("dev", nil, nil)
	assert.Zero(t, hs.LivenessCheck(context.Background()).Sessions)
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("1.2.3", nil, nil)
	info := hs.Version()

	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, contracts.APIVersion, info.APIVersion)
	assert.False(t, info.StartTime.IsZero())
}
