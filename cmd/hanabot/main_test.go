package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func TestRunAll_CollectsEveryFailure(t *testing.T) {
	boom := errors.New("login failed")
	var ran atomic.Int32

	err := runAll(context.Background(), []string{"a", "b", "c"}, func(_ context.Context, i int, name string) error {
		ran.Add(1)
		if name == "b" || name == "c" {
			return boom
		}
		return nil
	}, zap.NewNop())

	assert.Equal(t, int32(3), ran.Load())
	require.ErrorIs(t, err, boom)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.EqualError(t, errs[0], "bot[1] b: login failed")
	assert.EqualError(t, errs[1], "bot[2] c: login failed")
}

func TestRunAll_NoFailures(t *testing.T) {
	err := runAll(context.Background(), []string{"a", "b"}, func(context.Context, int, string) error {
		return nil
	}, zap.NewNop())
	assert.NoError(t, err)
}
