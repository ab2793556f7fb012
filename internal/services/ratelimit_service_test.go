package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimit(t *testing.T) (*RateLimitService, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	svc := NewRateLimitService(rdb,
		map[string]RateLimitPolicy{
			"payment-sessions": {MaxRequests: 5, Window: time.Minute},
		},
		RateLimitPolicy{MaxRequests: 100, Window: time.Minute},
	)
	svc.Now = func() time.Time { return fixedNow }
	return svc, mock
}

func TestRateLimit_IncrementWithinBudget(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectEval(fixedWindowScript, []string{"rl:payment-sessions:user-1"}, int64(60000)).
		SetVal([]interface{}{int64(1), int64(60000)})

	d, err := svc.Increment(context.Background(), "user-1", "payment-sessions")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 5, d.Limit)
	assert.Equal(t, 4, d.Remaining)
	assert.Equal(t, fixedNow.Add(time.Minute), d.ResetAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_IncrementExceeded(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectEval(fixedWindowScript, []string{"rl:payment-sessions:user-1"}, int64(60000)).
		SetVal([]interface{}{int64(6), int64(42000)})

	d, err := svc.Increment(context.Background(), "user-1", "payment-sessions")
	require.ErrorIs(t, err, ErrRateLimited)
	require.NotNil(t, d)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, fixedNow.Add(42*time.Second), d.ResetAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_IncrementAtExactLimitAllowed(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectEval(fixedWindowScript, []string{"rl:payment-sessions:user-1"}, int64(60000)).
		SetVal([]interface{}{int64(5), int64(10000)})

	d, err := svc.Increment(context.Background(), "user-1", "payment-sessions")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestRateLimit_CheckDoesNotConsume(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectGet("rl:payment-sessions:user-1").SetVal("3")
	mock.ExpectPTTL("rl:payment-sessions:user-1").SetVal(30 * time.Second)

	d, err := svc.Check(context.Background(), "user-1", "payment-sessions")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)
	assert.Equal(t, fixedNow.Add(30*time.Second), d.ResetAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_CheckFreshWindow(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectGet("rl:payment-sessions:user-1").RedisNil()
	mock.ExpectPTTL("rl:payment-sessions:user-1").SetVal(-2 * time.Millisecond)

	d, err := svc.Check(context.Background(), "user-1", "payment-sessions")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 5, d.Remaining)
}

func TestRateLimit_CheckAtLimitBlocked(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectGet("rl:payment-sessions:user-1").SetVal("5")
	mock.ExpectPTTL("rl:payment-sessions:user-1").SetVal(10 * time.Second)

	d, err := svc.Check(context.Background(), "user-1", "payment-sessions")
	require.NoError(t, err)
	assert.False(t, d.Allowed, "a full window admits no further request")
}

func TestRateLimit_DefaultPolicyFallback(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectEval(fixedWindowScript, []string{"rl:unlisted:user-1"}, int64(60000)).
		SetVal([]interface{}{int64(1), int64(60000)})

	d, err := svc.Increment(context.Background(), "user-1", "unlisted")
	require.NoError(t, err)
	assert.Equal(t, 100, d.Limit)
	assert.Equal(t, 99, d.Remaining)
}

func TestRateLimit_Reset(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectDel("rl:payment-sessions:user-1").SetVal(1)

	require.NoError(t, svc.Reset(context.Background(), "user-1", "payment-sessions"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_Validation(t *testing.T) {
	svc, _ := setupRateLimit(t)

	_, err := svc.Increment(context.Background(), "", "payment-sessions")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = svc.Check(context.Background(), "user-1", "  ")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(svc.Reset(context.Background(), "", ""), ErrValidation))
}

func TestRateLimit_RedisDown(t *testing.T) {
	svc, mock := setupRateLimit(t)
	defer mock.ClearExpect()

	mock.ExpectEval(fixedWindowScript, []string{"rl:payment-sessions:user-1"}, int64(60000)).
		SetErr(errors.New("connection refused"))

	_, err := svc.Increment(context.Background(), "user-1", "payment-sessions")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
}
