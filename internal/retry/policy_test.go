package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, Linear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
	assert.NoError(t, p.Validate())
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(Fixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial, "initial clamped to max")
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, Fixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	p = NewPolicy("spiral", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name    string
		policy  Policy
		attempt int
		want    time.Duration
	}{
		{"fixed", NewPolicy(Fixed, 100*ms, 500*ms, 3), 3, 100 * ms},
		{"linear first", NewPolicy(Linear, 100*ms, 250*ms, 5), 1, 100 * ms},
		{"linear second", NewPolicy(Linear, 100*ms, 250*ms, 5), 2, 200 * ms},
		{"linear capped", NewPolicy(Linear, 100*ms, 250*ms, 5), 3, 250 * ms},
		{"exp first", NewPolicy(Exponential, 50*ms, 160*ms, 5), 1, 50 * ms},
		{"exp second", NewPolicy(Exponential, 50*ms, 160*ms, 5), 2, 100 * ms},
		{"exp capped", NewPolicy(Exponential, 50*ms, 160*ms, 5), 3, 160 * ms},
		{"exp huge attempt", NewPolicy(Exponential, 50*ms, 160*ms, 5), 64, 160 * ms},
		{"zero attempt", NewPolicy(Linear, 10*ms, 20*ms, 1), 0, 0},
		{"negative attempt", NewPolicy(Linear, 10*ms, 20*ms, 1), -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Delay(tt.attempt))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDo(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 3)

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		var retried []int
		err := p.Do(context.Background(), func() error {
			calls++
			if calls < 3 {
				return stderrors.New("not yet")
			}
			return nil
		}, func(attempt int, _ time.Duration, _ error) { retried = append(retried, attempt) })
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{1, 2}, retried)
	})

	t.Run("gives up with last error", func(t *testing.T) {
		calls := 0
		err := p.Do(context.Background(), func() error {
			calls++
			return stderrors.New("down")
		}, nil)
		require.EqualError(t, err, "down")
		assert.Equal(t, 4, calls)
	})

	t.Run("stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := NewPolicy(Fixed, time.Hour, time.Hour, 5).Do(ctx, func() error {
			calls++
			return stderrors.New("down")
		}, nil)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
