package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type policy string

const (
	policyIsolate policy = "isolate"
	policyAbort   policy = "abort"
)

func newPolicyNormalizer() *Normalizer[policy] {
	return NewNormalizer(map[string]policy{
		"isolate": policyIsolate,
		"abort":   policyAbort,
	}, policyIsolate)
}

func TestNormalizer_Basic(t *testing.T) {
	n := newPolicyNormalizer()

	tests := []struct {
		in   string
		want policy
	}{
		{"abort", policyAbort},
		{"  ABORT ", policyAbort},
		{"isolate", policyIsolate},
		{"", policyIsolate},
		{"bogus", policyIsolate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Normalize(tt.in), tt.in)
	}
}

func TestNormalizer_WithError(t *testing.T) {
	n := newPolicyNormalizer()

	v, err := n.NormalizeWithError("Abort")
	require.NoError(t, err)
	assert.Equal(t, policyAbort, v)

	v, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, policyIsolate, v)

	_, err = n.NormalizeWithError("explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[abort isolate]")
}

func TestValidKeys(t *testing.T) {
	n := newPolicyNormalizer()
	keys := n.ValidKeys()
	assert.Equal(t, []string{"abort", "isolate"}, keys)

	keys[0] = "mutated"
	assert.Equal(t, "abort", n.ValidKeys()[0])
}
