package frontmatterops

import (
	"strings"
	"testing"

	"git.home.luguber.info/inful/docgraph/internal/frontmatter"
	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"
)

func TestComputeFingerprint(t *testing.T) {
	t.Run("excludes fingerprint/modified/uid/aliases", func(t *testing.T) {
		fields := map[string]any{
			"title":       "Test",
			"fingerprint": "should-be-ignored",
			"modified":    "2026-01-01",
			"uid":         "123",
			"aliases":     []string{"a"},
		}
		body := []byte("hello\n")

		got, err := ComputeFingerprint(fields, body)
		require.NoError(t, err)

		fmBytes, err := frontmatter.SerializeYAML(map[string]any{"title": "Test"})
		require.NoError(t, err)
		expected := mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fmBytes), "\n"), string(body))

		require.Equal(t, expected, got)
	})

	t.Run("stable across map insertion order", func(t *testing.T) {
		fieldsA := map[string]any{}
		fieldsA["title"] = "Test"
		fieldsA["weight"] = 10

		fieldsB := map[string]any{}
		fieldsB["weight"] = 10
		fieldsB["title"] = "Test"

		fpA, err := ComputeFingerprint(fieldsA, []byte("hello"))
		require.NoError(t, err)
		fpB, err := ComputeFingerprint(fieldsB, []byte("hello"))
		require.NoError(t, err)
		require.Equal(t, fpA, fpB)
	})

	t.Run("body changes the fingerprint", func(t *testing.T) {
		fields := map[string]any{"title": "Test"}
		a, err := ComputeFingerprint(fields, []byte("one"))
		require.NoError(t, err)
		b, err := ComputeFingerprint(fields, []byte("two"))
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("nil fields", func(t *testing.T) {
		_, err := ComputeFingerprint(nil, nil)
		require.Error(t, err)
	})
}

func TestStale(t *testing.T) {
	body := []byte("hello")
	fields := map[string]any{"title": "Test"}

	stale, err := Stale(fields, body)
	require.NoError(t, err)
	require.False(t, stale, "no recorded fingerprint")

	fp, err := ComputeFingerprint(fields, body)
	require.NoError(t, err)
	fields[FingerprintField] = fp

	stale, err = Stale(fields, body)
	require.NoError(t, err)
	require.False(t, stale)

	stale, err = Stale(fields, []byte("edited"))
	require.NoError(t, err)
	require.True(t, stale)
}
