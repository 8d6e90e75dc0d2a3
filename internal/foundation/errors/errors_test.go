package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("basic error creation", func(t *testing.T) {
		err := NewError(CategoryDocument, "bad frontmatter").Build()

		assert.Equal(t, CategoryDocument, err.Category())
		assert.Equal(t, SeverityError, err.Severity())
		assert.Equal(t, RetryNever, err.RetryStrategy())
		assert.Equal(t, "[document:error] bad frontmatter", err.Error())
	})

	t.Run("path context is rendered", func(t *testing.T) {
		err := DocumentError("bad frontmatter").WithPath("notes/a.md").Build()
		assert.Equal(t, "[document:error] bad frontmatter (notes/a.md)", err.Error())
	})

	t.Run("wrapped cause", func(t *testing.T) {
		cause := stderrors.New("yaml: line 3")
		err := WrapError(cause, CategoryDocument, "bad frontmatter").Build()

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "[document:error] bad frontmatter: yaml: line 3", err.Error())
	})

	t.Run("found through fmt wrapping", func(t *testing.T) {
		inner := ConfigError("unknown emitter").Build()
		outer := fmt.Errorf("load plugins: %w", inner)

		got, ok := AsClassified(outer)
		require.True(t, ok)
		assert.Same(t, inner, got)
		assert.True(t, HasCategory(outer, CategoryConfig))
		assert.True(t, HasSeverity(outer, SeverityFatal))
	})

	t.Run("unclassified defaults", func(t *testing.T) {
		err := stderrors.New("plain")
		assert.False(t, IsClassified(err))
		assert.Equal(t, CategoryInternal, GetCategory(err))
		assert.Equal(t, SeverityError, GetSeverity(err))
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := DocumentError("x").Build()
		derived := base.WithContext("slug", "a")

		_, ok := base.Context().Get("slug")
		assert.False(t, ok)
		v, ok := derived.Context().GetString("slug")
		assert.True(t, ok)
		assert.Equal(t, "a", v)
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClassifiedError
		category ErrorCategory
		severity ErrorSeverity
		retry    bool
	}{
		{"config", ConfigError("c").Build(), CategoryConfig, SeverityFatal, false},
		{"validation", ValidationError("v").Build(), CategoryValidation, SeverityFatal, false},
		{"document", DocumentError("d").Build(), CategoryDocument, SeverityError, false},
		{"link", LinkWarning("l").Build(), CategoryLink, SeverityWarning, false},
		{"build", BuildError("b").Build(), CategoryBuild, SeverityFatal, false},
		{"filesystem", FileSystemError("f").Build(), CategoryFileSystem, SeverityFatal, false},
		{"network", NetworkError("n").Build(), CategoryNetwork, SeverityError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.severity, tt.err.Severity())
			assert.Equal(t, tt.retry, tt.err.CanRetry())
		})
	}
}

func TestErrorContextMerge(t *testing.T) {
	a := ErrorContext{"x": 1, "y": 2}
	b := ErrorContext{"y": 3}
	m := a.Merge(b)
	assert.Equal(t, ErrorContext{"x": 1, "y": 3}, m)
	assert.Equal(t, 2, a["y"])
	assert.Equal(t, b, ErrorContext(nil).Merge(b))
}

func TestCLIErrorAdapter(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	tests := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{stderrors.New("x"), 1},
		{ValidationError("v").Build(), 2},
		{ConfigError("c").Build(), 7},
		{NetworkError("n").Build(), 8},
		{NewError(CategoryInternal, "i").Build(), 10},
		{BuildError("b").Build(), 11},
		{NewError(CategoryCanceled, "interrupted").Build(), 130},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, adapter.ExitCodeFor(tt.err), "%v", tt.err)
	}

	assert.Equal(t, "Error: [config:fatal] bad key", adapter.FormatError(ConfigError("bad key").Build()))
	assert.Equal(t, "Internal error occurred (use -v for details)", adapter.FormatError(NewError(CategoryInternal, "boom").Build()))
	assert.Equal(t, "Error: staging failed", adapter.FormatError(BuildError("staging failed").Build()))
}

func TestCLIErrorAdapterHandleError(t *testing.T) {
	var logs, out bytes.Buffer
	adapter := NewCLIErrorAdapter(true, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("unknown comparator").WithContext("name", "zigzag").Build())

	assert.Equal(t, 7, code)
	assert.Contains(t, out.String(), "unknown comparator")
	assert.Contains(t, logs.String(), "name=zigzag")
	assert.Contains(t, logs.String(), "level=ERROR")
}
