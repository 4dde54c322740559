package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the error taxonomy:
// - Each constructor yields its kind
// - Messages carry path and position when present
// - KindOf unwraps through fmt.Errorf wrapping
// - Foreign errors classify as internal

func TestConstructorsAndKinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindInput, KindOf(Input("bad flag")))
	assert.Equal(t, KindFileSystem, KindOf(FileSystem("/tmp/x", os.ErrNotExist)))
	assert.Equal(t, KindParse, KindOf(Parse("a.ts", nil, "oops")))
	assert.Equal(t, KindInternal, KindOf(Internal(errors.New("boom"))))
}

func TestMessages(t *testing.T) {
	t.Parallel()

	err := Parse("src/a.ts", &Position{Line: 3, Column: 7}, "malformed source")
	assert.Equal(t, "parse error in src/a.ts at 3:7: malformed source", err.Error())

	fsErr := FileSystem("/tmp/gone", os.ErrNotExist)
	assert.Contains(t, fsErr.Error(), "/tmp/gone")
	assert.True(t, errors.Is(fsErr, os.ErrNotExist))

	inputErr := Input("expected %d arguments", 1)
	assert.Equal(t, "input error: expected 1 arguments", inputErr.Error())
}

func TestKindOfUnwraps(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("pipeline failed: %w", Parse("a.ts", nil, "bad"))
	assert.Equal(t, KindParse, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindParse))
	assert.False(t, IsKind(wrapped, KindInput))
}

func TestForeignErrorIsInternal(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindInternal, KindOf(errors.New("who knows")))
}
