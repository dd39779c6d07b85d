package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exactly-10", TruncateString("exactly-10", 10))
	assert.Equal(t, "a-long-...", TruncateString("a-long-participant-name", 10))
	// Too small a budget to fit an ellipsis: returned untouched.
	assert.Equal(t, "abcdef", TruncateString("abcdef", 3))
}
