package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesCode(t *testing.T) {
	err := NotFoundf("genre %q not found", "Horror")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrAlreadyExists))
	assert.Equal(t, `genre "Horror" not found`, err.Error())
}

func TestErrorIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("edit failed: %w", OutOfRange(7, 3))

	assert.True(t, Is(wrapped, ErrOutOfRange))
	assert.Equal(t, CodeOutOfRange, CodeOf(wrapped))
	assert.Contains(t, wrapped.Error(), "row 7 out of range (have 3 rows)")
}

func TestWrapfKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrapf(cause, CodeValidation, "cannot save %s", "books.csv")

	assert.Equal(t, "cannot save books.csv: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		code Code
		want int
	}{
		{CodeValidation, 2},
		{CodeNotFound, 3},
		{CodeOutOfRange, 3},
		{CodeAlreadyExists, 4},
		{Code(""), 1},
	}

	for _, tc := range testCases {
		t.Run(string(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.code.ExitCode())
		})
	}
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(fmt.Errorf("plain")))
}
