package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			assert.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))
	assert.NoError(t, WrapErrorf(nil, "context %d", 1))
}

func TestNetworkError_IsNetworkFailure(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(NewNetworkError("https://example.com", "request failed", cause), "fetch")

	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "https://example.com")
}

func TestHTTPError(t *testing.T) {
	err := NewHTTPErrorWithURL(http.StatusNotFound, "not found", "https://example.com/a")

	var httpErr *HTTPError
	assert.True(t, errors.As(WrapError(err, "fetch"), &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "HTTP 404 error for 'https://example.com/a': not found", err.Error())
}

func TestCombineErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	assert.NoError(t, CombineErrors(nil))
	assert.NoError(t, CombineErrors([]error{nil, nil}))
	assert.Equal(t, first, CombineErrors([]error{nil, first}))
	assert.EqualError(t, CombineErrors([]error{first, second}), "multiple errors occurred: [first; second]")
}
