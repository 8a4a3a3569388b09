package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:  http.StatusBadRequest,
		KindAuth:        http.StatusUnauthorized,
		KindForbidden:   http.StatusForbidden,
		KindNotFound:    http.StatusNotFound,
		KindRateLimit:   http.StatusTooManyRequests,
		KindPersistence: http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, (&Error{Kind: kind}).HTTPStatus(), kind)
	}
}

func TestAsThroughWrapping(t *testing.T) {
	storeErr := errors.New("connection refused")
	err := fmt.Errorf("failed to list meals: %w", Persistence(storeErr))

	appErr := As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, KindPersistence, appErr.Kind)
	assert.Equal(t, "connection refused", appErr.Message)
	assert.ErrorIs(t, err, storeErr)
	assert.True(t, IsKind(err, KindPersistence))
	assert.False(t, IsKind(err, KindNotFound))
}

func TestAsPlainError(t *testing.T) {
	assert.Nil(t, As(errors.New("boom")))
	assert.False(t, IsKind(nil, KindValidation))
}
