package errx

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadSinkFailure(t *testing.T) {
	cause := errors.New("sink 1: down")
	err := LeadSinkFailure(cause)

	assert.Equal(t, "lead submission failed: sink 1: down", err.Error())
	assert.Equal(t, 1, strings.Count(err.Error(), "lead submission failed"))
	assert.ErrorIs(t, err, ErrLeadSinkFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeLeadSinkFailure, Code(err))
	assert.Equal(t, "lead submission failed", SafeMessage(err))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestWrapKindMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		kind error
		code string
	}{
		{
			"classification",
			ClassificationUnavailable(errors.New("quota exceeded")),
			"intent classification unavailable: classification unavailable: quota exceeded",
			ErrClassificationUnavailable,
			CodeClassificationUnavailable,
		},
		{
			"retrieval without cause",
			RetrievalUnavailable(nil),
			"knowledge retrieval unavailable: retrieval unavailable",
			ErrRetrievalUnavailable,
			CodeRetrievalUnavailable,
		},
		{
			"corpus",
			CorpusInvalid(errors.New("no records")),
			"knowledge corpus invalid: no records",
			ErrCorpusInvalid,
			CodeCorpusInvalid,
		},
		{
			"invalid request",
			InvalidRequest("message is empty"),
			"invalid request: message is empty",
			ErrInvalidRequest,
			CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}

func TestCodeAndSafeMessage(t *testing.T) {
	assert.Empty(t, Code(nil))
	assert.Equal(t, CodeInternal, Code(errors.New("boom")))
	assert.Equal(t, SystemErrorMessage, SafeMessage(errors.New("boom")))
	assert.Equal(t, "message is empty", SafeMessage(InvalidRequest("message is empty")))
}

func TestWrapRedis(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))

	var appErr *AppError
	require.ErrorAs(t, WrapRedis(redis.Nil), &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.ErrorIs(t, appErr, redis.Nil)

	require.ErrorAs(t, WrapRedis(errors.New("connection refused")), &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.Equal(t, "redis operation failed: connection refused", appErr.Error())
}
