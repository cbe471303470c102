// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StandardError
		wantRetryable bool
		wantRetries   int
	}{
		{"business error", NewInvalidPurchaseRequestError("requiredQuantity must be > 0"), false, 0},
		{"duplicate order", NewDuplicateOrderError("req-1"), false, 0},
		{"query failure", NewQueryExecutionFailedError("load_snapshot", stderrors.New("conn reset")), true, 3},
		{"search timeout", NewSearchTimeoutError("listings"), true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, string(tt.err.Code), bpmn.Code)
			assert.Equal(t, tt.wantRetryable, bpmn.Retryable)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, bpmn.Code, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	vars := ConvertToBPMNError(NewDuplicateOrderError("req-9")).ToErrorVariables()
	assert.Equal(t, "req-9", vars["requestId"])
}

func TestNormalize(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	std := NewDatabaseConnectionFailedError(cause)

	got := Normalize(fmt.Errorf("loading snapshot: %w", std))
	require.Same(t, std, got)
	assert.True(t, stderrors.Is(got, cause))

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, plain.Retryable)
	assert.Equal(t, "boom", plain.Details)
}

func TestRetriesLeft(t *testing.T) {
	assert.Equal(t, int32(2), retriesLeft(3, 3))
	assert.Equal(t, int32(2), retriesLeft(5, 2))
	assert.Equal(t, int32(0), retriesLeft(1, 3))
	assert.Equal(t, int32(0), retriesLeft(3, 0))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeSnapshotLoadFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationNotFound))
	assert.Equal(t, "BUSINESS", GetErrorCategory(ErrCodeDuplicateOrder))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidPurchaseRequest))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestStandardError_Error(t *testing.T) {
	assert.Equal(t, "StandardError[RETAILER_NOT_FOUND]: Retailer not found", NewRetailerNotFoundError("r1").Error())
}
