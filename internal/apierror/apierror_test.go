/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestNewAPIError(t *testing.T) {
	details := "Some internal error details"
	apiErr := apierror.NewAPIError(apierror.ErrInternalServer, "Something went wrong", details)

	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Equal(t, "INTERNAL_SERVER_ERROR: Something went wrong", apiErr.Error())
}

func TestHelpers(t *testing.T) {
	nf := apierror.NotFound("supplier", "sup_1")
	assert.Equal(t, "NOT_FOUND: supplier with id 'sup_1' not found", nf.Error())
	assert.True(t, apierror.IsNotFound(nf))
	assert.True(t, apierror.IsNotFound(fmt.Errorf("wrapped: %w", nf)))
	assert.False(t, apierror.IsNotFound(nil))

	cause := errors.New("connection refused")
	st := apierror.Storage("load suppliers", cause)
	assert.Equal(t, apierror.ErrStorage, apierror.CodeOf(st))
	assert.ErrorIs(t, st, cause)
	assert.Equal(t, "STORAGE_UNAVAILABLE: storage unavailable while trying to load suppliers: connection refused", st.Error())

	assert.Equal(t, apierror.ErrInternalServer, apierror.CodeOf(errors.New("boom")))
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "NotFound Error",
			err:      apierror.NewAPIError(apierror.ErrNotFound, "Resource not found", nil),
			expected: http.StatusNotFound,
		},
		{
			name:     "Conflict Error",
			err:      apierror.Conflict("Conflict occurred"),
			expected: http.StatusConflict,
		},
		{
			name:     "InvalidInput Error",
			err:      apierror.Invalid("Invalid input", nil),
			expected: http.StatusBadRequest,
		},
		{
			name:     "Storage Error",
			err:      apierror.Storage("save", errors.New("down")),
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "Wrapped NotFound",
			err:      fmt.Errorf("recompute: %w", apierror.NotFound("obligation", "obl_1")),
			expected: http.StatusNotFound,
		},
		{
			name:     "InternalServerError",
			err:      apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error", nil),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Unknown Error",
			err:      errors.New("Unknown error"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusCode := apierror.MapErrorToHTTPStatus(tt.err)
			assert.Equal(t, tt.expected, statusCode)
		})
	}
}
