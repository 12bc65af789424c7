// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQueryRequest(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{
			name:  "minimal valid request",
			body:  `{"text": "Zeige mir alle Leads", "tenantId": "tenant-1"}`,
			valid: true,
		},
		{
			name:  "valid request with context",
			body:  `{"text": "Umsatz der letzten Woche", "tenantId": "tenant-1", "context": "revenue"}`,
			valid: true,
		},
		{
			name:  "missing text",
			body:  `{"tenantId": "tenant-1"}`,
			valid: false,
		},
		{
			name:  "missing tenantId",
			body:  `{"text": "Zeige mir alle Leads"}`,
			valid: false,
		},
		{
			name:  "empty tenantId",
			body:  `{"text": "Zeige mir alle Leads", "tenantId": ""}`,
			valid: false,
		},
		{
			name:  "text too short",
			body:  `{"text": "ab", "tenantId": "tenant-1"}`,
			valid: false,
		},
		{
			name:  "context outside enum",
			body:  `{"text": "Zeige mir alle Leads", "tenantId": "tenant-1", "context": "users"}`,
			valid: false,
		},
		{
			name:  "extra property rejected",
			body:  `{"text": "Zeige mir alle Leads", "tenantId": "tenant-1", "limit": 10}`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateQueryRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Errors)
			}
		})
	}
}

func TestValidateQueryRequest_InvalidJSON(t *testing.T) {
	_, err := ValidateQueryRequest([]byte("{not json"))
	assert.Error(t, err)
}
