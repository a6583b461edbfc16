package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	UserID   string `json:"userId" validate:"required,uuid"`
	Reason   string `json:"reason" validate:"required,max=500"`
	URL      string `json:"url" validate:"omitempty,httpurl"`
	Interval int    `json:"interval" validate:"omitempty,min=1,max=1440"`
}

func (testRequest) ValidationMessages() map[string]string {
	return map[string]string{"reason.required": "Reason is required for rejection"}
}

func TestGetValidator_Singleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   testRequest
		wantErr string
	}{
		{
			name:  "valid",
			input: testRequest{UserID: "0b7c1a7e-4a0e-4b8e-9a57-000000000001", Reason: "spam", URL: "https://jellyfin.example.com"},
		},
		{
			name:    "missing reason uses override",
			input:   testRequest{UserID: "0b7c1a7e-4a0e-4b8e-9a57-000000000001"},
			wantErr: "Reason is required for rejection",
		},
		{
			name:    "bad uuid uses json name",
			input:   testRequest{UserID: "nope", Reason: "x"},
			wantErr: "userId must be a valid UUID",
		},
		{
			name:    "ftp url",
			input:   testRequest{UserID: "0b7c1a7e-4a0e-4b8e-9a57-000000000001", Reason: "x", URL: "ftp://host"},
			wantErr: "url must be a valid HTTP or HTTPS URL",
		},
		{
			name:    "interval above max",
			input:   testRequest{UserID: "0b7c1a7e-4a0e-4b8e-9a57-000000000001", Reason: "x", Interval: 2000},
			wantErr: "interval must be at most 1440",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(&testRequest{})
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 2)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "userId is required")
	assert.Contains(t, apiErr.Message, "Reason is required for rejection")
	assert.Len(t, apiErr.Details["fields"], 2)

	single := NewRequestValidationError("userId", "uuid", "Invalid user ID")
	assert.Equal(t, "Invalid user ID", single.ToAPIError().Message)
	assert.Equal(t, "userId", single.ToAPIError().Details["field"])
}

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, IsHTTPURL("http://localhost:8096"))
	assert.True(t, IsHTTPURL("https://cloud.example.com/"))
	assert.False(t, IsHTTPURL("ftp://files.example.com"))
	assert.False(t, IsHTTPURL("not a url"))
	assert.False(t, IsHTTPURL(""))
}
