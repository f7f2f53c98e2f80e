package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request RegisterRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid request",
			request: RegisterRequest{
				Name:     "Jane Inspector",
				Email:    "jane@example.com",
				Password: "password123",
			},
			wantErr: false,
		},
		{
			name: "missing name",
			request: RegisterRequest{
				Email:    "jane@example.com",
				Password: "password123",
			},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name: "invalid email format",
			request: RegisterRequest{
				Name:     "Jane Inspector",
				Email:    "not-an-email",
				Password: "password123",
			},
			wantErr: true,
			errMsg:  "email",
		},
		{
			name: "password too short",
			request: RegisterRequest{
				Name:     "Jane Inspector",
				Email:    "jane@example.com",
				Password: "short",
			},
			wantErr: true,
			errMsg:  "min",
		},
		{
			name: "password exactly 8 characters",
			request: RegisterRequest{
				Name:     "Jane Inspector",
				Email:    "jane@example.com",
				Password: "12345678",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request LoginRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: LoginRequest{
				Email:    "jane@example.com",
				Password: "password123",
			},
			wantErr: false,
		},
		{
			name:    "missing email",
			request: LoginRequest{Password: "password123"},
			wantErr: true,
		},
		{
			name: "invalid email format",
			request: LoginRequest{
				Email:    "not-an-email",
				Password: "password123",
			},
			wantErr: true,
		},
		{
			name:    "missing password",
			request: LoginRequest{Email: "jane@example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUpdatePasswordRequest_Validation(t *testing.T) {
	req := UpdatePasswordRequest{
		CurrentPassword: "oldpassword123",
		NewPassword:     "newpassword456",
	}
	require.NoError(t, req.Validate())

	req.NewPassword = "short"
	require.Error(t, req.Validate())

	req.NewPassword = "newpassword456"
	req.CurrentPassword = ""
	require.Error(t, req.Validate())
}

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	inspector := &User{Role: RoleInspector}

	assert.True(t, admin.IsAdmin())
	assert.False(t, inspector.IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}

func TestLoginResponse_Serialization(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	response := LoginResponse{
		User: &User{
			ID:        userID,
			Name:      "Jane Inspector",
			Email:     "jane@example.com",
			Role:      RoleInspector,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Token: "test-jwt-token-12345",
	}

	jsonBytes, err := json.Marshal(response)
	require.NoError(t, err)

	jsonStr := string(jsonBytes)
	assert.Contains(t, jsonStr, userID.String())
	assert.Contains(t, jsonStr, "inspector")
	assert.NotContains(t, jsonStr, "password_hash")

	var unmarshaled LoginResponse
	require.NoError(t, json.Unmarshal(jsonBytes, &unmarshaled))
	assert.Equal(t, "test-jwt-token-12345", unmarshaled.Token)
	require.NotNil(t, unmarshaled.User)
	assert.Equal(t, userID, unmarshaled.User.ID)
	assert.Equal(t, RoleInspector, unmarshaled.User.Role)
}
