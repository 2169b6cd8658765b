package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/auth"
	"github.com/yigit/bluecollar/internal/pkg/pagination"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
		wantMsg    string
	}{
		{"not found", apperrors.NewResourceNotFoundError("Community not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Community not found"},
		{"name mismatch", apperrors.ErrNameMismatch, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Community name does not match"},
		{"already member", apperrors.ErrAlreadyMember, http.StatusBadRequest, dto.ErrorCodeConflict, "User is already a member of this community"},
		{"duplicate application", fmt.Errorf("apply: %w", apperrors.ErrDuplicateApplication), http.StatusBadRequest, dto.ErrorCodeConflict, "You have already applied for this job"},
		{"profile exists", apperrors.NewConflictError("Profile already exists for this user."), http.StatusConflict, dto.ErrorCodeConflict, "Profile already exists for this user."},
		{"underflow", apperrors.ErrCounterUnderflow, http.StatusConflict, dto.ErrorCodeConflict, "Community member count is already zero"},
		{"not a member", apperrors.ErrNotMember, http.StatusForbidden, dto.ErrorCodeForbidden, "User is not a member of this community"},
		{"invalid cursor", pagination.ErrInvalidCursor, http.StatusBadRequest, dto.ErrorCodeInvalidCursor, "Invalid cursor provided"},
		{"invalid limit", pagination.ErrInvalidLimit, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Limit must be a number between 1 and 100"},
		{"file type", apperrors.ErrUnsupportedFileType.WithDetails(map[string]interface{}{"file": "a.exe"}), http.StatusBadRequest, dto.ErrorCodeUnsupportedFile, "Unsupported file type"},
		{"invalid status", apperrors.ErrInvalidStatus, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid status. Must be one of: pending, accepted, rejected"},
		{"opaque", errors.New("error executing query: boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

			HandleAPIError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decodeError(t, w)
			if resp.Success || resp.Error == nil {
				t.Fatalf("not an error envelope: %s", w.Body.String())
			}
			if resp.Error.Code != tt.wantCode || resp.Error.Message != tt.wantMsg {
				t.Fatalf("error = %s %q, want %s %q", resp.Error.Code, resp.Error.Message, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenExp: time.Hour, TokenIssuer: "test"})
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	api := r.Group("/api", m.JWTAuth())
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUserID(c)})
	})
	api.GET("/employer", m.RoleRequired(models.RoleEmployer), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	api.POST("/act/:actor", func(c *gin.Context) {
		if !RequireActor(c, c.Param("actor")) {
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r, jwtService
}

func TestJWTAuth(t *testing.T) {
	r, jwtService := newAuthRouter(t)
	worker, err := jwtService.GenerateToken("w1", models.RoleWorker)
	if err != nil {
		t.Fatal(err)
	}
	expired, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenExp: -time.Minute, TokenIssuer: "test"}).
		GenerateToken("w1", models.RoleWorker)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"missing header", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"garbage", "Bearer nonsense", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"valid", "Bearer " + worker, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				if resp := decodeError(t, w); resp.Error.Code != tt.wantCode {
					t.Fatalf("code = %s, want %s", resp.Error.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestRoleRequiredAndActor(t *testing.T) {
	r, jwtService := newAuthRouter(t)
	worker, _ := jwtService.GenerateToken("w1", models.RoleWorker)
	employer, _ := jwtService.GenerateToken("e1", models.RoleEmployer)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"worker on employer route", http.MethodGet, "/api/employer", worker, http.StatusForbidden},
		{"employer on employer route", http.MethodGet, "/api/employer", employer, http.StatusNoContent},
		{"acting as self", http.MethodPost, "/api/act/w1", worker, http.StatusNoContent},
		{"acting as someone else", http.MethodPost, "/api/act/w2", worker, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, 10)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want 200 200 429", codes)
	}

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second client status = %d", w.Code)
	}
}
