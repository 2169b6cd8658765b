package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/controllers"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/app/services"
	"github.com/yigit/bluecollar/internal/middleware"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/auth"
	"github.com/yigit/bluecollar/internal/pkg/pagination"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Stubs embed the service interface so only the methods a test needs are
// implemented; anything else panics.

type stubCommunities struct {
	services.CommunityService
	list func(cursor string) (*dto.CommunityListResponse, error)
	get  func(id string) (*models.Community, error)
}

func (s *stubCommunities) ListCommunities(_ context.Context, cursor string) (*dto.CommunityListResponse, error) {
	return s.list(cursor)
}

func (s *stubCommunities) GetCommunity(_ context.Context, id string) (*models.Community, error) {
	return s.get(id)
}

type stubMemberships struct {
	services.MembershipService
	joined  []dto.MembershipRequest
	left    []dto.MembershipRequest
	joinErr error
}

func (s *stubMemberships) Leave(_ context.Context, req *dto.MembershipRequest) error {
	s.left = append(s.left, *req)
	return nil
}

func (s *stubMemberships) Join(_ context.Context, req *dto.MembershipRequest) (*models.Membership, error) {
	s.joined = append(s.joined, *req)
	if s.joinErr != nil {
		return nil, s.joinErr
	}
	return &models.Membership{
		CommunityID:   req.CommunityID,
		UserID:        req.UserID,
		CommunityName: req.CommunityName,
		Status:        models.MembershipActive,
		JoinedAt:      time.Now(),
	}, nil
}

type stubJobs struct {
	services.JobPostService
	created []dto.CreateJobPostRequest
}

func (s *stubJobs) CreateJobPost(_ context.Context, req *dto.CreateJobPostRequest) (*models.JobPost, error) {
	s.created = append(s.created, *req)
	return &models.JobPost{ID: "job-1", EmployerID: req.EmployerID, JobTitle: req.JobTitle}, nil
}

type stubApplications struct {
	services.JobApplicationService
	exists bool
}

func (s *stubApplications) CheckExists(_ context.Context, _, _ string) (bool, error) {
	return s.exists, nil
}

type harness struct {
	router      *gin.Engine
	tokens      *auth.JWTService
	communities *stubCommunities
	memberships *stubMemberships
	jobs        *stubJobs
	apps        *stubApplications
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		tokens: auth.NewJWTService(auth.JWTConfig{
			SecretKey:   "routes-test-secret",
			TokenExp:    time.Hour,
			TokenIssuer: "routes-test",
		}),
		communities: &stubCommunities{},
		memberships: &stubMemberships{},
		jobs:        &stubJobs{},
		apps:        &stubApplications{},
	}

	h.router = gin.New()
	SetupRouter(h.router, Controllers{
		Community:   controllers.NewCommunityController(h.communities, h.memberships, 1<<20),
		Post:        controllers.NewPostController(nil, 1<<20),
		Job:         controllers.NewJobController(h.jobs),
		Application: controllers.NewApplicationController(h.apps),
		Profile:     controllers.NewProfileController(nil, 1<<20),
	}, middleware.NewAuthMiddleware(h.tokens))
	return h
}

func (h *harness) token(t *testing.T, userID string, role models.RoleType) string {
	t.Helper()
	tok, err := h.tokens.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func (h *harness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// doForm sends fields as a multipart form
func (h *harness) doForm(t *testing.T, method, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error == nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp.Error.Code
}

func TestPingIsPublic(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAPIRoutesRequireToken(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/community/all", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = h.do(http.MethodGet, "/api/community/all", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", w.Code)
	}
}

func TestStaticRoutesWinOverCommunityID(t *testing.T) {
	h := newHarness(t)
	h.communities.list = func(string) (*dto.CommunityListResponse, error) {
		return &dto.CommunityListResponse{Communities: []models.Community{}}, nil
	}
	h.communities.get = func(id string) (*models.Community, error) {
		t.Errorf("GetCommunity called with %q", id)
		return nil, apperrors.NewResourceNotFoundError("Community not found")
	}

	w := h.do(http.MethodGet, "/api/community/all", h.token(t, "u1", models.RoleWorker), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
}

func TestListCommunitiesInvalidCursor(t *testing.T) {
	h := newHarness(t)
	h.communities.list = func(cursor string) (*dto.CommunityListResponse, error) {
		if cursor != "ghost" {
			t.Errorf("cursor = %q, want ghost", cursor)
		}
		return nil, pagination.ErrInvalidCursor
	}

	w := h.do(http.MethodGet, "/api/community/all?cursor=ghost", h.token(t, "u1", models.RoleWorker), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != dto.ErrorCodeInvalidCursor {
		t.Errorf("code = %s, want %s", code, dto.ErrorCodeInvalidCursor)
	}
}

func TestGetCommunityNotFound(t *testing.T) {
	h := newHarness(t)
	h.communities.get = func(string) (*models.Community, error) {
		return nil, apperrors.NewResourceNotFoundError("Community not found")
	}

	w := h.do(http.MethodGet, "/api/community/c-404", h.token(t, "u1", models.RoleWorker), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestJoinCommunity(t *testing.T) {
	body := dto.MembershipRequest{UserID: "u1", CommunityID: "c1", CommunityName: "Welders"}

	t.Run("created", func(t *testing.T) {
		h := newHarness(t)
		w := h.do(http.MethodPost, "/api/community/join", h.token(t, "u1", models.RoleWorker), body)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body %s", w.Code, w.Body.String())
		}
		if len(h.memberships.joined) != 1 || h.memberships.joined[0] != body {
			t.Errorf("joined = %+v", h.memberships.joined)
		}
	})

	t.Run("actor mismatch", func(t *testing.T) {
		h := newHarness(t)
		w := h.do(http.MethodPost, "/api/community/join", h.token(t, "someone-else", models.RoleWorker), body)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
		if len(h.memberships.joined) != 0 {
			t.Error("service must not be called when the actor does not match")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newHarness(t)
		w := h.do(http.MethodPost, "/api/community/join", h.token(t, "u1", models.RoleWorker), map[string]string{"userId": "u1"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if code := errorCode(t, w); code != dto.ErrorCodeValidationFailed {
			t.Errorf("code = %s, want %s", code, dto.ErrorCodeValidationFailed)
		}
	})

	t.Run("already member", func(t *testing.T) {
		h := newHarness(t)
		h.memberships.joinErr = apperrors.ErrAlreadyMember
		w := h.do(http.MethodPost, "/api/community/join", h.token(t, "u1", models.RoleWorker), body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if code := errorCode(t, w); code != dto.ErrorCodeConflict {
			t.Errorf("code = %s, want %s", code, dto.ErrorCodeConflict)
		}
	})
}

func TestMembershipAcceptsMultipartForms(t *testing.T) {
	fields := map[string]string{"userId": "u1", "communityId": "c1", "communityName": "Welders"}
	want := dto.MembershipRequest{UserID: "u1", CommunityID: "c1", CommunityName: "Welders"}

	t.Run("join", func(t *testing.T) {
		h := newHarness(t)
		w := h.doForm(t, http.MethodPost, "/api/community/join", h.token(t, "u1", models.RoleWorker), fields)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body %s", w.Code, w.Body.String())
		}
		if len(h.memberships.joined) != 1 || h.memberships.joined[0] != want {
			t.Errorf("joined = %+v", h.memberships.joined)
		}
	})

	t.Run("leave", func(t *testing.T) {
		h := newHarness(t)
		w := h.doForm(t, http.MethodPost, "/api/community/leave", h.token(t, "u1", models.RoleWorker), fields)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
		}
		if len(h.memberships.left) != 1 || h.memberships.left[0] != want {
			t.Errorf("left = %+v", h.memberships.left)
		}
	})

	t.Run("form actor mismatch", func(t *testing.T) {
		h := newHarness(t)
		w := h.doForm(t, http.MethodPost, "/api/community/leave", h.token(t, "u2", models.RoleWorker), fields)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
		if len(h.memberships.left) != 0 {
			t.Error("service must not be called when the actor does not match")
		}
	})

	t.Run("form missing fields", func(t *testing.T) {
		h := newHarness(t)
		w := h.doForm(t, http.MethodPost, "/api/community/join", h.token(t, "u1", models.RoleWorker), map[string]string{"userId": "u1"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestJobRoutesEnforceRoles(t *testing.T) {
	job := map[string]interface{}{
		"employer_id":  "e1",
		"job_title":    "Mason",
		"type_of_work": "full-time",
		"pincode":      "560001",
	}

	tests := []struct {
		name       string
		user       string
		role       models.RoleType
		body       map[string]interface{}
		wantStatus int
		wantCalls  int
	}{
		{"employer creates", "e1", models.RoleEmployer, job, http.StatusCreated, 1},
		{"worker is forbidden", "e1", models.RoleWorker, job, http.StatusForbidden, 0},
		{"employer for someone else", "e2", models.RoleEmployer, job, http.StatusForbidden, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			w := h.do(http.MethodPost, "/api/job/create", h.token(t, tt.user, tt.role), tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if len(h.jobs.created) != tt.wantCalls {
				t.Errorf("CreateJobPost calls = %d, want %d", len(h.jobs.created), tt.wantCalls)
			}
		})
	}
}

func TestCreateJobRejectsBadPincode(t *testing.T) {
	h := newHarness(t)
	body := map[string]interface{}{
		"employer_id":  "e1",
		"job_title":    "Mason",
		"type_of_work": "full-time",
		"pincode":      "12AB",
	}

	w := h.do(http.MethodPost, "/api/job/create", h.token(t, "e1", models.RoleEmployer), body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pincode") {
		t.Errorf("body %s should name the pincode field", w.Body.String())
	}
	if len(h.jobs.created) != 0 {
		t.Error("service must not be called for invalid input")
	}
}

func TestCheckApplicationOnlyForWorkers(t *testing.T) {
	h := newHarness(t)
	h.apps.exists = true
	body := dto.ApplicationRequest{WorkerID: "w1", JobID: "j1"}

	w := h.do(http.MethodPost, "/api/job/check-application", h.token(t, "w1", models.RoleWorker), body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data dto.CheckApplicationResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Exists {
		t.Error("exists = false, want true")
	}

	w = h.do(http.MethodPost, "/api/job/check-application", h.token(t, "w1", models.RoleEmployer), body)
	if w.Code != http.StatusForbidden {
		t.Fatalf("employer status = %d, want 403", w.Code)
	}
}
