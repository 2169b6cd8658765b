package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/ids"
)

func newApplicationFixture() (*memDB, JobApplicationService) {
	db := newMemDB()
	svc := NewJobApplicationService(memApps{db}, memJobs{db}, memProfiles{db}, &recordingPublisher{}, zerolog.Nop())
	return db, svc
}

func (m *memDB) seedJob(id, employer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.jobs[id] = models.JobPost{ID: id, EmployerID: employer, JobTitle: "Helper", TypeOfWork: "daily", CreatedAt: now, UpdatedAt: now}
}

func (m *memDB) seedProfile(userID, first string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.profiles[userID] = models.UserProfile{UserID: userID, FirstName: first, CreatedAt: now, UpdatedAt: now}
}

func TestApplicationLifecycle(t *testing.T) {
	db, svc := newApplicationFixture()
	db.seedJob("j1", "e1")
	ctx := context.Background()

	app, err := svc.Apply(ctx, "w1", "j1")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Fatalf("status = %s, want pending", app.Status)
	}
	if app.ID != ids.ApplicationID("w1", "j1") {
		t.Fatalf("application id is not derived from the pair")
	}

	if ok, err := svc.CheckExists(ctx, "w1", "j1"); err != nil || !ok {
		t.Fatalf("CheckExists = %v, %v; want true", ok, err)
	}

	if _, err := svc.SetStatus(ctx, app.ID, "accepted"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	applied, err := svc.ListForWorker(ctx, "w1")
	if err != nil {
		t.Fatalf("ListForWorker: %v", err)
	}
	if len(applied.Jobs) != 1 || applied.Jobs[0].ApplicationStatus != models.ApplicationAccepted {
		t.Fatalf("applied jobs = %+v, want one accepted", applied.Jobs)
	}
	if applied.Jobs[0].ID != "j1" {
		t.Fatalf("job id = %s, want j1", applied.Jobs[0].ID)
	}

	if err := svc.Withdraw(ctx, "w1", "j1"); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if ok, _ := svc.CheckExists(ctx, "w1", "j1"); ok {
		t.Fatalf("application still exists after withdraw")
	}
}

func TestApplyTwiceIsConflict(t *testing.T) {
	db, svc := newApplicationFixture()
	db.seedJob("j1", "e1")
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "w1", "j1"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	_, err := svc.Apply(ctx, "w1", "j1")
	if !errors.Is(err, apperrors.ErrDuplicateApplication) || !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("err = %v, want duplicate application conflict", err)
	}
	if n := len(db.apps); n != 1 {
		t.Fatalf("stored %d applications, want 1", n)
	}
}

func TestApplyRejectsMissingInput(t *testing.T) {
	db, svc := newApplicationFixture()
	db.seedJob("j1", "e1")
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "", "j1"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("missing worker err = %v", err)
	}
	if _, err := svc.Apply(ctx, "w1", "missing"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("missing job err = %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	db, svc := newApplicationFixture()
	db.seedJob("j1", "e1")
	ctx := context.Background()
	app, err := svc.Apply(ctx, "w1", "j1")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	tests := []struct {
		name    string
		id      string
		status  string
		wantErr error
	}{
		{"unknown status", app.ID, "hired", apperrors.ErrInvalidStatus},
		{"wrong case", app.ID, "Accepted", apperrors.ErrInvalidStatus},
		{"missing id", "", "accepted", apperrors.ErrValidationFailed},
		{"unknown application", "nope", "accepted", apperrors.ErrResourceNotFound},
		{"reject", app.ID, "rejected", nil},
		{"back to pending", app.ID, "pending", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.SetStatus(ctx, tt.id, tt.status)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetStatus: %v", err)
			}
			if string(got.Status) != tt.status {
				t.Fatalf("status = %s, want %s", got.Status, tt.status)
			}
		})
	}
}

func TestWithdrawWithoutApplication(t *testing.T) {
	_, svc := newApplicationFixture()
	err := svc.Withdraw(context.Background(), "w1", "j1")
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListsDropDanglingReferences(t *testing.T) {
	db, svc := newApplicationFixture()
	db.seedJob("j1", "e1")
	db.seedJob("j2", "e1")
	db.seedProfile("w1", "Asha")
	ctx := context.Background()

	for _, pair := range [][2]string{{"w1", "j1"}, {"w1", "j2"}, {"w2", "j1"}} {
		if _, err := svc.Apply(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("Apply %v: %v", pair, err)
		}
	}
	db.mu.Lock()
	delete(db.jobs, "j2")
	db.mu.Unlock()

	applied, err := svc.ListForWorker(ctx, "w1")
	if err != nil {
		t.Fatalf("ListForWorker: %v", err)
	}
	if len(applied.Jobs) != 1 || applied.Jobs[0].ID != "j1" {
		t.Fatalf("applied jobs = %+v, want only j1", applied.Jobs)
	}

	// w2 has no profile
	applicants, err := svc.ListForJob(ctx, "j1")
	if err != nil {
		t.Fatalf("ListForJob: %v", err)
	}
	if len(applicants.Workers) != 1 || applicants.Workers[0].UserID != "w1" {
		t.Fatalf("applicants = %+v, want only w1", applicants.Workers)
	}
}
