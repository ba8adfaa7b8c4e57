package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/testdb"
	"github.com/stocknexus/stocknexus/pkg/common"
	"gorm.io/gorm"
)

type recordingMailer struct {
	sent []string
	fail bool
}

func (m *recordingMailer) Send(to, subject, html string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func pendingRequest(t *testing.T, db *gorm.DB, email string) *domain.RegistrationRequest {
	t.Helper()
	req := &domain.RegistrationRequest{
		ID:            common.UUIDint64(),
		Email:         email,
		FullName:      "Asha Verma",
		Department:    "IT",
		RequestedRole: domain.RoleStaff,
		Status:        domain.RequestStatusPending,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("seeding request: %v", err)
	}
	return req
}

func TestApproveCreatesAccountProfileAndRole(t *testing.T) {
	db := testdb.New(t)
	mailer := &recordingMailer{}
	svc := NewService(db, NewGormIdentity(db), mailer, "http://app.local")
	req := pendingRequest(t, db, "asha@lab.example")

	res, err := svc.Approve(context.Background(), req.ID, 1)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !res.IsNewUser {
		t.Error("expected a new account")
	}
	if !res.EmailSent || len(mailer.sent) != 1 {
		t.Errorf("expected one notification email, sent=%v", mailer.sent)
	}

	var profile domain.Profile
	if err := db.Where("id = ?", res.UserID).First(&profile).Error; err != nil {
		t.Fatalf("profile missing: %v", err)
	}
	if !profile.Approved || profile.Department != "IT" {
		t.Errorf("profile = %+v", profile)
	}

	var role domain.UserRole
	if err := db.Where("user_id = ?", res.UserID).First(&role).Error; err != nil {
		t.Fatalf("role missing: %v", err)
	}
	if role.Role != domain.RoleStaff {
		t.Errorf("role = %q, want staff", role.Role)
	}

	var updated domain.RegistrationRequest
	db.Where("id = ?", req.ID).First(&updated)
	if updated.Status != domain.RequestStatusApproved {
		t.Errorf("request status = %q", updated.Status)
	}
	if updated.ReviewedBy == nil || *updated.ReviewedBy != 1 {
		t.Error("reviewer not recorded")
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	svc := NewService(db, NewGormIdentity(db), &recordingMailer{}, "http://app.local")
	req := pendingRequest(t, db, "double@lab.example")

	first, err := svc.Approve(context.Background(), req.ID, 1)
	if err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	second, err := svc.Approve(context.Background(), req.ID, 1)
	if err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if second.IsNewUser {
		t.Error("second approval must reuse the account")
	}
	if first.UserID != second.UserID {
		t.Errorf("user ids diverge: %d vs %d", first.UserID, second.UserID)
	}

	var accounts, profiles, roles int64
	db.Model(&domain.Account{}).Count(&accounts)
	db.Model(&domain.Profile{}).Count(&profiles)
	db.Model(&domain.UserRole{}).Count(&roles)
	if accounts != 1 || profiles != 1 || roles != 1 {
		t.Errorf("counts after double approval: accounts=%d profiles=%d roles=%d, want 1/1/1",
			accounts, profiles, roles)
	}
}

func TestApproveFindsAccountCaseInsensitively(t *testing.T) {
	db := testdb.New(t)
	identity := NewGormIdentity(db)
	svc := NewService(db, identity, nil, "http://app.local")

	existing, err := identity.Create(context.Background(), "Mira@Lab.Example", "secret-pw")
	if err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	req := pendingRequest(t, db, "mira@lab.example")

	res, err := svc.Approve(context.Background(), req.ID, 1)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if res.IsNewUser {
		t.Error("existing account should be reused")
	}
	if res.UserID != existing.ID {
		t.Errorf("user id = %d, want existing %d", res.UserID, existing.ID)
	}
}

func TestApproveEmailFailureDoesNotFail(t *testing.T) {
	db := testdb.New(t)
	svc := NewService(db, NewGormIdentity(db), &recordingMailer{fail: true}, "http://app.local")
	req := pendingRequest(t, db, "mailless@lab.example")

	res, err := svc.Approve(context.Background(), req.ID, 1)
	if err != nil {
		t.Fatalf("Approve must tolerate mail failure: %v", err)
	}
	if res.EmailSent {
		t.Error("EmailSent should be false")
	}

	var updated domain.RegistrationRequest
	db.Where("id = ?", req.ID).First(&updated)
	if updated.Status != domain.RequestStatusApproved {
		t.Errorf("request status = %q, approval must stick", updated.Status)
	}
}

func TestRejectAndDelete(t *testing.T) {
	db := testdb.New(t)
	svc := NewService(db, NewGormIdentity(db), nil, "http://app.local")
	req := pendingRequest(t, db, "nope@lab.example")
	ctx := context.Background()

	// deleting a pending request is guarded off
	if err := svc.Delete(ctx, req.ID); !errors.Is(err, ErrNotRejected) {
		t.Errorf("Delete(pending) err = %v, want ErrNotRejected", err)
	}

	if err := svc.Reject(ctx, req.ID, 1); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	// approving a rejected request is refused
	if _, err := svc.Approve(ctx, req.ID, 1); !errors.Is(err, ErrRequestRejected) {
		t.Errorf("Approve(rejected) err = %v, want ErrRequestRejected", err)
	}

	if err := svc.Delete(ctx, req.ID); err != nil {
		t.Fatalf("Delete(rejected): %v", err)
	}
	var count int64
	db.Model(&domain.RegistrationRequest{}).Count(&count)
	if count != 0 {
		t.Errorf("request not deleted, count=%d", count)
	}
}

func TestRejectMissingRequest(t *testing.T) {
	db := testdb.New(t)
	svc := NewService(db, NewGormIdentity(db), nil, "")
	if err := svc.Reject(context.Background(), 9999, 1); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("err = %v, want ErrRequestNotFound", err)
	}
}
