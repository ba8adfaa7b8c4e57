// Package approval implements the registration approval workflow: the
// multi-step sequence run when an admin approves a signup request.
package approval

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/pkg/common"
	"github.com/stocknexus/stocknexus/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRequestNotFound = errors.New("approval: registration request not found")
	ErrRequestRejected = errors.New("approval: request already rejected")
	ErrNotRejected     = errors.New("approval: only rejected requests can be deleted")
)

// Mailer delivers the best-effort approval notification.
type Mailer interface {
	Send(to, subject, html string) error
}

// Service runs the approval state machine. All mutations of profiles and
// roles are atomic upserts, so re-invocation (a double-click, a retried
// request) never duplicates accounts.
type Service struct {
	db       *gorm.DB
	identity Identity
	mailer   Mailer
	appURL   string
}

func NewService(db *gorm.DB, identity Identity, mailer Mailer, appURL string) *Service {
	return &Service{db: db, identity: identity, mailer: mailer, appURL: appURL}
}

// Result reports what the approval did.
type Result struct {
	UserID    int64 `json:"user_id,string"`
	IsNewUser bool  `json:"is_new_user"`
	EmailSent bool  `json:"email_sent"`
}

// Approve transitions a pending request to approved:
//
//  1. reuse the account registered under the request's email, or create
//     one with a random, never-communicated password
//  2. upsert the profile with approved=true
//  3. upsert the role assignment
//  4. mark the request approved, recording the reviewer
//  5. best-effort: send the notification email
//
// Step 5 failing does not roll back steps 1-4 and does not fail Approve.
func (s *Service) Approve(ctx context.Context, requestID, reviewerID int64) (*Result, error) {
	var req domain.RegistrationRequest
	err := s.db.WithContext(ctx).Where("id = ?", requestID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "approval: query request")
	}
	if req.Status == domain.RequestStatusRejected {
		return nil, ErrRequestRejected
	}

	account, err := s.identity.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	isNew := false
	if account == nil {
		isNew = true
		account, err = s.identity.Create(ctx, req.Email, common.RandomPassword(32))
		if err != nil {
			return nil, err
		}
		zap.L().Info("created account for approved request",
			zap.Int64("user_id", account.ID),
			zap.String("email", req.Email))
	} else if account.EmailConfirmedAt == nil {
		if err := s.identity.ConfirmEmail(ctx, account.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now()

	profile := domain.Profile{
		ID:         account.ID,
		Email:      req.Email,
		FullName:   req.FullName,
		Department: req.Department,
		Approved:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "department", "approved", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		return nil, errors.Wrap(err, "approval: upsert profile")
	}

	role := domain.UserRole{
		ID:         common.UUIDint64(),
		UserID:     account.ID,
		Role:       req.RequestedRole,
		Department: req.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "department", "updated_at"}),
	}).Create(&role).Error
	if err != nil {
		return nil, errors.Wrap(err, "approval: upsert role")
	}

	err = s.db.WithContext(ctx).Model(&domain.RegistrationRequest{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"status":      domain.RequestStatusApproved,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
			"updated_at":  now,
		}).Error
	if err != nil {
		return nil, errors.Wrap(err, "approval: update request")
	}

	metrics.IncrCounter(metrics.UsersApproved, 1)

	emailSent := false
	if s.mailer != nil {
		html := approvalEmail(req, isNew, s.appURL)
		if err := s.mailer.Send(req.Email, "Your StockNexus Account Has Been Approved", html); err != nil {
			// informational, not transactional
			zap.L().Warn("approval notification email failed",
				zap.String("email", req.Email), zap.Error(err))
		} else {
			emailSent = true
		}
	}

	return &Result{UserID: account.ID, IsNewUser: isNew, EmailSent: emailSent}, nil
}

// Reject transitions a pending request to rejected.
func (s *Service) Reject(ctx context.Context, requestID, reviewerID int64) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&domain.RegistrationRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]interface{}{
			"status":      domain.RequestStatusRejected,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "approval: reject request")
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// Delete hard-deletes a request. Only rejected requests may be deleted;
// everything else is guarded off.
func (s *Service) Delete(ctx context.Context, requestID int64) error {
	var req domain.RegistrationRequest
	err := s.db.WithContext(ctx).Where("id = ?", requestID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return errors.Wrap(err, "approval: query request")
	}
	if req.Status != domain.RequestStatusRejected {
		return ErrNotRejected
	}
	return s.db.WithContext(ctx).Where("id = ?", requestID).
		Delete(&domain.RegistrationRequest{}).Error
}
