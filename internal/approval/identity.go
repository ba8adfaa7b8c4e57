package approval

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/pkg/common"
	"gorm.io/gorm"
)

// Identity is the administrative account-management interface consumed by
// the approval workflow.
type Identity interface {
	// FindByEmail looks up an account case-insensitively. A missing
	// account returns (nil, nil).
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create registers a new account with the given password and a
	// confirmed email address.
	Create(ctx context.Context, email, password string) (*domain.Account, error)
	// ConfirmEmail force-confirms an account's email address.
	ConfirmEmail(ctx context.Context, id int64) error
	// UpdatePassword replaces an account's password out-of-band.
	UpdatePassword(ctx context.Context, id int64, password string) error
}

// GormIdentity implements Identity over the accounts table.
type GormIdentity struct {
	db *gorm.DB
}

func NewGormIdentity(db *gorm.DB) *GormIdentity {
	return &GormIdentity{db: db}
}

func (g *GormIdentity) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	err := g.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "identity: find account")
	}
	return &account, nil
}

func (g *GormIdentity) Create(ctx context.Context, email, password string) (*domain.Account, error) {
	now := time.Now()
	account := domain.Account{
		ID:               common.UUIDint64(),
		Email:            strings.TrimSpace(email),
		Password:         common.Sha256HashWithSalt(password, common.GetSecretSalt()),
		EmailConfirmedAt: &now,
	}
	if err := g.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, errors.Wrap(err, "identity: create account")
	}
	return &account, nil
}

func (g *GormIdentity) ConfirmEmail(ctx context.Context, id int64) error {
	now := time.Now()
	return g.db.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"email_confirmed_at": now, "updated_at": now}).Error
}

func (g *GormIdentity) UpdatePassword(ctx context.Context, id int64, password string) error {
	return g.db.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password":   common.Sha256HashWithSalt(password, common.GetSecretSalt()),
			"updated_at": time.Now(),
		}).Error
}
