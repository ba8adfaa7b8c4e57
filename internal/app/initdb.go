package app

import (
	"errors"
	"strings"
	"time"

	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	superEmail      = "admin@stocknexus.local"
	defaultPassword = "stocknexus"
)

// checkSuper bootstraps the default admin. Admins bypass the approval
// gate, so the bootstrap account is usable immediately.
func (a *Application) checkSuper() {
	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var account domain.Account
	err := a.gormDB.Where("LOWER(email) = ?", superEmail).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		account = domain.Account{
			ID:               common.UUIDint64(),
			Email:            superEmail,
			Password:         hashedPassword,
			EmailConfirmedAt: &now,
			LastLogin:        now,
		}
		if err := a.gormDB.Create(&account).Error; err != nil {
			zap.L().Error("failed to create default admin account", zap.Error(err))
			return
		}
		zap.L().Info("initialized default admin account", zap.String("email", superEmail))
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	var profile domain.Profile
	if err := a.gormDB.Where("id = ?", account.ID).First(&profile).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		a.gormDB.Create(&domain.Profile{
			ID:       account.ID,
			Email:    account.Email,
			FullName: "Administrator",
			Approved: true,
		})
	}

	var role domain.UserRole
	err = a.gormDB.Where("user_id = ?", account.ID).First(&role).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		a.gormDB.Create(&domain.UserRole{
			ID:     common.UUIDint64(),
			UserID: account.ID,
			Role:   domain.RoleAdmin,
		})
	case err == nil && !strings.EqualFold(role.Role, domain.RoleAdmin):
		// repair a demoted bootstrap admin
		if err := a.gormDB.Model(&domain.UserRole{}).Where("id = ?", role.ID).
			Updates(map[string]interface{}{"role": domain.RoleAdmin, "updated_at": time.Now()}).Error; err != nil {
			zap.L().Error("failed to repair admin role", zap.Error(err))
			return
		}
		zap.L().Warn("repaired default admin role", zap.String("email", superEmail))
	}
}

// checkSettings seeds missing sys_config defaults.
func (a *Application) checkSettings() {
	defaults := []domain.SysConfig{
		{Sort: 1, Type: ConfigSystem, Name: ConfigLowStockScanInterval, Value: "300",
			Remark: "Seconds between low-stock alert scans"},
		{Sort: 2, Type: ConfigSystem, Name: ConfigAuditHistoryDays, Value: "365",
			Remark: "Days of operator audit log to retain"},
		{Sort: 3, Type: ConfigSystem, Name: ConfigAppURL, Value: a.appConfig.Web.AppURL,
			Remark: "Public base URL used in notification emails"},
	}

	for _, cfg := range defaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", cfg.Type, cfg.Name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&cfg)
			zap.L().Info("initialized config",
				zap.String("key", cfg.Type+"."+cfg.Name),
				zap.String("default", cfg.Value))
		}
	}
}

// checkSchedulers initializes default scheduled tasks
func (a *Application) checkSchedulers() {
	defaultSchedulers := []domain.SysScheduler{
		{
			Name:     "Low Stock Scan",
			TaskType: domain.TaskLowStockScan,
			Interval: 300, // 5 minutes
			Status:   common.ENABLED,
			Remark:   "Aggregates inventory per department and raises stock alerts",
		},
		{
			Name:     "Audit Log Cleanup",
			TaskType: domain.TaskAuditCleanup,
			Interval: 86400, // daily
			Status:   common.ENABLED,
			Remark:   "Prunes operator audit entries past the retention window",
		},
	}

	for _, sched := range defaultSchedulers {
		var count int64
		a.gormDB.Model(&domain.SysScheduler{}).
			Where("task_type = ?", sched.TaskType).
			Count(&count)

		if count == 0 {
			sched.NextRunAt = time.Now().Add(time.Duration(sched.Interval) * time.Second)
			if err := a.gormDB.Create(&sched).Error; err != nil {
				zap.L().Error("failed to create default scheduler",
					zap.String("name", sched.Name),
					zap.Error(err))
			} else {
				zap.L().Info("initialized default scheduler",
					zap.String("name", sched.Name),
					zap.String("task_type", sched.TaskType))
			}
		}
	}
}
