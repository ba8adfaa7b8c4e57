package app

import (
	"time"

	"github.com/spf13/cast"
	"github.com/stocknexus/stocknexus/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Settings categories and keys stored in sys_config.
const (
	ConfigSystem = "system"

	ConfigLowStockScanInterval = "LowStockScanInterval"
	ConfigAuditHistoryDays     = "AuditHistoryDays"
	ConfigAppURL               = "AppURL"
)

// ConfigManager reads and writes runtime settings stored in the
// sys_config table.
type ConfigManager struct {
	db *gorm.DB
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{db: db}
}

func (c *ConfigManager) GetString(category, name string) string {
	var cfg domain.SysConfig
	err := c.db.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return ""
	}
	return cfg.Value
}

func (c *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(c.GetString(category, name))
}

func (c *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(c.GetString(category, name))
}

func (c *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(c.GetString(category, name))
}

// Set updates an existing setting or creates it.
func (c *ConfigManager) Set(category, name, value string) error {
	var count int64
	c.db.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).Count(&count)
	if count == 0 {
		return c.db.Create(&domain.SysConfig{
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	}
	err := c.db.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	if err != nil {
		zap.L().Error("failed to update setting",
			zap.String("category", category), zap.String("name", name), zap.Error(err))
	}
	return err
}
