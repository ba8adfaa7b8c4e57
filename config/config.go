package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
	AppURL string `yaml:"app_url" json:"app_url"`
}

type DBConfig struct {
	Type   string `yaml:"type" json:"type"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Name   string `yaml:"name" json:"name"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
	Debug  bool   `yaml:"debug" json:"debug"`
}

type SmtpConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

type StorageConfig struct {
	Dir       string `yaml:"dir" json:"dir"`
	PublicURL string `yaml:"public_url" json:"public_url"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SystemConfig  `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Smtp     SmtpConfig    `yaml:"smtp" json:"smtp"`
	Storage  StorageConfig `yaml:"storage" json:"storage"`
	Logger   LoggerConfig  `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "StockNexus",
		Location: "Asia/Kolkata",
		Workdir:  "/var/stocknexus",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-0731-1203-xxtx-0f568ac9da37",
		AppURL: "http://127.0.0.1:1816",
	},
	Database: DBConfig{
		Type:   "postgres",
		Host:   "127.0.0.1",
		Port:   5432,
		Name:   "stocknexus",
		User:   "postgres",
		Passwd: "myroot",
		Debug:  false,
	},
	Smtp: SmtpConfig{
		Enabled:  false,
		Host:     "smtp.example.org",
		Port:     587,
		From:     "StockNexus <no-reply@example.org>",
	},
	Storage: StorageConfig{
		Dir:       "/var/stocknexus/objects",
		PublicURL: "/files",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/stocknexus/stocknexus.log",
	},
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(c.Storage.Dir, 0755)
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := strconv.ParseInt(evalue, 10, 64)
	if err == nil {
		*val = int(p)
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// overrides. A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	// env vars may come from a local .env file
	_ = godotenv.Load()

	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("STOCKNEXUS_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("STOCKNEXUS_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("STOCKNEXUS_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOCKNEXUS_WEB_HOST", &cfg.Web.Host)
	setEnvValue("STOCKNEXUS_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("STOCKNEXUS_WEB_APP_URL", &cfg.Web.AppURL)
	setEnvIntValue("STOCKNEXUS_WEB_PORT", &cfg.Web.Port)

	setEnvValue("STOCKNEXUS_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOCKNEXUS_DB_HOST", &cfg.Database.Host)
	setEnvValue("STOCKNEXUS_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOCKNEXUS_DB_USER", &cfg.Database.User)
	setEnvValue("STOCKNEXUS_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("STOCKNEXUS_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("STOCKNEXUS_DB_DEBUG", &cfg.Database.Debug)

	setEnvBoolValue("STOCKNEXUS_SMTP_ENABLED", &cfg.Smtp.Enabled)
	setEnvValue("STOCKNEXUS_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("STOCKNEXUS_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("STOCKNEXUS_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("STOCKNEXUS_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvValue("STOCKNEXUS_SMTP_FROM", &cfg.Smtp.From)

	setEnvValue("STOCKNEXUS_STORAGE_DIR", &cfg.Storage.Dir)
	setEnvValue("STOCKNEXUS_STORAGE_PUBLIC_URL", &cfg.Storage.PublicURL)

	setEnvValue("STOCKNEXUS_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOCKNEXUS_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("STOCKNEXUS_LOGGER_FILENAME", &cfg.Logger.Filename)

	cfg.initDirs()
	return cfg
}
