// Package config 读取应用配置：环境变量优先，其次是工作目录下的 .env / config.env。
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/currency"

	"github.com/ByLCY/faktura/iban"
	"github.com/ByLCY/faktura/invoice"
)

// Config 汇总应用的全部配置。
type Config struct {
	App      AppConfig
	Invoice  InvoiceConfig
	Output   OutputConfig
	Registry RegistryConfig
	HTTP     HTTPConfig
}

// AppConfig 是通用配置。
type AppConfig struct {
	Env      string // development, production
	LogLevel string // trace, debug, info, warn, error
}

// InvoiceConfig 是发票文件未给出时使用的默认值。
type InvoiceConfig struct {
	IBAN       iban.IBAN
	Contractor invoice.RegistrationNumber
	DueDays    int
	Currency   currency.Unit
}

// Defaults 转换为 invoice.Defaults。
func (c InvoiceConfig) Defaults() invoice.Defaults {
	return invoice.Defaults{
		Contractor: c.Contractor,
		IBAN:       c.IBAN,
		DueDays:    c.DueDays,
		Currency:   c.Currency,
	}
}

// OutputConfig 控制渲染输出。
type OutputConfig struct {
	Format     string // pdf, html
	HTMLMinify bool
}

// RegistryConfig 是 ARES 客户端配置。
type RegistryConfig struct {
	URL     string
	Timeout time.Duration
}

// HTTPConfig 是 HTTP 服务配置。
type HTTPConfig struct {
	Host string
	Port int
}

// Addr 返回监听地址（host:port）。
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load 读取配置。键名：APP_ENV、LOG_LEVEL、IBAN、CONTRACTOR、DUE_DAYS、CURRENCY、
// OUTPUT_FORMAT、HTML_MINIFY、REGISTRY_URL、REGISTRY_TIMEOUT_SECONDS、HTTP_HOST、HTTP_PORT。
func Load() (*Config, error) {
	v := viper.New()
	readFiles(v, ".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	return FromViper(v)
}

// readFiles 先读 dir/.env，再合并 dir/config.env 与 dir/config/config.env。
// 同名键以后读到的文件为准，文件不存在时忽略。
func readFiles(v *viper.Viper, dir string) {
	v.SetConfigType("env")
	v.SetConfigFile(filepath.Join(dir, ".env"))
	_ = v.ReadInConfig()
	for _, path := range []string{
		filepath.Join(dir, "config.env"),
		filepath.Join(dir, "config", "config.env"),
	} {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DUE_DAYS", 14)
	v.SetDefault("CURRENCY", "CZK")
	v.SetDefault("OUTPUT_FORMAT", "pdf")
	v.SetDefault("HTML_MINIFY", false)
	v.SetDefault("REGISTRY_URL", "https://ares.gov.cz/ekonomicke-subjekty-v-be/rest")
	v.SetDefault("REGISTRY_TIMEOUT_SECONDS", 10)
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
}

// FromViper 从已配置好的 viper 实例构造并校验配置。
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		Invoice: InvoiceConfig{
			DueDays: v.GetInt("DUE_DAYS"),
		},
		Output: OutputConfig{
			Format:     strings.ToLower(v.GetString("OUTPUT_FORMAT")),
			HTMLMinify: v.GetBool("HTML_MINIFY"),
		},
		Registry: RegistryConfig{
			URL:     v.GetString("REGISTRY_URL"),
			Timeout: time.Duration(v.GetInt("REGISTRY_TIMEOUT_SECONDS")) * time.Second,
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
	}

	if raw := strings.TrimSpace(v.GetString("IBAN")); raw != "" {
		acc, err := iban.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("config: IBAN: %w", err)
		}
		cfg.Invoice.IBAN = acc
	}
	if raw := strings.TrimSpace(v.GetString("CONTRACTOR")); raw != "" {
		id, err := invoice.ParseRegistrationNumber(raw)
		if err != nil {
			return nil, fmt.Errorf("config: CONTRACTOR: %w", err)
		}
		cfg.Invoice.Contractor = id
	}
	unit, err := currency.ParseISO(strings.ToUpper(v.GetString("CURRENCY")))
	if err != nil {
		return nil, fmt.Errorf("config: CURRENCY: %w", err)
	}
	cfg.Invoice.Currency = unit

	if cfg.Invoice.DueDays < 0 {
		return nil, fmt.Errorf("config: DUE_DAYS 不能为负数: %d", cfg.Invoice.DueDays)
	}
	switch cfg.Output.Format {
	case "pdf", "html":
	default:
		return nil, fmt.Errorf("config: 不支持的 OUTPUT_FORMAT %q", cfg.Output.Format)
	}
	return cfg, nil
}
