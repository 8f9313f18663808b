package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultDotenvPath    = ".env"
	defaultLimit         = 10
	configPathEnv        = "NEWS_DIGEST_CONFIG"
	dotenvPathEnv        = "NEWS_DIGEST_DOTENV"
	logLevelEnv          = "LOG_LEVEL"
	newsLimitEnv         = "NEWS_LIMIT"
	kakaoClientIDEnv     = "KAKAO_CLIENT_ID"
	kakaoClientSecretEnv = "KAKAO_CLIENT_SECRET"
	kakaoRefreshTokenEnv = "KAKAO_REFRESH_TOKEN"
	kakaoTokenURLEnv     = "KAKAO_TOKEN_URL"
	kakaoMessageURLEnv   = "KAKAO_MESSAGE_URL"
	naverListingURLEnv   = "NAVER_LISTING_URL"
)

// ErrMissingCredentials is returned by Validate when the Kakao credentials are incomplete.
var ErrMissingCredentials = errors.New("missing kakao credentials")

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Digest  DigestConfig  `yaml:"digest"`
	Source  SourceConfig  `yaml:"source"`
	Kakao   KakaoConfig   `yaml:"kakao"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DigestConfig controls how many headlines go into one message and whether it is sent.
type DigestConfig struct {
	Limit  int  `yaml:"limit"`
	DryRun bool `yaml:"dryRun"`
}

// SourceConfig describes the listing page and the scanner strategy that reads it.
type SourceConfig struct {
	Name      string            `yaml:"name"`
	Scanner   string            `yaml:"scanner"`
	URL       string            `yaml:"url"`
	Query     map[string]string `yaml:"query"`
	Origin    string            `yaml:"origin"`
	UserAgent string            `yaml:"userAgent"`
	Timeout   time.Duration     `yaml:"timeout"`
}

// KakaoConfig wires everything the "send to me" notifier needs.
type KakaoConfig struct {
	ClientID     string        `yaml:"clientId"`
	ClientSecret string        `yaml:"clientSecret"`
	RefreshToken string        `yaml:"refreshToken"`
	TokenURL     string        `yaml:"tokenUrl"`
	MessageURL   string        `yaml:"messageUrl"`
	LinkURL      string        `yaml:"linkUrl"`
	ButtonTitle  string        `yaml:"buttonTitle"`
	Timeout      time.Duration `yaml:"timeout"`
	RatePerSec   float64       `yaml:"ratePerSecond"`
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	dotenvPath := os.Getenv(dotenvPathEnv)
	if dotenvPath == "" {
		dotenvPath = defaultDotenvPath
	}
	// godotenv.Load never overrides variables already set in the process environment.
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: cannot load %s: %v (using process environment only)", dotenvPath, err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate reports configuration the job cannot run without.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Kakao.ClientID) == "" {
		missing = append(missing, kakaoClientIDEnv)
	}
	if strings.TrimSpace(c.Kakao.RefreshToken) == "" {
		missing = append(missing, kakaoRefreshTokenEnv)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	if c.Digest.Limit < 1 {
		return fmt.Errorf("digest limit must be positive, got %d", c.Digest.Limit)
	}
	return nil
}

func loadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(newsLimitEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Digest.Limit = n
		} else {
			log.Printf("config: ignoring invalid %s=%q", newsLimitEnv, v)
		}
	}

	if v := os.Getenv(naverListingURLEnv); v != "" {
		c.Source.URL = v
	}

	if v := os.Getenv(kakaoClientIDEnv); v != "" {
		c.Kakao.ClientID = v
	}
	if v := os.Getenv(kakaoClientSecretEnv); v != "" {
		c.Kakao.ClientSecret = v
	}
	if v := os.Getenv(kakaoRefreshTokenEnv); v != "" {
		c.Kakao.RefreshToken = v
	}
	if v := os.Getenv(kakaoTokenURLEnv); v != "" {
		c.Kakao.TokenURL = v
	}
	if v := os.Getenv(kakaoMessageURLEnv); v != "" {
		c.Kakao.MessageURL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Digest.Limit > 0 {
		base.Digest.Limit = override.Digest.Limit
	}
	base.Digest.DryRun = base.Digest.DryRun || override.Digest.DryRun

	if override.Source.Name != "" {
		base.Source.Name = override.Source.Name
	}
	if override.Source.Scanner != "" {
		base.Source.Scanner = override.Source.Scanner
	}
	if override.Source.URL != "" {
		base.Source.URL = override.Source.URL
	}
	if len(override.Source.Query) > 0 {
		base.Source.Query = override.Source.Query
	}
	if override.Source.Origin != "" {
		base.Source.Origin = override.Source.Origin
	}
	if override.Source.UserAgent != "" {
		base.Source.UserAgent = override.Source.UserAgent
	}
	if override.Source.Timeout > 0 {
		base.Source.Timeout = override.Source.Timeout
	}

	if override.Kakao.ClientID != "" {
		base.Kakao.ClientID = override.Kakao.ClientID
	}
	if override.Kakao.ClientSecret != "" {
		base.Kakao.ClientSecret = override.Kakao.ClientSecret
	}
	if override.Kakao.RefreshToken != "" {
		base.Kakao.RefreshToken = override.Kakao.RefreshToken
	}
	if override.Kakao.TokenURL != "" {
		base.Kakao.TokenURL = override.Kakao.TokenURL
	}
	if override.Kakao.MessageURL != "" {
		base.Kakao.MessageURL = override.Kakao.MessageURL
	}
	if override.Kakao.LinkURL != "" {
		base.Kakao.LinkURL = override.Kakao.LinkURL
	}
	if override.Kakao.ButtonTitle != "" {
		base.Kakao.ButtonTitle = override.Kakao.ButtonTitle
	}
	if override.Kakao.Timeout > 0 {
		base.Kakao.Timeout = override.Kakao.Timeout
	}
	if override.Kakao.RatePerSec > 0 {
		base.Kakao.RatePerSec = override.Kakao.RatePerSec
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Digest:  DigestConfig{Limit: defaultLimit},
		Source: SourceConfig{
			Name:    "naver-politics",
			Scanner: "naver",
			URL:     "https://news.naver.com/main/list.naver",
			Query: map[string]string{
				"mode": "LSD",
				"mid":  "sec",
				"sid1": "001",
			},
			Origin:  "https://news.naver.com",
			Timeout: 10 * time.Second,
		},
		Kakao: KakaoConfig{
			TokenURL:    "https://kauth.kakao.com/oauth/token",
			MessageURL:  "https://kapi.kakao.com/v2/api/talk/memo/default/send",
			LinkURL:     "https://news.naver.com",
			ButtonTitle: "뉴스 보러가기",
			Timeout:     15 * time.Second,
			RatePerSec:  1,
		},
	}
}
