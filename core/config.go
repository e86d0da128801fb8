package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Port               int
		JWTExpirationDelta time.Duration
		IdleTimeoutDelta   time.Duration
		CookieName         string
	}

	UpstreamConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		AppName      string
		SecretKey    string
		Build        string
		RollbarToken string
		StateDir     string
		Server       ServerConfig
		Upstream     UpstreamConfig
	}
)

// NewConfig loads the app configuration from the environment,
// applying defaults and an optional config/.env.<env> file.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "SISYA Analytics Console")
	conf.SetDefault("secretKey", "o0p$-wfc)du8$+41=xw&vpzh7(q!y)#*k9(#gy2h^$cnah5eqy")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverPort", 8080)
	conf.SetDefault("sessionCookieName", "console_session")
	conf.SetDefault("jwtExpirationDelta", 12*time.Hour)
	conf.SetDefault("idleTimeoutDelta", 15*time.Minute)
	conf.SetDefault("upstreamBaseURL", "https://sisyaclass.xyz")
	conf.SetDefault("upstreamTimeout", 10*time.Second)
	conf.SetDefault("stateDir", filepath.Join(os.TempDir(), "sisya-console"))

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
		StateDir:     conf.GetString("stateDir"),
		Server: ServerConfig{
			Host:               conf.GetString("serverHost"),
			Port:               conf.GetInt("serverPort"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
			IdleTimeoutDelta:   conf.GetDuration("idleTimeoutDelta"),
			CookieName:         conf.GetString("sessionCookieName"),
		},
		Upstream: UpstreamConfig{
			BaseURL: conf.GetString("upstreamBaseURL"),
			Timeout: conf.GetDuration("upstreamTimeout"),
		},
	}
}
