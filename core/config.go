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
	serverConfig struct {
		Address         string
		Host            string
		DisableReqLogs  bool
		DisableCSRF     bool
		SessionCookie   string
		SessionTTL      time.Duration
		RestoreWait     time.Duration
		ShutdownTimeout time.Duration
	}

	backendConfig struct {
		BaseURL    string
		Timeout    time.Duration
		MaxRetries int
	}

	databaseConfig struct {
		Engine     string // memory | sqlite | postgres
		Path       string // sqlite file
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	Config struct {
		Env           string
		Debug         bool
		TestMode      bool
		AppName       string
		SecretKey     string
		Build         string
		RollbarToken  string
		LogLevel      string
		AvatarBaseURL string
		WorkDir       string
		Server        serverConfig
		Backend       backendConfig
		Database      databaseConfig
	}
)

func (dc databaseConfig) Address() string {
	if dc.Port == "" {
		return dc.Host
	}
	return dc.Host + ":" + dc.Port
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` and the environment.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "LetUsConnect")
	conf.SetDefault("secretKey", "u7s$k2+0c!n3ct-9ha#q)pe8wz&4r(1mv*@x_lt5yd=jo6bf")
	conf.SetDefault("build", "dev")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("logLevel", "info")
	conf.SetDefault("avatar.baseURL", "https://api.dicebear.com/7.x/avataaars/svg")

	conf.SetDefault("server.address", ":8080")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.disableReqLogs", false)
	conf.SetDefault("server.disableCSRF", false)
	conf.SetDefault("server.sessionCookie", "lc_session")
	conf.SetDefault("server.sessionTTL", 7*24*time.Hour)
	conf.SetDefault("server.restoreWait", 250*time.Millisecond)
	conf.SetDefault("server.shutdownTimeout", 10*time.Second)

	conf.SetDefault("backend.baseURL", "http://localhost:8000")
	conf.SetDefault("backend.timeout", 10*time.Second)
	conf.SetDefault("backend.maxRetries", 3)

	conf.SetDefault("database.engine", "sqlite")
	conf.SetDefault("database.path", "letusconnect.db")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.user", "")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.name", "letusconnect")
	conf.SetDefault("database.disableTLS", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:           env,
		Debug:         conf.GetBool("debug"),
		TestMode:      conf.GetBool("testMode"),
		AppName:       conf.GetString("appName"),
		SecretKey:     conf.GetString("secretKey"),
		Build:         conf.GetString("build"),
		RollbarToken:  conf.GetString("rollbarToken"),
		LogLevel:      conf.GetString("logLevel"),
		AvatarBaseURL: conf.GetString("avatar.baseURL"),
		WorkDir:       workDir,
		Server: serverConfig{
			Address:         conf.GetString("server.address"),
			Host:            conf.GetString("server.host"),
			DisableReqLogs:  conf.GetBool("server.disableReqLogs"),
			DisableCSRF:     conf.GetBool("server.disableCSRF"),
			SessionCookie:   conf.GetString("server.sessionCookie"),
			SessionTTL:      conf.GetDuration("server.sessionTTL"),
			RestoreWait:     conf.GetDuration("server.restoreWait"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
		},
		Backend: backendConfig{
			BaseURL:    strings.TrimRight(conf.GetString("backend.baseURL"), "/"),
			Timeout:    conf.GetDuration("backend.timeout"),
			MaxRetries: conf.GetInt("backend.maxRetries"),
		},
		Database: databaseConfig{
			Engine:     strings.ToLower(conf.GetString("database.engine")),
			Path:       conf.GetString("database.path"),
			Host:       conf.GetString("database.host"),
			Port:       conf.GetString("database.port"),
			User:       conf.GetString("database.user"),
			Password:   conf.GetString("database.password"),
			Name:       conf.GetString("database.name"),
			DisableTLS: conf.GetBool("database.disableTLS"),
		},
	}
}
