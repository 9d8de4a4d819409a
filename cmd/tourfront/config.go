package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/tourfront/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultAPIBaseURL   = "http://localhost:8001/api/"
	defaultEnvironment  = logger.EnvProduction
	defaultLoginPath    = "/login"
	defaultVisitorTTL   = 30 * 24 * time.Hour
	defaultVisitorIdle  = 30 * time.Minute
	defaultMaxVisitors  = 10000
	defaultAPITimeout   = 10 * time.Second
	defaultSweepEvery   = 10 * time.Minute
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the frontend server will be run
	ListenAddr string

	// Backend REST API origin with prefix
	APIBaseURL string

	// Per request timeout of backend calls
	APITimeout time.Duration

	// Visitor state backends; the first one set wins: database, redis, file. Memory when none is set
	DatabaseDSN string
	RedisURL    string
	StateFile   string

	// Secret key
	// When set, stored visitor state (tokens included) is encrypted with a key derived from it
	SecretKey string

	// Environment
	Environment string

	// Inquiry channels
	WhatsAppNumber string
	InquiryEmail   string

	// Hosts images may be served from; "*.example.com" allows subdomains
	ImageHosts []string

	// Where the browser is sent when the session can't be recovered
	LoginPath string

	// Idle visitors are forgotten after TTL
	VisitorTTL    time.Duration
	SweepInterval time.Duration

	// Visitor bundles leave memory after VisitorIdle; at most MaxVisitors are kept
	VisitorIdle time.Duration
	MaxVisitors int

	// Coalesce concurrent token refreshes of one visitor
	SingleFlightRefresh bool

	// Mark visitor cookie Secure
	SecureCookies bool
}

func NewConfig() *Config {
	return &Config{
		LogLevel:      defaultLoggingLevel,
		ListenAddr:    defaultListenAddr,
		APIBaseURL:    defaultAPIBaseURL,
		APITimeout:    defaultAPITimeout,
		Environment:   defaultEnvironment,
		LoginPath:     defaultLoginPath,
		VisitorTTL:    defaultVisitorTTL,
		VisitorIdle:   defaultVisitorIdle,
		MaxVisitors:   defaultMaxVisitors,
		SweepInterval: defaultSweepEvery,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}
	setBool := func(o *bool) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			*o = b
			return nil
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*o = n
			return nil
		}
	}
	setList := func(o *[]string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = splitList(value)
			}
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":           setString(&c.ListenAddr),
		"API_BASE_URL":          setString(&c.APIBaseURL),
		"API_TIMEOUT":           setDuration(&c.APITimeout),
		"DATABASE_URI":          setString(&c.DatabaseDSN),
		"REDIS_URL":             setString(&c.RedisURL),
		"STATE_FILE":            setString(&c.StateFile),
		"SECRET_KEY":            setString(&c.SecretKey),
		"LOG_LEVEL":             setString(&c.LogLevel),
		"ENVIRONMENT":           setString(&c.Environment),
		"WHATSAPP_NUMBER":       setString(&c.WhatsAppNumber),
		"INQUIRY_EMAIL":         setString(&c.InquiryEmail),
		"IMAGE_HOSTS":           setList(&c.ImageHosts),
		"LOGIN_PATH":            setString(&c.LoginPath),
		"VISITOR_TTL":           setDuration(&c.VisitorTTL),
		"VISITOR_IDLE":          setDuration(&c.VisitorIdle),
		"MAX_VISITORS":          setInt(&c.MaxVisitors),
		"SWEEP_INTERVAL":        setDuration(&c.SweepInterval),
		"SINGLE_FLIGHT_REFRESH": setBool(&c.SingleFlightRefresh),
		"SECURE_COOKIES":        setBool(&c.SecureCookies),
	}

	var errs []error
	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("tourfront", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.APIBaseURL, "api", "b", c.APIBaseURL, "Backend API base url")
	fs.DurationVar(&c.APITimeout, "api-timeout", c.APITimeout, "Backend request timeout")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.RedisURL, "redis", "r", c.RedisURL, "Redis url")
	fs.StringVarP(&c.StateFile, "state-file", "f", c.StateFile, "File to keep visitor state in")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVar(&c.WhatsAppNumber, "whatsapp", c.WhatsAppNumber, "WhatsApp number inquiries are sent to")
	fs.StringVar(&c.InquiryEmail, "inquiry-email", c.InquiryEmail, "Email inquiries are sent to")
	fs.StringSliceVar(&c.ImageHosts, "image-hosts", c.ImageHosts, "Allowed image hosts")
	fs.StringVar(&c.LoginPath, "login-path", c.LoginPath, "Login page path")
	fs.DurationVar(&c.VisitorTTL, "visitor-ttl", c.VisitorTTL, "Idle visitor lifetime")
	fs.DurationVar(&c.VisitorIdle, "visitor-idle", c.VisitorIdle, "Idle time before a visitor leaves memory")
	fs.IntVar(&c.MaxVisitors, "max-visitors", c.MaxVisitors, "Visitors kept in memory at most")
	fs.DurationVar(&c.SweepInterval, "sweep-interval", c.SweepInterval, "How often idle visitors are swept")
	fs.BoolVar(&c.SingleFlightRefresh, "single-flight-refresh", c.SingleFlightRefresh, "Coalesce concurrent token refreshes")
	fs.BoolVar(&c.SecureCookies, "secure-cookies", c.SecureCookies, "Set Secure flag on visitor cookie")

	return fs.Parse(args)
}

// Validate reports options the app can't start with
func (c *Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url must be set"))
	}
	if c.WhatsAppNumber == "" {
		errs = append(errs, errors.New("whatsapp number must be set"))
	}
	if c.InquiryEmail == "" {
		errs = append(errs, errors.New("inquiry email must be set"))
	}
	if c.VisitorTTL <= 0 {
		errs = append(errs, errors.New("visitor ttl must be positive"))
	}
	if c.VisitorIdle <= 0 {
		errs = append(errs, errors.New("visitor idle time must be positive"))
	}
	if c.MaxVisitors <= 0 {
		errs = append(errs, errors.New("max visitors must be positive"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("sweep interval must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
