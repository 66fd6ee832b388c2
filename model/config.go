package model

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"os"
	"strconv"
)

const (
	DATABASE_DRIVER_MYSQL             = "mysql"
	DATABASE_DRIVER_SQLITE            = "sqlite"
	SQL_SETTINGS_DEFAULT_DATA_SOURCE  = "root:@tcp(localhost:3306)/view_counter?charset=utf8mb4,utf8&readTimeout=30s&writeTimeout=30s"
	SQLITE_SETTINGS_MEMORY_DATASOURCE = ":memory:"

	CONN_SECURITY_NONE = ""
	CONN_SECURITY_TLS  = "TLS"

	SERVICE_SETTINGS_DEFAULT_SITE_URL           = "http://localhost:8080"
	SERVICE_SETTINGS_DEFAULT_LISTEN_AND_ADDRESS = ":8080"
	SERVICE_SETTINGS_DEFAULT_ALLOW_CORS_FROM    = ""

	SERVICE_SETTINGS_DEFAULT_READ_TIMEOUT  = 300
	SERVICE_SETTINGS_DEFAULT_WRITE_TIMEOUT = 300
	SERVICE_SETTINGS_DEFAULT_TLS_CERT_FILE = ""
	SERVICE_SETTINGS_DEFAULT_TLS_KEY_FILE  = ""

	CACHE_SETTINGS_DEFAULT_ENDPOINT    = "localhost:6379"
	CACHE_SETTINGS_DEFAULT_TTL_SECONDS = 15 * 60

	VIEW_COUNTER_SETTINGS_DEFAULT_DELAY          = 5
	VIEW_COUNTER_SETTINGS_DEFAULT_NONCE_LIFETIME = 24 * 60 * 60
)

type ServiceSettings struct {
	SiteURL              *string
	ListenAddress        *string
	ConnectionSecurity   *string
	TLSCertFile          *string
	TLSKeyFile           *string
	ReadTimeout          *int
	WriteTimeout         *int
	EnableDeveloper      *bool
	TrustedProxyIPHeader []string

	AllowCorsFrom        *string
	CorsExposedHeaders   *string
	CorsAllowCredentials *bool
	CorsDebug            *bool
}

func (s *ServiceSettings) SetDefaults() {
	if s.SiteURL == nil {
		if s.EnableDeveloper != nil && *s.EnableDeveloper {
			s.SiteURL = NewString(SERVICE_SETTINGS_DEFAULT_SITE_URL)
		} else {
			s.SiteURL = NewString("")
		}
	}

	if s.ListenAddress == nil {
		s.ListenAddress = NewString(SERVICE_SETTINGS_DEFAULT_LISTEN_AND_ADDRESS)
	}

	if s.EnableDeveloper == nil {
		s.EnableDeveloper = NewBool(false)
	}

	if s.TLSKeyFile == nil {
		s.TLSKeyFile = NewString(SERVICE_SETTINGS_DEFAULT_TLS_KEY_FILE)
	}

	if s.TLSCertFile == nil {
		s.TLSCertFile = NewString(SERVICE_SETTINGS_DEFAULT_TLS_CERT_FILE)
	}

	if s.ConnectionSecurity == nil {
		s.ConnectionSecurity = NewString("")
	}

	if s.ReadTimeout == nil {
		s.ReadTimeout = NewInt(SERVICE_SETTINGS_DEFAULT_READ_TIMEOUT)
	}

	if s.WriteTimeout == nil {
		s.WriteTimeout = NewInt(SERVICE_SETTINGS_DEFAULT_WRITE_TIMEOUT)
	}

	if s.TrustedProxyIPHeader == nil {
		s.TrustedProxyIPHeader = []string{HEADER_FORWARDED, HEADER_REAL_IP}
	}

	if s.AllowCorsFrom == nil {
		s.AllowCorsFrom = NewString(SERVICE_SETTINGS_DEFAULT_ALLOW_CORS_FROM)
	}

	if s.CorsExposedHeaders == nil {
		s.CorsExposedHeaders = NewString("")
	}

	if s.CorsAllowCredentials == nil {
		s.CorsAllowCredentials = NewBool(false)
	}

	if s.CorsDebug == nil {
		s.CorsDebug = NewBool(false)
	}
}

func (ss *ServiceSettings) isValid() *AppError {
	if !(*ss.ConnectionSecurity == CONN_SECURITY_NONE || *ss.ConnectionSecurity == CONN_SECURITY_TLS) {
		return NewAppError("Config.IsValid", "model.config.is_valid.webserver_security.app_error", nil, "", http.StatusBadRequest)
	}

	if *ss.ConnectionSecurity == CONN_SECURITY_TLS {
		appErr := NewAppError("Config.IsValid", "model.config.is_valid.tls_cert_file.app_error", nil, "", http.StatusBadRequest)

		if *ss.TLSCertFile == "" {
			return appErr
		} else if _, err := os.Stat(*ss.TLSCertFile); os.IsNotExist(err) {
			return appErr
		}

		appErr = NewAppError("Config.IsValid", "model.config.is_valid.tls_key_file.app_error", nil, "", http.StatusBadRequest)

		if *ss.TLSKeyFile == "" {
			return appErr
		} else if _, err := os.Stat(*ss.TLSKeyFile); os.IsNotExist(err) {
			return appErr
		}
	}

	if len(*ss.SiteURL) != 0 && !IsValidHttpUrl(*ss.SiteURL) {
		return NewAppError("Config.IsValid", "model.config.is_valid.site_url.app_error", nil, "", http.StatusBadRequest)
	}

	if *ss.ReadTimeout <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.read_timeout.app_error", nil, "", http.StatusBadRequest)
	}

	if *ss.WriteTimeout <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.write_timeout.app_error", nil, "", http.StatusBadRequest)
	}

	host, port, _ := net.SplitHostPort(*ss.ListenAddress)
	var isValidHost bool
	if host == "" {
		isValidHost = true
	} else {
		isValidHost = (net.ParseIP(host) != nil) || IsDomainName(host)
	}
	portInt, err := strconv.Atoi(port)
	if err != nil || !isValidHost || portInt < 0 || portInt > math.MaxUint16 {
		return NewAppError("Config.IsValid", "model.config.is_valid.listen_address.app_error", nil, "", http.StatusBadRequest)
	}

	return nil
}

type SqlSettings struct {
	DriverName                  *string
	DataSource                  *string
	DataSourceReplicas          []string
	MaxIdleConns                *int
	ConnMaxLifetimeMilliseconds *int
	MaxOpenConns                *int
	Trace                       *bool
	QueryTimeout                *int
}

func (s *SqlSettings) SetDefaults() {
	if s.DriverName == nil {
		s.DriverName = NewString(DATABASE_DRIVER_MYSQL)
	}

	if s.DataSource == nil {
		s.DataSource = NewString(SQL_SETTINGS_DEFAULT_DATA_SOURCE)
	}

	if s.DataSourceReplicas == nil {
		s.DataSourceReplicas = []string{}
	}

	if s.MaxIdleConns == nil {
		s.MaxIdleConns = NewInt(20)
	}

	if s.MaxOpenConns == nil {
		s.MaxOpenConns = NewInt(300)
	}

	if s.ConnMaxLifetimeMilliseconds == nil {
		s.ConnMaxLifetimeMilliseconds = NewInt(3600000)
	}

	if s.Trace == nil {
		s.Trace = NewBool(false)
	}

	if s.QueryTimeout == nil {
		s.QueryTimeout = NewInt(30)
	}
}

func (ss *SqlSettings) isValid() *AppError {
	if !(*ss.DriverName == DATABASE_DRIVER_MYSQL || *ss.DriverName == DATABASE_DRIVER_SQLITE) {
		return NewAppError("Config.IsValid", "model.config.is_valid.sql_driver.app_error", nil, "", http.StatusBadRequest)
	}

	if *ss.MaxIdleConns <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.sql_idle.app_error", nil, "", http.StatusBadRequest)
	}

	if *ss.ConnMaxLifetimeMilliseconds < 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.sql_conn_max_lifetime_milliseconds.app_error", nil, "", http.StatusBadRequest)
	}

	if *ss.QueryTimeout <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.sql_query_timeout.app_error", nil, "", http.StatusBadRequest)
	}

	if len(*ss.DataSource) == 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.sql_data_src.app_error", nil, "", http.StatusBadRequest)
	}

	if *ss.MaxOpenConns <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.sql_max_conn.app_error", nil, "", http.StatusBadRequest)
	}

	return nil
}

type CacheSettings struct {
	Enable          *bool
	CacheEndpoint   *string
	CacheDefaultDb  *int
	CacheTTLSeconds *int
}

func (s *CacheSettings) SetDefaults() {
	if s.Enable == nil {
		s.Enable = NewBool(false)
	}

	if s.CacheEndpoint == nil {
		s.CacheEndpoint = NewString(CACHE_SETTINGS_DEFAULT_ENDPOINT)
	}

	if s.CacheDefaultDb == nil {
		s.CacheDefaultDb = NewInt(0)
	}

	if s.CacheTTLSeconds == nil {
		s.CacheTTLSeconds = NewInt(CACHE_SETTINGS_DEFAULT_TTL_SECONDS)
	}
}

func (s *CacheSettings) isValid() *AppError {
	if *s.Enable && len(*s.CacheEndpoint) == 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.cache_endpoint.app_error", nil, "", http.StatusBadRequest)
	}

	if *s.CacheTTLSeconds < 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.cache_ttl.app_error", nil, "", http.StatusBadRequest)
	}

	return nil
}

type RateLimitSettings struct {
	Enable           *bool `restricted:"true"`
	PerSec           *int  `restricted:"true"`
	MaxBurst         *int  `restricted:"true"`
	MemoryStoreSize  *int  `restricted:"true"`
	VaryByRemoteAddr *bool `restricted:"true"`
}

func (s *RateLimitSettings) SetDefaults() {
	if s.Enable == nil {
		s.Enable = NewBool(true)
	}

	if s.PerSec == nil {
		s.PerSec = NewInt(10)
	}

	if s.MaxBurst == nil {
		s.MaxBurst = NewInt(100)
	}

	if s.MemoryStoreSize == nil {
		s.MemoryStoreSize = NewInt(10000)
	}

	if s.VaryByRemoteAddr == nil {
		s.VaryByRemoteAddr = NewBool(true)
	}
}

func (rls *RateLimitSettings) isValid() *AppError {
	if *rls.MemoryStoreSize <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.rate_mem.app_error", nil, "", http.StatusBadRequest)
	}

	if *rls.PerSec <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.rate_sec.app_error", nil, "", http.StatusBadRequest)
	}

	if *rls.MaxBurst <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.max_burst.app_error", nil, "", http.StatusBadRequest)
	}

	return nil
}

type LogSettings struct {
	EnableConsole *bool
	ConsoleLevel  *string
	ConsoleJson   *bool
}

func (s *LogSettings) SetDefaults() {
	if s.EnableConsole == nil {
		s.EnableConsole = NewBool(true)
	}

	if s.ConsoleLevel == nil {
		s.ConsoleLevel = NewString("DEBUG")
	}

	if s.ConsoleJson == nil {
		s.ConsoleJson = NewBool(true)
	}
}

type MetricsSettings struct {
	Enable *bool
}

func (s *MetricsSettings) SetDefaults() {
	if s.Enable == nil {
		s.Enable = NewBool(false)
	}
}

type ViewCounterSettings struct {
	// seconds the tracker waits before reporting a view
	Delay *int
	// post types the tracker is loaded on, empty means every post
	PostTypes            []string
	IgnoreBots           *bool
	NonceLifetimeSeconds *int
	NonceSalt            *string `restricted:"true"`
}

func (s *ViewCounterSettings) SetDefaults() {
	if s.Delay == nil {
		s.Delay = NewInt(VIEW_COUNTER_SETTINGS_DEFAULT_DELAY)
	}

	if s.PostTypes == nil {
		s.PostTypes = []string{}
	}

	if s.IgnoreBots == nil {
		s.IgnoreBots = NewBool(false)
	}

	if s.NonceLifetimeSeconds == nil {
		s.NonceLifetimeSeconds = NewInt(VIEW_COUNTER_SETTINGS_DEFAULT_NONCE_LIFETIME)
	}

	if s.NonceSalt == nil || len(*s.NonceSalt) == 0 {
		s.NonceSalt = NewString(NewRandomString(32))
	}
}

func (s *ViewCounterSettings) isValid() *AppError {
	if *s.Delay < 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.view_counter_delay.app_error", nil, "", http.StatusBadRequest)
	}

	if *s.NonceLifetimeSeconds < 2 {
		return NewAppError("Config.IsValid", "model.config.is_valid.nonce_lifetime.app_error", nil, "", http.StatusBadRequest)
	}

	return nil
}

type Config struct {
	ServiceSettings     ServiceSettings
	SqlSettings         SqlSettings
	CacheSettings       CacheSettings
	RateLimitSettings   RateLimitSettings
	LogSettings         LogSettings
	MetricsSettings     MetricsSettings
	ViewCounterSettings ViewCounterSettings
}

func (o *Config) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func (o *Config) Clone() *Config {
	var ret Config
	if err := json.Unmarshal([]byte(o.ToJson()), &ret); err != nil {
		panic(err)
	}
	return &ret
}

func (o *Config) SetDefaults() {
	o.SqlSettings.SetDefaults()
	o.CacheSettings.SetDefaults()
	o.ServiceSettings.SetDefaults()
	o.RateLimitSettings.SetDefaults()
	o.LogSettings.SetDefaults()
	o.MetricsSettings.SetDefaults()
	o.ViewCounterSettings.SetDefaults()
}

func (o *Config) IsValid() *AppError {
	if err := o.SqlSettings.isValid(); err != nil {
		return err
	}

	if err := o.CacheSettings.isValid(); err != nil {
		return err
	}

	if err := o.ServiceSettings.isValid(); err != nil {
		return err
	}

	if err := o.RateLimitSettings.isValid(); err != nil {
		return err
	}

	if err := o.ViewCounterSettings.isValid(); err != nil {
		return err
	}

	return nil
}
