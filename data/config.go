package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keys understood by fitbot. Environment variables use the FITBOT_
// prefix with dots replaced by underscores (FITBOT_CHAT_ENDPOINT).
const (
	KeyLogLevel           = "log.level"
	KeyTheme              = "theme"
	KeyChatEndpoint       = "chat.endpoint"
	KeyChatHeaderTimeout  = "chat.header_timeout"
	KeyServeAddr          = "serve.addr"
	KeyReplyBackend       = "reply.backend"
	KeyReplyModel         = "reply.model"
	KeyReplyKey           = "reply.key"
	KeyReplyEndpoint      = "reply.endpoint"
	KeyReplyTemperature   = "reply.temperature"
	KeyReplyMaxTokens     = "reply.max_tokens"
	KeyReplyDelayMillisec = "reply.delay_ms"
)

// Defaults applied before the config file is read.
const (
	DefaultServeAddr     = "127.0.0.1:8723"
	DefaultChatEndpoint  = "http://" + DefaultServeAddr + "/api/chat"
	DefaultHeaderTimeout = 30
	DefaultReplyBackend  = "coach"
	DefaultMaxTokens     = 1024
	DefaultDelayMillisec = 35
)

// ChatSettings configures the chat client side.
type ChatSettings struct {
	Endpoint      string        // Reply-generation service URL
	HeaderTimeout time.Duration // Max wait for response headers; the body itself is bounded by the context
}

// ReplySettings configures the reply-generation backend used by `fitbot serve`.
type ReplySettings struct {
	Backend     string  // coach, openai, anthropic, gemini, volcengine
	Model       string  // Provider model name
	Key         string  // Provider API key
	Endpoint    string  // Optional provider base URL
	Temperature float32 // Sampling temperature, 0 means provider default
	MaxTokens   int     // Max output tokens
	Delay       time.Duration
}

// ServeSettings configures the HTTP listener of `fitbot serve`.
type ServeSettings struct {
	Addr string
}

// ConfigStore provides typed access to fitbot.yaml configuration.
// It wraps viper internally and exposes only typed interfaces.
type ConfigStore struct {
	v *viper.Viper
}

// NewConfigStore creates a new ConfigStore using the existing viper configuration.
// This reuses whatever config file viper has already loaded.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{v: viper.GetViper()}
}

// NewConfigStoreWith wraps a caller-owned viper instance.
func NewConfigStoreWith(v *viper.Viper) *ConfigStore {
	store := &ConfigStore{v: v}
	store.ApplyDefaults()
	return store
}

// ApplyDefaults registers default values and environment bindings.
func (c *ConfigStore) ApplyDefaults() {
	c.v.SetEnvPrefix(strings.ToUpper(AppName))
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	c.v.SetDefault(KeyLogLevel, "info")
	c.v.SetDefault(KeyTheme, DefaultThemeName)
	c.v.SetDefault(KeyChatEndpoint, DefaultChatEndpoint)
	c.v.SetDefault(KeyChatHeaderTimeout, DefaultHeaderTimeout)
	c.v.SetDefault(KeyServeAddr, DefaultServeAddr)
	c.v.SetDefault(KeyReplyBackend, DefaultReplyBackend)
	c.v.SetDefault(KeyReplyMaxTokens, DefaultMaxTokens)
	c.v.SetDefault(KeyReplyDelayMillisec, DefaultDelayMillisec)
}

// SetConfigFile sets the configuration file path and reads it when present.
func (c *ConfigStore) SetConfigFile(path string) error {
	c.v.SetConfigFile(path)
	c.ApplyDefaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := c.v.ReadInConfig(); err != nil {
		return err
	}
	return nil
}

// ConfigFileUsed returns the path to the config file being used.
func (c *ConfigStore) ConfigFileUsed() string {
	return c.v.ConfigFileUsed()
}

// GetChatSettings returns the client-side chat configuration.
func (c *ConfigStore) GetChatSettings() ChatSettings {
	timeout := c.v.GetInt(KeyChatHeaderTimeout)
	if timeout <= 0 {
		timeout = DefaultHeaderTimeout
	}
	endpoint := strings.TrimSpace(c.v.GetString(KeyChatEndpoint))
	if endpoint == "" {
		endpoint = DefaultChatEndpoint
	}
	return ChatSettings{
		Endpoint:      endpoint,
		HeaderTimeout: time.Duration(timeout) * time.Second,
	}
}

// GetReplySettings returns the reply backend configuration.
func (c *ConfigStore) GetReplySettings() ReplySettings {
	backend := strings.ToLower(strings.TrimSpace(c.v.GetString(KeyReplyBackend)))
	if backend == "" {
		backend = DefaultReplyBackend
	}
	maxTokens := c.v.GetInt(KeyReplyMaxTokens)
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	delay := c.v.GetInt(KeyReplyDelayMillisec)
	if delay < 0 {
		delay = 0
	}
	return ReplySettings{
		Backend:     backend,
		Model:       c.v.GetString(KeyReplyModel),
		Key:         c.v.GetString(KeyReplyKey),
		Endpoint:    c.v.GetString(KeyReplyEndpoint),
		Temperature: float32(c.v.GetFloat64(KeyReplyTemperature)),
		MaxTokens:   maxTokens,
		Delay:       time.Duration(delay) * time.Millisecond,
	}
}

// GetServeSettings returns the listener configuration.
func (c *ConfigStore) GetServeSettings() ServeSettings {
	addr := strings.TrimSpace(c.v.GetString(KeyServeAddr))
	if addr == "" {
		addr = DefaultServeAddr
	}
	return ServeSettings{Addr: addr}
}

// GetTheme returns the configured theme name.
func (c *ConfigStore) GetTheme() string {
	return c.v.GetString(KeyTheme)
}

// GetLogLevel returns the configured log level string.
func (c *ConfigStore) GetLogLevel() string {
	return c.v.GetString(KeyLogLevel)
}

// Get returns a raw value for `config get`.
func (c *ConfigStore) Get(key string) interface{} {
	return c.v.Get(strings.ToLower(key))
}

// Set stores a value and persists the file.
func (c *ConfigStore) Set(key string, value interface{}) error {
	c.v.Set(strings.ToLower(key), value)
	return c.Save()
}

// Keys returns every known key, sorted.
func (c *ConfigStore) Keys() []string {
	keys := c.v.AllKeys()
	sort.Strings(keys)
	return keys
}

// Export saves the current configuration to the specified path.
func (c *ConfigStore) Export(path string) error {
	// Create a new viper instance for export to avoid changing the current config file path
	exportViper := viper.New()

	settings := c.v.AllSettings()
	for k, v := range settings {
		exportViper.Set(k, v)
	}

	exportViper.SetConfigFile(path)
	return exportViper.WriteConfig()
}

// Import loads configuration from the specified path and merges it into the current configuration.
func (c *ConfigStore) Import(path string) error {
	importViper := viper.New()
	importViper.SetConfigFile(path)

	if err := importViper.ReadInConfig(); err != nil {
		return err
	}

	settings := importViper.AllSettings()
	for k, v := range settings {
		c.v.Set(k, v)
	}

	return c.Save()
}

// Save writes the configuration back to disk.
func (c *ConfigStore) Save() error {
	configFile := c.v.ConfigFileUsed()
	if configFile == "" {
		configFile = GetConfigFilePath()
		c.v.SetConfigFile(configFile)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.v.WriteConfigAs(configFile)
}
