package config

import (
	"errors"
	"os"
	"path"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/okvee/rpctoast/common"
	"github.com/okvee/rpctoast/types"
)

type Duration time.Duration

var (
	_ yaml.Marshaler   = common.DefaultVal[Duration]()
	_ yaml.Unmarshaler = (*Duration)(nil)
)

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	dd, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Backend struct {
	Type types.BackendType `yaml:"type"`
	// MinSeverity suppresses terminal notifications below the given
	// severity on this backend. Empty means everything is delivered.
	MinSeverity types.Severity `yaml:"min_severity,omitempty"`
}

type BackendSettings struct {
	TelegramChatID int64 `yaml:"telegram_chat_id,omitempty"`
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	DirPath string `yaml:"dir_path"` // directory to store settled invocation records
}

type Config struct {
	SocketPath      string          `yaml:"socket_path" envconfig:"RPCTOAST_SOCKET"`
	Deadline        Duration        `yaml:"deadline"` // transport deadline for one invocation
	Backends        []Backend       `yaml:"backends"`
	BackendSettings BackendSettings `yaml:"backend_settings,omitempty"`
	ClipboardCopy   bool            `yaml:"clipboard_copy"` // offer copy-to-clipboard on error details
	Journal         JournalConfig   `yaml:"journal"`
	MetricsAddr     string          `yaml:"metrics_addr,omitempty" envconfig:"RPCTOAST_METRICS_ADDR"`
	LogLevel        string          `yaml:"log_level" envconfig:"RPCTOAST_LOG_LEVEL"`
}

func Default() *Config {
	const dirName = "rpctoast"

	return &Config{
		SocketPath: "/tmp/rpctoast-rpc.sock",
		Deadline:   Duration(time.Second * 30),
		Backends: []Backend{
			{Type: types.BackendCLI},
		},
		ClipboardCopy: true,
		Journal: JournalConfig{
			Enabled: true,
			DirPath: path.Join(os.TempDir(), dirName),
		},
		LogLevel: "info",
	}
}

func (cfg *Config) Save(filePath string) error {
	dirPath := path.Dir(filePath)
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY, os.ModePerm)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()

	return encoder.Encode(cfg)
}

func defaultLoc() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return path.Join(dir, "rpctoast", "config.yaml"), nil
}

func SaveToDefaultLoc(cfg *Config) error {
	loc, err := defaultLoc()
	if err != nil {
		return err
	}
	return cfg.Save(loc)
}

func ReadFromDefaultLoc() (*Config, error) {
	loc, err := defaultLoc()
	if err != nil {
		return nil, err
	}

	reader, err := os.Open(loc)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var ret Config
	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&ret); err != nil {
		return nil, err
	}

	return &ret, nil
}

// Load reads the config from the default location, creating the default
// one on first run, and applies environment overrides on top.
func Load() (*Config, error) {
	cfg, err := ReadFromDefaultLoc()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
		if err := SaveToDefaultLoc(cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
