// Package config loads guessd settings from flags, GUESSD_* environment
// variables and <home>/config/guessd.toml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	appparams "onchainguess/app/params"
)

const (
	FlagHome      = "home"
	FlagChainID   = "chain-id"
	FlagAddr      = "addr"
	FlagTransport = "transport"
	FlagDBBackend = "db-backend"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
)

const (
	DBBackendGoLevelDB = "goleveldb"
	DBBackendMemDB     = "memdb"

	LogFormatJSON  = "json"
	LogFormatPlain = "plain"
)

type Config struct {
	Home      string `mapstructure:"home"`
	ChainID   string `mapstructure:"chain-id"`
	Addr      string `mapstructure:"addr"`
	Transport string `mapstructure:"transport"`
	DBBackend string `mapstructure:"db-backend"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

func DefaultConfig(home string) Config {
	return Config{
		Home:      home,
		ChainID:   appparams.DefaultChainID,
		Addr:      "tcp://127.0.0.1:26658",
		Transport: "socket",
		DBBackend: DBBackendGoLevelDB,
		LogLevel:  zerolog.InfoLevel.String(),
		LogFormat: LogFormatPlain,
	}
}

// SetDefaults registers DefaultConfig values on v and wires the env prefix.
func SetDefaults(v *viper.Viper, home string) {
	d := DefaultConfig(home)
	v.SetDefault(FlagHome, d.Home)
	v.SetDefault(FlagChainID, d.ChainID)
	v.SetDefault(FlagAddr, d.Addr)
	v.SetDefault(FlagTransport, d.Transport)
	v.SetDefault(FlagDBBackend, d.DBBackend)
	v.SetDefault(FlagLogLevel, d.LogLevel)
	v.SetDefault(FlagLogFormat, d.LogFormat)

	v.SetEnvPrefix(appparams.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// FilePath is where the optional TOML config lives under home.
func FilePath(home string) string {
	return filepath.Join(home, "config", appparams.BinaryName+".toml")
}

// DataDir holds the application database.
func (c Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// GenesisPath is the app genesis document read by InitChain.
func (c Config) GenesisPath() string {
	return filepath.Join(c.Home, "config", "genesis.json")
}

// Load reads the config file (if present) into v and decodes the result.
func Load(v *viper.Viper) (Config, error) {
	home := v.GetString(FlagHome)
	v.SetConfigFile(FilePath(home))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", FilePath(home), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home must be set")
	}
	if c.ChainID == "" {
		return fmt.Errorf("chain-id must be set")
	}
	switch c.Transport {
	case "socket", "grpc":
	default:
		return fmt.Errorf("unsupported transport %q (socket|grpc)", c.Transport)
	}
	switch c.DBBackend {
	case DBBackendGoLevelDB, DBBackendMemDB:
	default:
		return fmt.Errorf("unsupported db-backend %q (%s|%s)", c.DBBackend, DBBackendGoLevelDB, DBBackendMemDB)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level: %w", err)
	}
	switch c.LogFormat {
	case LogFormatJSON, LogFormatPlain:
	default:
		return fmt.Errorf("unsupported log-format %q (%s|%s)", c.LogFormat, LogFormatJSON, LogFormatPlain)
	}
	return nil
}

// WriteFile stores c as TOML at FilePath(c.Home), creating the directory.
func WriteFile(c Config) error {
	path := FilePath(c.Home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	v := viper.New()
	v.Set(FlagChainID, c.ChainID)
	v.Set(FlagAddr, c.Addr)
	v.Set(FlagTransport, c.Transport)
	v.Set(FlagDBBackend, c.DBBackend)
	v.Set(FlagLogLevel, c.LogLevel)
	v.Set(FlagLogFormat, c.LogFormat)
	return v.WriteConfigAs(path)
}

// NewLogger builds the process logger from the log-level and log-format settings.
func NewLogger(c Config, w io.Writer) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log-level: %w", err)
	}
	opts := []log.Option{log.LevelOption(lvl)}
	if c.LogFormat == LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...), nil
}
