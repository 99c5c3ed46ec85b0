// Package config contains ftctl application configuration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/nspcc-dev/ft-ledger/contracts/ft"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"lukechampine.com/uint128"
)

// EnvPrefix is a prefix of environment variables overriding configuration
// values, e.g. FT_LOGGER_LEVEL.
const EnvPrefix = "FT"

// Config is the application configuration.
type Config struct {
	DB       dbconfig.DBConfiguration `mapstructure:"DB" yaml:"DB"`
	Logger   Logger                   `mapstructure:"Logger" yaml:"Logger"`
	Contract Contract                 `mapstructure:"Contract" yaml:"Contract"`
	Dump     Dump                     `mapstructure:"Dump" yaml:"Dump"`
}

// Contract groups contract parameters.
type Contract struct {
	// Price of one byte of storage, base-10 string. Applied when the ledger
	// is initialized only.
	StorageByteCost string `mapstructure:"StorageByteCost" yaml:"StorageByteCost"`
}

// Dump groups state dump parameters.
type Dump struct {
	Directory string `mapstructure:"Directory" yaml:"Directory"`
	Label     string `mapstructure:"Label" yaml:"Label"`
}

// Default returns configuration with default values.
func Default() Config {
	return Config{
		DB: dbconfig.DBConfiguration{
			Type: dbconfig.LevelDB,
			LevelDBOptions: dbconfig.LevelDBOptions{
				DataDirectoryPath: "./data/ledger",
			},
			BoltDBOptions: dbconfig.BoltDBOptions{
				FilePath: "./data/ledger.bolt",
			},
		},
		Logger: Logger{
			Level:    "info",
			Encoding: "console",
		},
		Contract: Contract{
			StorageByteCost: ft.DefaultStorageByteCost.String(),
		},
		Dump: Dump{
			Directory: "./dumps",
			Label:     "ledger",
		},
	}
}

// Load reads configuration from the YAML file at path on top of the default
// values. Empty path means defaults only. In both cases values can be
// overridden by environment variables with EnvPrefix.
func Load(path string) (Config, error) {
	v := viper.New()

	def := Default()
	for key, val := range map[string]any{
		"DB.Type":                             def.DB.Type,
		"DB.LevelDBOptions.DataDirectoryPath": def.DB.LevelDBOptions.DataDirectoryPath,
		"DB.BoltDBOptions.FilePath":           def.DB.BoltDBOptions.FilePath,
		"Logger.Level":                        def.Logger.Level,
		"Logger.Encoding":                     def.Logger.Encoding,
		"Contract.StorageByteCost":            def.Contract.StorageByteCost,
		"Dump.Directory":                      def.Dump.Directory,
		"Dump.Label":                          def.Dump.Label,
	} {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	})
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration values.
func (c Config) Validate() error {
	switch c.DB.Type {
	case dbconfig.InMemoryDB:
	case dbconfig.LevelDB:
		if c.DB.LevelDBOptions.DataDirectoryPath == "" {
			return errors.New("empty LevelDB data directory")
		}
	case dbconfig.BoltDB:
		if c.DB.BoltDBOptions.FilePath == "" {
			return errors.New("empty BoltDB file path")
		}
	default:
		return fmt.Errorf("unsupported DB type '%s'", c.DB.Type)
	}

	if _, err := c.Logger.level(); err != nil {
		return err
	}

	switch c.Logger.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log encoding '%s'", c.Logger.Encoding)
	}

	if _, err := c.Contract.ByteCost(); err != nil {
		return err
	}

	if c.Dump.Label == "" || strings.Contains(c.Dump.Label, "/") {
		return fmt.Errorf("invalid dump label '%s'", c.Dump.Label)
	}

	return nil
}

// ByteCost parses the storage byte price.
func (c Contract) ByteCost() (uint128.Uint128, error) {
	v, err := uint128.FromString(c.StorageByteCost)
	if err != nil {
		return uint128.Zero, fmt.Errorf("invalid storage byte cost '%s': %w", c.StorageByteCost, err)
	}
	if v.IsZero() {
		return uint128.Zero, errors.New("zero storage byte cost")
	}
	return v, nil
}

// YAML returns configuration encoded in YAML.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
