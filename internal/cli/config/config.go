package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Konsultn-Engineering/typemeta/convert"
	"github.com/Konsultn-Engineering/typemeta/schema"
)

// EnvPrefix prefixes every environment override, e.g. TYPEMETA_OUTPUT.
const EnvPrefix = "TYPEMETA"

// Config represents the typemeta CLI configuration
type Config struct {
	Output     string `mapstructure:"output"`
	Naming     string `mapstructure:"naming"`
	Serializer string `mapstructure:"serializer"`
	Verbose    bool   `mapstructure:"verbose"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", "json")
	v.SetDefault("naming", "none")
	v.SetDefault("serializer", "json")
	v.SetDefault("verbose", false)
}

// Load reads configuration into a Config. An explicit file must exist;
// otherwise typemeta.yaml in the working directory is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("typemeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	config.Output = strings.ToLower(strings.TrimSpace(config.Output))
	switch config.Output {
	case "json", "yaml":
	default:
		return fmt.Errorf("output must be json or yaml, got %q", config.Output)
	}

	if _, ok := schema.NamingStrategyByName(config.Naming); !ok {
		return fmt.Errorf("naming must be none, snake, camel or pascal, got %q", config.Naming)
	}

	if _, ok := convert.ByName(config.Serializer); !ok {
		return fmt.Errorf("unknown serializer %q", config.Serializer)
	}

	return nil
}

// NamingStrategy returns the strategy named by the naming key.
func (c *Config) NamingStrategy() schema.NamingStrategy {
	strategy, ok := schema.NamingStrategyByName(c.Naming)
	if !ok {
		return schema.NewKeyNamingStrategy(schema.KeyVerbatim)
	}
	return strategy
}

// KeyNaming returns the configured case convention.
func (c *Config) KeyNaming() schema.KeyNamingType {
	namingType, _ := schema.ParseKeyNaming(c.Naming)
	return namingType
}

// FallbackSerializer returns the configured conversion serializer.
func (c *Config) FallbackSerializer() convert.Serializer {
	s, _ := convert.ByName(c.Serializer)
	return s
}
