// Package config loads CLI configuration from flags, an optional
// config file, and BPEKIT_* environment variables, in that order of
// precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Model    ModelConfig `mapstructure:"model"`
	Train    TrainConfig `mapstructure:"train"`
	LogLevel string      `mapstructure:"log_level"`
}

type ModelConfig struct {
	Path     string `mapstructure:"path"`
	Elements string `mapstructure:"elements"`
}

type TrainConfig struct {
	Merges       int    `mapstructure:"merges"`
	AlphabetFile string `mapstructure:"alphabet_file"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Model: ModelConfig{
			Path:     "model.json",
			Elements: ElementsRunes,
		},
		Train: TrainConfig{
			Merges:       256,
			AlphabetFile: "",
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("model-path", defaults.Model.Path, "Path to the tokenizer model file")
	fs.String("model-elements", defaults.Model.Elements, "Element type: runes|bytes")
	fs.Int("train-merges", defaults.Train.Merges, "Target number of merges to learn")
	fs.String("train-alphabet-file", defaults.Train.AlphabetFile, "File whose distinct elements seed the alphabet")
	fs.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
		// Aliases map flag-style keys onto config keys; registering
		// them without bound flags shadows config file values.
		registerAliases(v)
	}

	v.SetEnvPrefix("BPEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("bpekit")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if _, err := NormalizeElements(cfg.Model.Elements); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("model.path", c.Model.Path)
	v.SetDefault("model.elements", c.Model.Elements)
	v.SetDefault("train.merges", c.Train.Merges)
	v.SetDefault("train.alphabet_file", c.Train.AlphabetFile)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("model.path", "model-path")
	v.RegisterAlias("model.elements", "model-elements")
	v.RegisterAlias("train.merges", "train-merges")
	v.RegisterAlias("train.alphabet_file", "train-alphabet-file")
	v.RegisterAlias("log_level", "log-level")
}
