// Package config loads the persistent, caller-overridable defaults a
// translation run starts from: provider endpoint/model, batch size,
// concurrency, and inter-wave delay.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Settings holds the on-disk defaults for a translation run. Any field
// may be overridden per-invocation by CLI flags.
type Settings struct {
	Provider    string `mapstructure:"provider"`
	Endpoint    string `mapstructure:"endpoint"`
	Model       string `mapstructure:"model"`
	APIKey      string `mapstructure:"api_key"`
	StyleTag    string `mapstructure:"style_tag"`
	SourceLang  string `mapstructure:"source_lang"`
	TargetLang  string `mapstructure:"target_lang"`
	BatchSize   int    `mapstructure:"batch_size"`
	Concurrency int    `mapstructure:"concurrency"`
	DelayMs     int    `mapstructure:"delay_ms"`
}

const envPrefix = "SUBTRANS"

func configDir() (string, error) {
	dir := filepath.Join(xdg.ConfigHome, "subtrans")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Init wires Viper to the XDG config path (or customPath when set),
// registers the SUBTRANS_ environment prefix, seeds defaults, and reads
// any existing config file, writing a fresh default one if none exists.
func Init(customPath string) error {
	if customPath != "" {
		viper.SetConfigFile(customPath)
	} else {
		path, err := configPath()
		if err != nil {
			return err
		}
		viper.SetConfigFile(path)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("provider", "openai")
	viper.SetDefault("endpoint", "https://api.openai.com/v1")
	viper.SetDefault("model", "")
	viper.SetDefault("api_key", "")
	viper.SetDefault("style_tag", "natural")
	viper.SetDefault("source_lang", "ja")
	viper.SetDefault("target_lang", "en")
	viper.SetDefault("batch_size", 20)
	viper.SetDefault("concurrency", 1)
	viper.SetDefault("delay_ms", 0)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return viper.SafeWriteConfigAs(viper.ConfigFileUsed())
		}
		return err
	}
	return nil
}

// Load unmarshals the currently-bound Viper state into a Settings value.
func Load() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save persists s to the XDG config path.
func Save(s Settings) error {
	viper.Set("provider", s.Provider)
	viper.Set("endpoint", s.Endpoint)
	viper.Set("model", s.Model)
	viper.Set("api_key", s.APIKey)
	viper.Set("style_tag", s.StyleTag)
	viper.Set("source_lang", s.SourceLang)
	viper.Set("target_lang", s.TargetLang)
	viper.Set("batch_size", s.BatchSize)
	viper.Set("concurrency", s.Concurrency)
	viper.Set("delay_ms", s.DelayMs)

	path, err := configPath()
	if err != nil {
		return err
	}
	viper.SetConfigFile(path)
	return viper.WriteConfig()
}
