package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	StatusAddr string `mapstructure:"status_addr"`

	// PortOffset is subtracted from the parsed audio host port to get
	// the engine's wire port. 200 in the reference deployment.
	PortOffset int `mapstructure:"port_offset"`
	// SignalingTemplate is filled with the two-label-stripped host
	// suffix and the meeting id.
	SignalingTemplate string `mapstructure:"signaling_template"`

	Transport int `mapstructure:"transport"`
	SendCodec int `mapstructure:"send_codec"`
	RecvCodec int `mapstructure:"recv_codec"`

	QueueSize int `mapstructure:"queue_size"`
}

// Defaults is the configuration used when no file is present or the
// file cannot be parsed.
func Defaults() *Config {
	return &Config{
		Mode:              "release",
		StatusAddr:        ":8090",
		PortOffset:        200,
		SignalingTemplate: "wss://signal.%s/calls/%s",
		Transport:         0,
		SendCodec:         0,
		RecvCodec:         0,
		QueueSize:         64,
	}
}

// Load reads config/config.<CONFIG_ENV>.yaml. It always returns a
// usable config: a missing file yields Defaults silently, an
// unparseable one yields Defaults alongside the error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	d := Defaults()
	v.SetDefault("mode", d.Mode)
	v.SetDefault("status_addr", d.StatusAddr)
	v.SetDefault("port_offset", d.PortOffset)
	v.SetDefault("signaling_template", d.SignalingTemplate)
	v.SetDefault("transport", d.Transport)
	v.SetDefault("send_codec", d.SendCodec)
	v.SetDefault("recv_codec", d.RecvCodec)
	v.SetDefault("queue_size", d.QueueSize)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return d, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
