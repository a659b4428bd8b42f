package config

import (
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"forgelab.xyz/pktforge/internal/layers"
)

// Load reads the configuration file at path on top of the built-in
// defaults. An empty path means "no file": the defaults are returned
// unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := decode(v.AllSettings(), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// decode maps the raw settings onto cfg, running the address and flag
// hooks so YAML carries the usual text forms.
func decode(settings map[string]interface{}, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToMACHook,
			stringToIPv4Hook,
			stringToTCPFlagsHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(settings)
}

var (
	macType     = reflect.TypeOf(layers.MACAddr{})
	ipv4Type    = reflect.TypeOf(layers.IPv4Addr{})
	tcpFlagType = reflect.TypeOf(layers.TCPFlags(0))
)

// stringToMACHook decodes "00:11:22:33:44:55" into a MACAddr.
func stringToMACHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != macType {
		return data, nil
	}
	return layers.ParseMAC(data.(string))
}

// stringToIPv4Hook decodes "192.168.1.1" into an IPv4Addr.
func stringToIPv4Hook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != ipv4Type {
		return data, nil
	}
	return layers.ParseIPv4(data.(string))
}

// stringToTCPFlagsHook decodes "SYN,ACK" into TCPFlags.
func stringToTCPFlagsHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != tcpFlagType {
		return data, nil
	}
	return layers.ParseTCPFlags(data.(string))
}
