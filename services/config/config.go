package config

import (
	"context"

	"keymatrix-go/bus"
	"keymatrix-go/errcode"
	"keymatrix-go/keymap"
	"keymatrix-go/types"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// Device is everything a board needs at boot.
type Device struct {
	Keyboard types.KeyboardConfig
	Keymap   *keymap.Keymap
	Diag     types.DiagConfig
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) (Device, error) {
	build, ok := embeddedConfigs[device]
	if !ok {
		return Device{}, errcode.Wrap(errcode.InvalidConfig, serviceName, "no embedded config for device: "+device, nil)
	}
	return build()
}

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig resolves the device config and publishes each part retained
// under config/<part>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errcode.Wrap(errcode.InvalidParams, serviceName, "missing device ID in context", nil)
	}
	d, err := EmbeddedConfigLookup(device)
	if err != nil {
		return err
	}
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "kbd"), d.Keyboard, true))
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "keymap"), d.Keymap, true))
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "diag"), d.Diag, true))
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config] publish failed:", err.Error())
			return
		}
		println("[config] published")
	}()
}
