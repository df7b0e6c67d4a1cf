package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	assert.NoError(err)
	assert.Equal(uint8(1), cfg.Output.Channel)
	assert.Equal("block", cfg.Performance.Mode)
	assert.Equal(120, cfg.Performance.Tempo)
}

func TestSaveAndReload(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.Output.PortName = "FluidSynth"
	cfg.Performance.Mode = "stride"
	cfg.Performance.Tempo = 96
	cfg.Performance.Humanize = 35
	cfg.AddController(ControllerConfig{PortName: "Launchkey", AutoConnect: true})
	assert.NoError(cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	assert.NoError(err)
	assert.Equal("FluidSynth", loaded.Output.PortName)
	assert.Equal("stride", loaded.Performance.Mode)
	assert.Equal(96, loaded.Performance.Tempo)
	assert.Equal(35, loaded.Performance.Humanize)
	if assert.Len(loaded.Controllers, 1) {
		assert.Equal("Launchkey", loaded.Controllers[0].PortName)
		assert.True(loaded.Controllers[0].AutoConnect)
	}
}

func TestLoadFromRejectsCorruptFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(os.WriteFile(path, []byte("nope"), 0644))
	_, err := LoadFrom(path)
	assert.Error(err)
}

func TestAddControllerUpdatesExisting(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.AddController(ControllerConfig{PortName: "Launchkey", AutoConnect: false})
	cfg.AddController(ControllerConfig{PortName: "Launchkey", AutoConnect: true})

	assert.Len(cfg.Controllers, 1)
	assert.True(cfg.Controllers[0].AutoConnect)
}

func TestFindController(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.AddController(ControllerConfig{PortName: "Launchkey"})

	assert.NotNil(cfg.FindController("Launchkey"))
	assert.Nil(cfg.FindController("Other"))
}

func TestAutoConnectControllers(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.AddController(ControllerConfig{PortName: "A", AutoConnect: true})
	cfg.AddController(ControllerConfig{PortName: "B"})
	cfg.AddController(ControllerConfig{PortName: "C", AutoConnect: true})

	auto := cfg.AutoConnectControllers()
	assert.Len(auto, 2)
	assert.Equal("A", auto[0].PortName)
	assert.Equal("C", auto[1].PortName)
}
