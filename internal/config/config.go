package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMua    = 0.1
	DefaultMum    = 1.4
	DefaultKs     = 0.8
	DefaultXm     = 1.0
	DefaultB      = 100.0
	DefaultC      = 1.0
	DefaultKp     = 0.2
	DefaultKi     = 110.0
	DefaultDo     = 0.8
	DefaultX0     = 2e-3
	DefaultS0     = 0.8
	DefaultKla0   = 0.2
	DefaultTEnd   = 10.0
	DefaultPoints = 10000
)

// Config is the single run configuration: the reactor parameter set, the
// initial condition, and the time grid. One structure replaces the
// copy-paste parameter variants the model used to ship with.
type Config struct {
	Integrator string       `yaml:"integrator"`
	Params     ParamsConfig `yaml:"params"`
	Init       InitConfig   `yaml:"init"`
	Grid       GridConfig   `yaml:"grid"`
}

type ParamsConfig struct {
	Mua float64 `yaml:"mua"`
	Mum float64 `yaml:"mum"`
	Ks  float64 `yaml:"ks"`
	Xm  float64 `yaml:"xm"`
	B   float64 `yaml:"b"`
	C   float64 `yaml:"c"`
	Kp  float64 `yaml:"kp"`
	Ki  float64 `yaml:"ki"`
	Do  float64 `yaml:"do"`
}

type InitConfig struct {
	X0   float64 `yaml:"x0"`
	S0   float64 `yaml:"s0"`
	Kla0 float64 `yaml:"kla0"`
}

type GridConfig struct {
	Start  float64 `yaml:"start"`
	End    float64 `yaml:"end"`
	Points int     `yaml:"points"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "euler",
		Params: ParamsConfig{
			Mua: DefaultMua,
			Mum: DefaultMum,
			Ks:  DefaultKs,
			Xm:  DefaultXm,
			B:   DefaultB,
			C:   DefaultC,
			Kp:  DefaultKp,
			Ki:  DefaultKi,
			Do:  DefaultDo,
		},
		Init: InitConfig{
			X0:   DefaultX0,
			S0:   DefaultS0,
			Kla0: DefaultKla0,
		},
		Grid: GridConfig{
			Start:  0,
			End:    DefaultTEnd,
			Points: DefaultPoints,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// InitState returns the initial (X, S, kla) vector.
func (c *Config) InitState() []float64 {
	return []float64{c.Init.X0, c.Init.S0, c.Init.Kla0}
}

// Clone returns an independent copy, used by sweeps that mutate parameters.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// SetParam overrides one reactor parameter by its yaml name.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "mua":
		c.Params.Mua = value
	case "mum":
		c.Params.Mum = value
	case "ks":
		c.Params.Ks = value
	case "xm":
		c.Params.Xm = value
	case "b":
		c.Params.B = value
	case "c":
		c.Params.C = value
	case "kp":
		c.Params.Kp = value
	case "ki":
		c.Params.Ki = value
	case "do":
		c.Params.Do = value
	case "x0":
		c.Init.X0 = value
	case "s0":
		c.Init.S0 = value
	case "kla0":
		c.Init.Kla0 = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
