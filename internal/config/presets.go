package config

// Presets are named run configurations. "baseline" reproduces the stock
// parameter set; the others exercise the control law's edges.
var Presets = map[string]*Config{
	"baseline": {
		Integrator: "euler",
		Params:     ParamsConfig{Mua: 0.1, Mum: 1.4, Ks: 0.8, Xm: 1, B: 100, C: 1, Kp: 0.2, Ki: 110, Do: 0.8},
		Init:       InitConfig{X0: 2e-3, S0: 0.8, Kla0: 0.2},
		Grid:       GridConfig{Start: 0, End: 10, Points: 10000},
	},
	// Heavy oxygen demand with a weak integral gain: kla ramps into the
	// actuator ceiling and sticks there.
	"high-demand": {
		Integrator: "euler",
		Params:     ParamsConfig{Mua: 0.1, Mum: 1.4, Ks: 0.8333, Xm: 1, B: 500, C: 1, Kp: 0.2, Ki: 2, Do: 0.8},
		Init:       InitConfig{X0: 2e-3, S0: 0.3, Kla0: 0.2},
		Grid:       GridConfig{Start: 0, End: 10, Points: 50000},
	},
	// Setpoint at the solubility limit: the feed-forward term is singular
	// and drops out, leaving pure integral drive.
	"saturated": {
		Integrator: "euler",
		Params:     ParamsConfig{Mua: 0.1, Mum: 1.4, Ks: 0.8333, Xm: 1, B: 500, C: 1, Kp: 0.2, Ki: 2, Do: 1.0},
		Init:       InitConfig{X0: 2e-3, S0: 0.3, Kla0: 0.2},
		Grid:       GridConfig{Start: 0, End: 10, Points: 50000},
	},
	// Detuned integral gain; oxygen sags well below the setpoint before
	// the controller winds up.
	"sluggish": {
		Integrator: "euler",
		Params:     ParamsConfig{Mua: 0.1, Mum: 1.4, Ks: 0.8, Xm: 1, B: 100, C: 1, Kp: 0.2, Ki: 10, Do: 0.8},
		Init:       InitConfig{X0: 2e-3, S0: 0.8, Kla0: 0.2},
		Grid:       GridConfig{Start: 0, End: 10, Points: 10000},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
