// Package nalu reads the reference flow constants out of a Nalu input file.
package nalu

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Constants are the reference quantities used to normalize the results.
type Constants struct {
	Velocity  float64 // Streamwise inflow velocity
	Density   float64
	Viscosity float64 // Dynamic viscosity
}

// DynamicPressure returns 0.5 rho u^2.
func (c Constants) DynamicPressure() float64 {
	return 0.5 * c.Density * c.Velocity * c.Velocity
}

// Reynolds returns the Reynolds number based on the given length.
func (c Constants) Reynolds(length float64) float64 {
	return c.Density * c.Velocity * length / c.Viscosity
}

// ConfigError reports a Nalu input that lacks one of the constants.
type ConfigError struct {
	Path string
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("nalu: %s: %s: %v", e.Path, e.Key, e.Err)
	}
	return fmt.Sprintf("nalu: %s: %s not found", e.Path, e.Key)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type specification struct {
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value"`
}

type input struct {
	Realms []struct {
		Name              string `yaml:"name"`
		InitialConditions []struct {
			Value struct {
				Velocity []float64 `yaml:"velocity"`
			} `yaml:"value"`
		} `yaml:"initial_conditions"`
		MaterialProperties struct {
			Specifications []specification `yaml:"specifications"`
		} `yaml:"material_properties"`
	} `yaml:"realms"`
}

// ReadConstants reads the constants of the first realm: the first velocity
// component of its first initial condition, and the density and viscosity
// material specifications. Specifications are looked up by name; unnamed
// ones are taken in order, density first.
func ReadConstants(path string) (Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, err
	}
	return ParseConstants(path, data)
}

// ParseConstants is ReadConstants on the contents of a file. The path is
// used in errors only.
func ParseConstants(path string, data []byte) (Constants, error) {
	var in input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return Constants{}, &ConfigError{Path: path, Key: "realms", Err: err}
	}
	if len(in.Realms) == 0 {
		return Constants{}, &ConfigError{Path: path, Key: "realms"}
	}
	realm := in.Realms[0]

	var c Constants
	if len(realm.InitialConditions) == 0 || len(realm.InitialConditions[0].Value.Velocity) == 0 {
		return Constants{}, &ConfigError{Path: path, Key: "initial_conditions.value.velocity"}
	}
	c.Velocity = realm.InitialConditions[0].Value.Velocity[0]

	specs := realm.MaterialProperties.Specifications
	for _, s := range []struct {
		name string
		pos  int
		dst  *float64
	}{
		{"density", 0, &c.Density},
		{"viscosity", 1, &c.Viscosity},
	} {
		spec, ok := lookup(specs, s.name, s.pos)
		if !ok {
			return Constants{}, &ConfigError{Path: path, Key: "material_properties.specifications." + s.name}
		}
		if err := spec.Value.Decode(s.dst); err != nil {
			return Constants{}, &ConfigError{Path: path, Key: "material_properties.specifications." + s.name, Err: err}
		}
	}
	return c, nil
}

func lookup(specs []specification, name string, pos int) (specification, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	if pos < len(specs) && specs[pos].Name == "" {
		return specs[pos], true
	}
	return specification{}, false
}
