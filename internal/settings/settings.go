// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package settings loads the command line tool settings.
//
// Example file:
//   nbits: 16
//   es: 1
//   rounding: stochastic
//   seed: 42
package settings

import (
	"math/rand"
	"os"
	"strings"

	"github.com/zeebo/errs"
	"gopkg.in/yaml.v3"

	"github.com/avdva/posit"
)

// Error is the class of settings errors.
var Error = errs.Class("settings")

const (
	RoundingNearest    = "nearest"
	RoundingStochastic = "stochastic"
)

// Settings selects the posit format and rounding.
type Settings struct {
	Nbits    int    `yaml:"nbits"`
	ES       int    `yaml:"es"`
	Rounding string `yaml:"rounding"`
	Seed     int64  `yaml:"seed"`
}

// Default returns posit<32,2> with nearest rounding.
func Default() Settings {
	return Settings{Nbits: 32, ES: 2, Rounding: RoundingNearest, Seed: 1}
}

// Load reads settings from a yaml file. Missing keys keep their default values.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, Error.Wrap(err)
	}
	return Parse(data)
}

// Parse parses yaml settings. Missing keys keep their default values.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, Error.Wrap(err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the format and the rounding name.
func (s Settings) Validate() error {
	if _, err := s.Config(); err != nil {
		return err
	}
	_, err := s.NewRounding()
	return err
}

// Config returns the posit config.
func (s Settings) Config() (posit.Config, error) {
	c, err := posit.New(s.Nbits, s.ES)
	return c, Error.Wrap(err)
}

// NewRounding returns the rounding. Stochastic rounding is seeded with Seed.
func (s Settings) NewRounding() (posit.Rounding, error) {
	switch strings.ToLower(s.Rounding) {
	case "", RoundingNearest:
		return posit.Nearest, nil
	case RoundingStochastic:
		return posit.Stochastic(rand.New(rand.NewSource(s.Seed))), nil
	}
	return nil, Error.New("unknown rounding %q", s.Rounding)
}
