package polyld

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/pfx"
)

// Config carries the run parameters shared by the prune-ld and poly-freq
// binaries. TOML keys match the flag names.
type Config struct {
	VCF   string `toml:"vcf"`
	Sites string `toml:"sites"`
	Pops  string `toml:"pops"`

	Window int     `toml:"window"`
	Step   int     `toml:"step"`
	MaxR2  float64 `toml:"max_r2"`

	Mis float64 `toml:"mis"`
	MAF float64 `toml:"maf"`

	Out   int    `toml:"out"`
	Info  string `toml:"info"`
	Index string `toml:"index"`
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (*Config, error) {
	c := &Config{}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, pfx.Err(err)
	}

	return c, nil
}

// LDEnabled reports whether a pruning window was requested.
func (c *Config) LDEnabled() bool {
	return c.Window > 0
}

// Validate checks every numeric range before any input is read.
func (c *Config) Validate() error {
	if c.VCF == "" {
		return pfx.Err(fmt.Errorf("a VCF file is required"))
	}
	if c.Mis < 0 || c.Mis > 1 {
		return pfx.Err(fmt.Errorf("invalid value for mis (%v): must be between 0 and 1", c.Mis))
	}
	if c.MAF < 0 || c.MAF > 1 {
		return pfx.Err(fmt.Errorf("invalid value for maf (%v): must be between 0 and 1", c.MAF))
	}
	if c.LDEnabled() {
		if c.Step < 1 || c.Step > c.Window {
			return pfx.Err(fmt.Errorf("invalid step size %d: must be between 1 and the window size", c.Step))
		}
		if c.MaxR2 < 0 || c.MaxR2 > 1 {
			return pfx.Err(fmt.Errorf("invalid value for max r² (%v): must be between 0 and 1", c.MaxR2))
		}
	}
	if c.Out != 0 && c.Out != 1 {
		return pfx.Err(fmt.Errorf("invalid value for out (%d): allowed are 0 (allele frequencies) and 1 (allele counts)", c.Out))
	}

	return nil
}

// Mode translates the out switch into the aggregate output mode.
func (c *Config) Mode() OutputMode {
	if c.Out == 1 {
		return OutputCounts
	}

	return OutputFrequencies
}
