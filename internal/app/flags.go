package app

import (
	"flag"
	"runtime"
	"strings"
)

// StringList collects a repeatable string flag.
type StringList []string

func (l *StringList) String() string {
	return strings.Join(*l, ",")
}

// Set appends one value.
func (l *StringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Map reads the values as key=value pairs; malformed entries are skipped.
func (l StringList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// Config represents the command-line parameters shared by the commands.
type Config struct {
	Demo    string
	Ticks   int
	Workers int
	Scale   int
	TPS     int
	Set     StringList
	Drop    StringList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Demo: "life", Ticks: 16, Workers: runtime.NumCPU(), Scale: 24, TPS: 8}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Demo, "demo", c.Demo, "demo to run")
	fs.IntVar(&c.Ticks, "ticks", c.Ticks, "ticks to simulate")
	fs.IntVar(&c.Workers, "workers", c.Workers, "concurrent read-backs")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "playback frames per second")
	fs.Var(&c.Set, "set", "demo parameter in key=value form (repeatable)")
	fs.Var(&c.Drop, "drop", "label of a cell whose recording is lost (repeatable)")
}
