package main

import (
	"bitbucket.org/sotavant/solar-skill/internal/config"
	"flag"
)

var flagConfigPath string
var flagRunAddr string
var flagLogLevel string
var flagMode string

func parseFlags() {
	flag.StringVar(&flagConfigPath, "c", "", "path to YAML config file")
	flag.StringVar(&flagRunAddr, "a", ":8080", "address and port")
	flag.StringVar(&flagLogLevel, "l", "info", "log level")
	flag.StringVar(&flagMode, "m", "", "run mode: http or lambda")
	flag.Parse()
}

// flagOverrides applies only the flags given on the command line, so the
// config file keeps its values for the rest.
func flagOverrides(c *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			c.Server.Addr = flagRunAddr
		case "l":
			c.Log.Level = flagLogLevel
		case "m":
			c.Server.Mode = flagMode
		}
	})
}
