package main

import (
	"fmt"
	"os"

	"github.com/benbjohnson/clock"

	"github.com/vburojevic/dynaspy/internal/cli"
	"github.com/vburojevic/dynaspy/internal/config"
	"github.com/vburojevic/dynaspy/internal/platform"
)

func main() {
	// Load configuration from DYNASPY_CONFIG, or the usual files/environment
	var (
		cfg     *config.Config
		cfgFile string
		err     error
	)
	if path := os.Getenv("DYNASPY_CONFIG"); path != "" {
		cfg, err = config.LoadFromFile(path)
		cfgFile = path
	} else {
		cfg, err = config.Load()
		cfgFile = config.ConfigFile()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
		cfgFile = ""
	}

	os.Exit(cli.Main(os.Args[1:], &cli.Globals{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Config:     cfg,
		ConfigFile: cfgFile,
		Platform:   platform.New(),
		Clock:      clock.New(),
	}))
}
