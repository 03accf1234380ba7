package main

import (
	"strings"

	"github.com/EduardoSa-Tester/satellite-api-tests/config"
	"github.com/EduardoSa-Tester/satellite-api-tests/framework"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"
)

type commandParams struct {
	configPath      string
	catalogURL      string
	spaceObjectsURL string
	filters         framework.RegexFilters
	offline         bool
	debug           bool
	debugAll        bool
}

func (c *commandParams) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&c.configPath, "config", "", "YAML config file (default: built-in public endpoints)")
	fs.StringVar(&c.catalogURL, "catalog-url", "", "GP data catalog query URL, overriding the config")
	fs.StringVar(&c.spaceObjectsURL, "space-objects-url", "", "space-object API base URL, overriding the config")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.offline, "offline", false, "run against the built-in reference service")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
}

func (c *commandParams) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.catalogURL != "" {
		cfg.Catalog.URL = c.catalogURL
	}
	if c.spaceObjectsURL != "" {
		cfg.SpaceObjects.BaseURL = c.spaceObjectsURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// rerunCommand is a shell command line that repeats this run with only the given tests selected.
func (c *commandParams) rerunCommand(program string, failed []framework.TestResult) string {
	var cmd commandBuilder
	cmd.add(program)
	if c.configPath != "" {
		cmd.add("--config", c.configPath)
	}
	if c.catalogURL != "" {
		cmd.add("--catalog-url", c.catalogURL)
	}
	if c.spaceObjectsURL != "" {
		cmd.add("--space-objects-url", c.spaceObjectsURL)
	}
	if c.offline {
		cmd.add("--offline")
	}
	if c.debugAll {
		cmd.add("--debug-all")
	} else if c.debug {
		cmd.add("--debug")
	}
	var names []string
	for _, f := range failed {
		names = append(names, f.TestID.String())
	}
	exact := framework.ExactNames(names...)
	for _, pattern := range exact.Sources() {
		cmd.add("--run", pattern)
	}
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
