package main

import (
	"errors"

	"github.com/akamensky/argparse"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/config"
)

// loadConfig layers the command line over the config file over the
// defaults, then validates the result.
func loadConfig(args []string) (config.Config, error) {
	parser := argparse.NewParser("myturn-devproxy", "Serve local builds of the MyTurn footer scripts through a proxy of the live site")

	host := parser.StringPositional(&argparse.Options{
		Help: "Host the browser uses to reach the proxy. Default: " + config.DefaultHost,
	})
	port := parser.IntPositional(&argparse.Options{
		Help: "Port the proxy listens on. Default: 3000",
	})

	upstream := parser.String("u", "upstream", &argparse.Options{
		Required: false,
		Help:     "MyTurn site to proxy. Default: " + config.DefaultUpstream,
	})
	scripts := parser.String("s", "scripts", &argparse.Options{
		Required: false,
		Help:     "Directory holding the script sources. Default: " + config.DefaultScriptsDir,
	})
	configFile := parser.String("c", "config", &argparse.Options{
		Required: false,
		Help:     "YAML config file. Command line values take precedence",
	})
	locations := parser.String("l", "locations", &argparse.Options{
		Required: false,
		Help:     "YAML file replacing the built-in storage location list",
	})
	render := parser.Flag("r", "render-patches", &argparse.Options{
		Required: false,
		Help:     "Also apply the page patches on the server before sending pages",
	})
	watch := parser.Flag("w", "watch", &argparse.Options{
		Required: false,
		Help:     "Rebuild every script whenever a source file changes and log build errors",
	})
	verbose := parser.Flag("v", "verbose", &argparse.Options{
		Required: false,
		Help:     "Log every request",
	})

	if err := parser.Parse(args); err != nil {
		return config.Config{}, errors.New(parser.Usage(err))
	}

	var file config.Config
	if *configFile != "" {
		var err error
		if file, err = config.LoadFile(*configFile); err != nil {
			return config.Config{}, err
		}
	}

	cfg := config.Merge(config.Default(), file, config.Config{
		Host:          *host,
		Port:          *port,
		Upstream:      *upstream,
		ScriptsDir:    *scripts,
		LocationsFile: *locations,
		RenderPatches: *render,
		Watch:         *watch,
		Verbose:       *verbose,
	})
	return cfg, cfg.Validate()
}
