package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/sustainablecapitolhill/myturn-hacks/handlers"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/bundler"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/checkin"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/config"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/pagescript"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/watch"
)

var log = _log.WithField("at", "main")

func setupLogging(verbose bool) {
	_log.SetOutput(os.Stdout)
	_log.SetFormatter(&_log.TextFormatter{
		FullTimestamp: true,
		DisableColors: !term.IsTerminal(int(os.Stdout.Fd())),
	})
	_log.SetLevel(_log.InfoLevel)
	if verbose {
		_log.SetLevel(_log.DebugLevel)
	}
}

// patchSet returns nil unless pages should be patched on the server.
func patchSet(cfg config.Config, sender pagescript.Sender) (handlers.PatchSet, error) {
	if !cfg.RenderPatches {
		return nil, nil
	}

	vocab := pagescript.DefaultVocabulary()
	if cfg.LocationsFile != "" {
		var err error
		if vocab, err = pagescript.LoadVocabulary(cfg.LocationsFile); err != nil {
			return nil, err
		}
	}

	checkInURL := cfg.LocalOrigin() + handlers.CheckInPath
	return func() *pagescript.Set {
		return pagescript.Default(pagescript.Options{
			Vocabulary: vocab,
			Sender:     sender,
			CheckInURL: checkInURL,
		})
	}, nil
}

func main() {
	cfg, err := loadConfig(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.Verbose)

	b, err := bundler.New(cfg.ScriptsDir)
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range cfg.Registry().Names() {
		if _, err := b.EntryPoint(name); err != nil {
			log.Warnf("%v; /devscripts/%s.js will fail until it exists", err, name)
		}
	}

	dispatcher := checkin.NewDispatcher(cfg.CheckInEndpoint, nil)
	patches, err := patchSet(cfg, dispatcher)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		src, err := watch.NewFileSource(b.Root())
		if err != nil {
			log.Fatal(err)
		}
		defer src.Close()

		go func() {
			if err := src.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(err)
			}
		}()

		unsubscribe := b.CheckOnChange(src, cfg.Registry(), bundler.DefaultCheckDelay)
		defer unsubscribe()
		b.Check(cfg.Registry())
	}

	app := handlers.NewApp(cfg, b, patches, dispatcher)
	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Error(err)
		}
	}()

	log.Infof("Proxy server listening on port %d", cfg.Port)
	log.Infof("Proxying %s at %s", cfg.Upstream, cfg.LocalOrigin())
	if err := app.Listen(cfg.ListenAddr()); err != nil {
		log.Fatal(err)
	}
	dispatcher.Wait()
}
