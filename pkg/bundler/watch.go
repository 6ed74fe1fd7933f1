package bundler

import (
	"time"

	_log "github.com/sirupsen/logrus"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/debounce"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/registry"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/watch"
)

// DefaultCheckDelay coalesces the burst of events an editor produces for a
// single save.
const DefaultCheckDelay = 200 * time.Millisecond

// Check builds every registered script once and logs the outcome. It
// returns the names whose build failed.
func (b *Bundler) Check(reg registry.Registry) []string {
	var failed []string
	for _, name := range reg.Names() {
		start := time.Now()
		out, err := b.Build(name)
		log := log.WithField("script", name)
		if err != nil {
			log.Error(err)
			failed = append(failed, name)
			continue
		}
		log.WithFields(_log.Fields{
			"bytes": len(out),
			"ms":    time.Since(start).Milliseconds(),
		}).Info("build ok")
	}
	return failed
}

// CheckOnChange re-runs Check whenever src reports a change, coalescing
// bursts of changes within delay into one check. Served bundles are still
// built per request; this only surfaces build errors as soon as a file is
// saved.
func (b *Bundler) CheckOnChange(src watch.Source, reg registry.Registry, delay time.Duration) (stop func()) {
	d := debounce.New(delay, func() { b.Check(reg) })
	return src.Subscribe(func(watch.Change) {
		d.Trigger()
	})
}
