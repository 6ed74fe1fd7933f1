package registry

import (
	"strings"

	"github.com/samber/lo"
)

// Registry is the fixed, ordered set of script bundles the dev proxy serves.
// It is built once at startup and never changes afterwards.
type Registry struct {
	names []string
}

// New returns a registry holding names in order. Blank and duplicate names
// are dropped.
func New(names ...string) Registry {
	cleaned := lo.Uniq(lo.FilterMap(names, func(name string, _ int) (string, bool) {
		name = strings.TrimSpace(name)
		return name, name != ""
	}))
	return Registry{names: cleaned}
}

// Default returns the bundles MyTurn loads through its footer includes.
func Default() Registry {
	return New("public-footer", "admin-footer")
}

// Names returns a copy of the registered names, in order.
func (r Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r Registry) Contains(name string) bool {
	return lo.Contains(r.names, name)
}

func (r Registry) Len() int {
	return len(r.names)
}
