package adapter

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/amishk599/internscout/internal/browser"
	"github.com/amishk599/internscout/internal/model"
)

// Deps are the shared collaborators every adapter is built from.
type Deps struct {
	Loader     browser.Loader
	MaxResults int
	Logger     *slog.Logger
}

type constructor func(d Deps) model.SiteAdapter

var registry = map[string]constructor{
	"internshala": func(d Deps) model.SiteAdapter { return NewInternshalaAdapter(d.Loader, d.MaxResults, d.Logger) },
	"unstop":      func(d Deps) model.SiteAdapter { return NewUnstopAdapter(d.Loader, d.MaxResults, d.Logger) },
	"remoteok":    func(d Deps) model.SiteAdapter { return NewRemoteOKAdapter(d.Loader, d.MaxResults, d.Logger) },
}

var hosts = map[string]string{
	"internshala": "internshala.com",
	"unstop":      "unstop.com",
	"remoteok":    "remoteok.com",
}

// New builds the adapter registered under kind.
func New(kind string, d Deps) (model.SiteAdapter, error) {
	c, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown adapter %q", kind)
	}
	if d.MaxResults <= 0 {
		d.MaxResults = 25
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return c(d), nil
}

// Host returns the hostname an adapter kind navigates to.
func Host(kind string) string {
	return hosts[kind]
}

// Kinds lists the registered adapter kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
