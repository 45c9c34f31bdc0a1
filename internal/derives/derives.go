// Package derives holds the derives built into the command line tool.
package derives

import (
	"github.com/predakanga/derive_gen/pkg/derive"
	"sort"
)

var registry = map[string]derive.Deriver{
	"Clone":    derive.DeriverFunc(Clone),
	"Default":  derive.DeriverFunc(Default),
	"Describe": derive.DeriverFunc(Describe),
	"Hi":       derive.DeriverFunc(Hi),
}

func Lookup(name string) (derive.Deriver, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names lists the built-in derives in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
