package internal

import (
	"github.com/predakanga/derive_gen/internal/config"
	"github.com/predakanga/derive_gen/pkg/parse"
	"io"
	"path/filepath"
)

type OutputMode int

const (
	Normal OutputMode = iota
	Overwrite
	DryRun
)

type Options struct {
	Mode   OutputMode
	Config *config.Config
	// Derives are applied to every declaration, after those from attributes and config.
	Derives []string
	// Out receives the files a dry run would have written, as a txtar archive.
	Out io.Writer
}

// Source is the text of one declaration. Archive sections are named after the section,
// plain files after the file.
type Source struct {
	Path string
	Name string
	Text string
}

type Definition struct {
	Source Source
	Decl   *parse.Declaration
	Err    error
}

// Name is the declared type name, or the source name when it failed to parse.
func (d *Definition) Name() string {
	if d.Decl != nil {
		return d.Decl.Ident()
	}
	return filepath.Base(d.Source.Name)
}

type DefinitionSlice []Definition

func (d DefinitionSlice) Len() int {
	return len(d)
}

func (d DefinitionSlice) Less(i, j int) bool {
	return d[i].Name() < d[j].Name()
}

func (d DefinitionSlice) Swap(i, j int) {
	d[i], d[j] = d[j], d[i]
}
