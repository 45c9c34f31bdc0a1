package internal

import (
	"bytes"
	"fmt"
	"github.com/cockroachdb/errors"
	"github.com/predakanga/derive_gen/internal/config"
	"github.com/predakanga/derive_gen/internal/derives"
	"github.com/predakanga/derive_gen/internal/mirror"
	"github.com/predakanga/derive_gen/pkg"
	"github.com/predakanga/derive_gen/pkg/derive"
	"github.com/predakanga/derive_gen/pkg/generate"
	"github.com/predakanga/derive_gen/pkg/parse"
	"github.com/predakanga/derive_gen/pkg/tokens"
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/txtar"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func DoGenerate(paths []string, opts Options) error {
	log.Debugf("Got paths: %#v", paths)
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	inputs, err := expandPaths(paths, opts.Config.Output.Suffix)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.Newf("no inputs found in %v", strings.Join(paths, ", "))
	}

	fg := &FileGenerator{opts: opts}
	var decls []*parse.Declaration
	for _, input := range inputs {
		defs, err := LoadDefinitions(input)
		if err != nil {
			return err
		}
		if err := fg.Generate(input, defs); err != nil {
			return err
		}
		for _, def := range defs {
			if def.Decl != nil {
				decls = append(decls, def.Decl)
			}
		}
	}

	if goOut := opts.Config.Output.GoOut; goOut != "" {
		return fg.GenerateMirror(goOut, decls)
	}
	return nil
}

// Check parses every input and runs its derives without writing anything. Failures are
// left in the Err of each definition.
func Check(paths []string, opts Options) (DefinitionSlice, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	inputs, err := expandPaths(paths, opts.Config.Output.Suffix)
	if err != nil {
		return nil, err
	}

	fg := &FileGenerator{opts: opts}
	var all DefinitionSlice
	for _, input := range inputs {
		defs, err := LoadDefinitions(input)
		if err != nil {
			return nil, err
		}
		for i := range defs {
			fg.generateDefinition(&defs[i])
		}
		all = append(all, defs...)
	}
	return all, nil
}

// LoadDefinitions reads and parses the declarations of one input. A .txtar archive holds
// one declaration per section; any other file holds a single declaration.
func LoadDefinitions(path string) (DefinitionSlice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %v", path)
	}

	var sources []Source
	if filepath.Ext(path) == ".txtar" {
		archive := txtar.Parse(data)
		for _, f := range archive.Files {
			sources = append(sources, Source{Path: path, Name: f.Name, Text: string(f.Data)})
		}
	} else {
		sources = append(sources, Source{Path: path, Name: filepath.Base(path), Text: string(data)})
	}

	defs := make(DefinitionSlice, 0, len(sources))
	for _, src := range sources {
		decl, err := parse.ParseSource(src.Text)
		if err != nil {
			log.Warnf("%v: %v: %v", path, src.Name, err)
		}
		defs = append(defs, Definition{Source: src, Decl: decl, Err: err})
	}
	// Sort by name, to ensure deterministic output
	sort.Sort(defs)
	return defs, nil
}

type FileGenerator struct {
	opts Options
}

// Generate writes the derive output for the definitions of one input to
// `<input><suffix>`.
func (fg *FileGenerator) Generate(input string, defs DefinitionSlice) error {
	outPath := input + fg.opts.Config.Output.Suffix
	log.Printf("Generating derives for %v (%v)", input, outPath)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by %s %s. DO NOT EDIT.\n", pkg.Name, pkg.VersionString)
	var generated []string
	for i := range defs {
		out := fg.generateDefinition(&defs[i])
		if len(out) == 0 {
			continue
		}
		generated = append(generated, defs[i].Name())
		fmt.Fprintf(&buf, "\n// %s\n%s", defs[i].Name(), tokens.Format(out))
	}
	if len(generated) == 0 {
		log.Printf("Skipping %v - no derives selected", input)
		return nil
	}

	if err := fg.write(outPath, buf.Bytes()); err != nil {
		return err
	}
	log.Printf("Wrote %v with derives for %v", outPath, strings.Join(generated, ", "))
	return nil
}

// generateDefinition runs the selected derives. Parse and derive failures come back as
// a compile_error diagnostic, so the output still points at the problem.
func (fg *FileGenerator) generateDefinition(def *Definition) tokens.Stream {
	if def.Err != nil {
		return generate.Diagnostic(def.Err)
	}

	var selected []derive.Deriver
	for _, name := range fg.selectDerives(def.Decl) {
		d, ok := derives.Lookup(name)
		if !ok {
			continue
		}
		selected = append(selected, d)
	}
	if len(selected) == 0 {
		log.Debugf("No derives for %v", def.Name())
		return nil
	}

	log.Debugf("Generating implementation for %v", def.Name())
	out, err := derive.Declaration(def.Decl, selected...)
	if err != nil {
		log.Warnf("Failed to generate type %v - %v", def.Name(), err)
		def.Err = err
		return generate.Diagnostic(err)
	}
	return out
}

// selectDerives lists the derives for decl: its #[derive(...)] attributes, then the
// config, then the command line. Unknown names from attributes usually belong to the
// compiler and are skipped quietly.
func (fg *FileGenerator) selectDerives(decl *parse.Declaration) []string {
	var names []string
	if fg.opts.Config.UseAttributes() {
		for _, attr := range decl.Attributes.Get("derive") {
			items, err := attr.Meta()
			if err != nil {
				log.Warnf("Failed to parse derive attribute on %v: %v", decl.Ident(), err)
				continue
			}
			for _, item := range items {
				if _, ok := derives.Lookup(item.Path); ok {
					names = append(names, item.Path)
				} else {
					log.Debugf("Ignoring derive %v on %v", item.Path, decl.Ident())
				}
			}
		}
	}

	for _, name := range append(fg.opts.Config.DerivesFor(decl.Ident()), fg.opts.Derives...) {
		if _, ok := derives.Lookup(name); !ok {
			log.Warnf("Unknown derive %v for %v; known derives are %v", name, decl.Ident(), strings.Join(derives.Names(), ", "))
			continue
		}
		names = append(names, name)
	}
	return dedupe(names)
}

// GenerateMirror writes the Go mirror of decls to outPath.
func (fg *FileGenerator) GenerateMirror(outPath string, decls []*parse.Declaration) error {
	if len(decls) == 0 {
		log.Printf("Skipping %v - no declarations parsed", outPath)
		return nil
	}
	sort.SliceStable(decls, func(i, j int) bool {
		return decls[i].Ident() < decls[j].Ident()
	})

	pkgName := fg.packageName(filepath.Dir(outPath))
	log.Printf("Generating Go mirror for package %v (%v)", pkgName, outPath)
	var buf bytes.Buffer
	if err := mirror.Render(&buf, pkgName, decls); err != nil {
		return errors.Wrapf(err, "failed to render %v", outPath)
	}
	if err := fg.write(outPath, buf.Bytes()); err != nil {
		return err
	}
	log.Printf("Wrote %v with %d Go types", outPath, len(decls))
	return nil
}

// packageName asks the go tool for the package in dir, then falls back to the
// configured name and finally to the directory name.
func (fg *FileGenerator) packageName(dir string) string {
	cfg := &packages.Config{Mode: packages.NeedName, Dir: dir}
	if pkgs, err := packages.Load(cfg, "."); err != nil {
		log.Debugf("Couldn't load package in %v: %v", dir, err)
	} else if len(pkgs) == 1 && pkgs[0].Name != "" {
		return pkgs[0].Name
	}

	if name := fg.opts.Config.Output.GoPackage; name != "" {
		return name
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return goPackageName(abs)
}

func (fg *FileGenerator) write(outPath string, data []byte) error {
	if fg.opts.Mode == DryRun {
		if fg.opts.Out != nil {
			archive := &txtar.Archive{Files: []txtar.File{{Name: outPath, Data: data}}}
			if _, err := fg.opts.Out.Write(txtar.Format(archive)); err != nil {
				return errors.Wrap(err, "failed to write dry run output")
			}
		}
		return nil
	}

	// Check that any existing file is auto-generated
	if fileExists(outPath) && fg.opts.Mode != Overwrite {
		generated, err := isGenerated(outPath)
		if err != nil {
			return err
		}
		if !generated {
			return errors.Newf("%v does not seem to be auto-generated; not overwriting it. Use --force to override this.", outPath)
		}
	}

	// Create the temporary file in our output dir, so that we know we can just rename it later
	outDir := filepath.Dir(outPath)
	file, err := os.CreateTemp(outDir, ".derive_gen.*")
	if err != nil {
		return errors.Wrap(err, "could not create output file")
	}
	tmpPath := file.Name()
	log.Debugf("Temporary output file is: %v", tmpPath)

	if _, err := file.Write(data); err != nil {
		must(file.Close)
		must(func() error { return os.Remove(tmpPath) })
		return errors.Wrapf(err, "failed to write %v", tmpPath)
	}
	must(file.Close)
	// Move it into place
	if err := os.Rename(tmpPath, outPath); err != nil {
		return errors.Wrap(err, "failed to replace output file")
	}
	return nil
}
