package cmd

import (
	"fmt"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/predakanga/derive_gen/internal"
	"github.com/predakanga/derive_gen/internal/config"
	"github.com/predakanga/derive_gen/internal/derives"
	"github.com/predakanga/derive_gen/pkg"
	"github.com/predakanga/derive_gen/pkg/diag"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
	"strings"
)

var (
	configPath  string
	deriveNames []string
	clobber     bool
	dryRun      bool
	verbose     bool
	goOut       string
	goPackage   string
	rootCmd     = &cobra.Command{
		Use:                   "derive_gen [flags] path...\n\nPaths may be .rs files, .txtar archives or directories holding them",
		Short:                 "Derive code generator for struct and enum declarations",
		Version:               pkg.VersionString,
		Args:                  cobra.MinimumNArgs(1),
		RunE:                  run,
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	checkCmd = &cobra.Command{
		Use:   "check path...",
		Short: "Parse the inputs and report diagnostics without writing files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  check,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "TOML recipe file")
	flags.StringSliceVarP(&deriveNames, "derive", "d", nil, "derive(s) to apply to every type: "+strings.Join(derives.Names(), ", "))
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	flags = rootCmd.Flags()
	flags.BoolVarP(&clobber, "force", "f", false, "overwrite files")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "don't write any files")
	flags.StringVarP(&goOut, "go-out", "g", "", "also write Go mirror types to this file")
	flags.StringVar(&goPackage, "go-package", "", "package name for the Go mirror, when it can't be detected")

	rootCmd.AddCommand(checkCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if goOut != "" {
		cfg.Output.GoOut = goOut
	}
	if goPackage != "" {
		cfg.Output.GoPackage = goPackage
	}

	opts := internal.Options{Config: cfg, Derives: deriveNames}
	if dryRun {
		opts.Mode = internal.DryRun
		opts.Out = cmd.OutOrStdout()
	} else if clobber {
		opts.Mode = internal.Overwrite
	}

	return internal.DoGenerate(args, opts)
}

func check(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defs, err := internal.Check(args, internal.Options{Config: cfg, Derives: deriveNames, Mode: internal.DryRun})
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	out := cmd.OutOrStdout()
	failed := 0
	for _, def := range defs {
		where := def.Source.Path
		if def.Source.Name != "" && !strings.HasSuffix(where, def.Source.Name) {
			where += "#" + def.Source.Name
		}
		if def.Err == nil {
			fmt.Fprintf(out, "%s %s %s\n", ok("ok"), def.Name(), faint(where))
			continue
		}

		failed++
		msg := def.Err.Error()
		if derr, isDiag := diag.As(def.Err); isDiag {
			msg = fmt.Sprintf("%v: %s", derr.Kind, derr.Message)
			if !derr.Span.IsZero() {
				where = fmt.Sprintf("%s:%d:%d", where, derr.Span.Line, derr.Span.Column)
			}
		}
		fmt.Fprintf(out, "%s %s: %s\n", bad("error"), where, msg)
	}

	if failed > 0 {
		return errors.Newf("%d of %d declarations failed", failed, len(defs))
	}
	return nil
}
