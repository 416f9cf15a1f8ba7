// The globby command searches for files with paths matching a pattern.
//
// Example:
//
//	$ globby '**/*_test.go'
//	cmd/globby/globby_test.go
//	glob_test.go
//	match_test.go
//	parser_test.go
//	walker_test.go
//
// Flags can also be set from the environment, e.g. GLOBBY_LOG_LEVEL=debug or
// GLOBBY_CASE_INSENSITIVE=true.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DrJosh9000/globby"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GLOBBY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "globby [flags] PATTERN",
		Short:         "Print the paths matching a glob pattern",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, args[0], stdout, stderr)
		},
	}
	addFlags(cmd.Flags())
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		fmt.Fprintf(stderr, "Error binding flags: %v\n", err)
	}
	return cmd
}

func addFlags(fs *pflag.FlagSet) {
	fs.String("dir", ".", "directory that relative patterns are matched from")
	fs.Bool("case-insensitive", false, "match letters regardless of case")
	fs.BoolP("null", "0", false, "end each path with a NUL byte instead of a newline")
	fs.Bool("trace", false, "log how the walk proceeds (implies --log-level=debug)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
}

func run(v *viper.Viper, pattern string, stdout, stderr io.Writer) error {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "globby"})
	level, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		logger.Error("Invalid log level", "level", v.GetString("log-level"), "err", err)
		return err
	}
	logger.SetLevel(level)

	opts := []globby.GlobOption{
		globby.WithParseOptions(globby.CaseInsensitive(v.GetBool("case-insensitive"))),
	}
	if v.GetBool("trace") {
		logger.SetLevel(log.DebugLevel)
		opts = append(opts, globby.WithLogger(logger))
	}

	w, err := globby.Glob(pattern, v.GetString("dir"), opts...)
	if err != nil {
		logger.Error("Couldn't parse pattern", "pattern", pattern, "err", err)
		return err
	}
	defer w.Close()

	term := "\n"
	if v.GetBool("null") {
		term = "\x00"
	}
	for path, err := range w.All() {
		if err != nil {
			logger.Warn("Couldn't read part of the tree", "err", err)
			continue
		}
		if _, err := io.WriteString(stdout, path+term); err != nil {
			return errors.Wrap(err, "writing output")
		}
	}
	return nil
}
