package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/formjson"
	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/schemafile"
)

// errHasErrors signals a completed validation that found errors.
var errHasErrors = errors.New("value has errors")

type rootOptions struct {
	verbose bool
	lang    string
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "formskema",
		Short:         "Validate and clean form values against YAML schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.logger == nil {
				l, err := buildLogger(opts.verbose)
				if err != nil {
					return err
				}
				opts.logger = l
			}
			formskema.SetLogger(opts.logger)
			i18n.SetLanguage(opts.lang)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "log schema diagnostics at debug level")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "en", "message language (en, ja)")

	cmd.AddCommand(newCheckCmd(), newValidateCmd(), newExtractCmd(), newRulesCmd())
	return cmd
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func newCheckCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load a schema file and report definition errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := schemafile.LoadFile(schemaPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", schemaPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (YAML)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

type validateOptions struct {
	schema, value string
	old, errors   string
	format        string
}

func newValidateCmd() *cobra.Command {
	o := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a value and print its error tree",
		Long: `Validate a value against a schema.

With --old the value is validated incrementally: errors of the parts that are
identical in both values are taken from --errors (or from a full validation of
the old value when --errors is not given).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error { return runValidate(cmd, o) },
	}
	f := cmd.Flags()
	f.StringVarP(&o.schema, "schema", "s", "", "schema file (YAML)")
	f.StringVarP(&o.value, "value", "v", "", "value file (JSON or YAML, - for stdin)")
	f.StringVar(&o.old, "old", "", "previous value for incremental validation")
	f.StringVar(&o.errors, "errors", "", "errors of the previous value (JSON)")
	f.StringVar(&o.format, "format", "json", "output format (json, issues)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func runValidate(cmd *cobra.Command, o *validateOptions) error {
	if o.format != "json" && o.format != "issues" {
		return fmt.Errorf("unknown format %q", o.format)
	}
	if o.errors != "" && o.old == "" {
		return errors.New("--errors needs --old")
	}
	s, err := schemafile.LoadFile(o.schema)
	if err != nil {
		return err
	}
	value, err := readValue(cmd, o.value)
	if err != nil {
		return err
	}

	var tree *formskema.ErrorTree
	if o.old == "" {
		tree = formskema.Validate(value, s)
	} else {
		old, err := readValue(cmd, o.old)
		if err != nil {
			return err
		}
		var oldErr *formskema.ErrorTree
		if o.errors != "" {
			data, err := os.ReadFile(o.errors)
			if err != nil {
				return err
			}
			if oldErr, err = formjson.UnmarshalErrors(data); err != nil {
				return err
			}
		} else {
			oldErr = formskema.Validate(old, s)
		}
		// Decoded documents share nothing, so only equal scalars and
		// absent branches reuse old errors.
		tree = formskema.ValidateIncremental(old, value, oldErr, s)
	}

	out := cmd.OutOrStdout()
	switch o.format {
	case "issues":
		for _, is := range tree.Issues() {
			fmt.Fprintf(out, "%s\t%s\t%s\n", is.Path, is.Code, is.Message)
		}
	default:
		data, err := formjson.MarshalErrorsIndent(tree)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	}
	if formskema.HasErrors(tree) {
		return errHasErrors
	}
	return nil
}

func newExtractCmd() *cobra.Command {
	var schemaPath, valuePath string
	var opt formskema.ExtractOpt
	var null bool
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Print the cleaned value that would be submitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := schemafile.LoadFile(schemaPath)
			if err != nil {
				return err
			}
			value, err := readValue(cmd, valuePath)
			if err != nil {
				return err
			}
			if null {
				opt.FalsyValue = formskema.Null
			}
			data, err := formjson.MarshalValueIndent(formskema.Extract(value, s, opt))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&schemaPath, "schema", "s", "", "schema file (YAML)")
	f.StringVarP(&valuePath, "value", "v", "", "value file (JSON or YAML, - for stdin)")
	f.BoolVar(&opt.NoFalsyValues, "no-falsy", false, "keep empty objects and arrays as {} and []")
	f.BoolVar(&null, "null", false, "emit null for absent positions instead of dropping them")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rule names a schema file may use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range schemafile.NewLoader().RuleNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// readValue decodes a value file. YAML is chosen by extension, JSON otherwise;
// "-" reads JSON from the command's input.
func readValue(cmd *cobra.Command, path string) (any, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return schemafile.ReadYAML(r)
	default:
		return formjson.DecodeValueFrom(r)
	}
}
