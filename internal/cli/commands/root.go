package commands

import (
	"errors"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/typemeta/convert"
	"github.com/Konsultn-Engineering/typemeta/internal/cli/config"
	"github.com/Konsultn-Engineering/typemeta/objpath"
	"github.com/Konsultn-Engineering/typemeta/schema"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	viper      *viper.Viper
	configFile string

	config    *config.Config
	logger    *zap.Logger
	registry  *schema.Registry
	navigator *objpath.Navigator
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.viper, a.configFile)
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger = newLogger(cfg.Verbose)

	convert.SetDefault(cfg.FallbackSerializer())
	a.registry = schema.New(schema.WithLogger(a.logger))
	a.navigator = objpath.New(objpath.WithRegistry(a.registry))

	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("output", cfg.Output),
		zap.String("naming", cfg.Naming),
		zap.String("serializer", cfg.Serializer),
		zap.String("config", a.viper.ConfigFileUsed()))
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "typemeta",
		Short: "Inspect and edit documents through runtime type metadata",
		Long: color.CyanString(`typemeta - runtime type metadata

Reads JSON, YAML and TOML documents as dynamic maps and navigates them
with dotted property paths:

  typemeta get config.yaml server.port
  typemeta set config.yaml server.port 8080
  typemeta equal a.json b.yaml
  typemeta flatten --naming snake config.toml`),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default ./typemeta.yaml)")
	flags.StringP("output", "o", "json", "output format: json or yaml")
	flags.String("naming", "none", "key naming for flatten: none, snake, camel or pascal")
	flags.String("serializer", "json", "fallback conversion serializer: json or yaml")
	flags.BoolP("verbose", "v", false, "log debug information to stderr")

	for _, key := range []string{"output", "naming", "serializer", "verbose"} {
		_ = a.viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newGetCommand(a))
	rootCmd.AddCommand(newSetCommand(a))
	rootCmd.AddCommand(newEqualCommand(a))
	rootCmd.AddCommand(newFlattenCommand(a))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the typemeta version, Git commit, build date, and Go version",
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Fprint(out, "typemeta version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command. An unequal verdict is reported by the
// equal command itself and only surfaces here as the error.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrNotEqual) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}
