package cmd

import (
	"os"

	mdwerror "github.com/msto63/glox/foundation/core/error"
	mdwlog "github.com/msto63/glox/foundation/core/log"
	"github.com/msto63/glox/foundation/lox"
	"github.com/msto63/glox/pkg/core/config"
	"github.com/msto63/glox/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	appConfig = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "glox [script]",
	Short: "glox - Front End für Lox-Ausdrücke",
	Long: `glox scannt, parst und wertet Ausdrücke der Sprache Lox aus.

Ohne Argument startet eine interaktive Eingabe, mit Argument wird
die Datei als Skript ausgeführt.

Exit-Codes:
  64  falscher Aufruf
  65  Syntaxfehler
  70  Laufzeitfehler
  74  Ein-/Ausgabefehler`,
	Args:              usageArgs("glox [script]", 1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $GLOX_CONFIG oder ./configs/glox.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		src, err := readSource(cmd, args, "")
		if err != nil {
			return err
		}
		return runSource(cmd, newEngine(), src, false)
	}

	store := openHistory(cmd)
	if store != nil {
		defer closeHistory(cmd, store)
	}
	return runPrompt(cmd, newEngine(), store)
}

// setup loads the configuration and configures logging for every command
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Configure(level, cfg.General.LogFormat)
	mdwlog.SetDefault(logging.NewSimpleLogger("glox"))
	return nil
}

// loadConfig reads path, or the default locations when path is empty.
// Missing default files are not an error.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		if mdwerror.HasCode(err, mdwerror.CodeMissingConfig) && os.Getenv(config.EnvConfigPath) == "" {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func newEngine() *lox.Engine {
	return lox.NewEngine(lox.Options{
		Logger:          mdwlog.GetDefault(),
		MaxSourceLength: appConfig.Parser.MaxSourceLength,
	})
}
