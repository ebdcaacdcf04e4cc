package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/newsanalyzer/govctl/internal/api"
	"github.com/newsanalyzer/govctl/internal/build"
	"github.com/newsanalyzer/govctl/internal/cmd"
	"github.com/newsanalyzer/govctl/internal/cmd/common"
	"github.com/newsanalyzer/govctl/internal/cmd/root/verbs/browse"
	"github.com/newsanalyzer/govctl/internal/cmd/root/verbs/get"
	"github.com/newsanalyzer/govctl/internal/cmd/root/verbs/list"
	"github.com/newsanalyzer/govctl/internal/cmd/root/version"
	"github.com/newsanalyzer/govctl/internal/config"
	"github.com/newsanalyzer/govctl/internal/iostreams"
	"github.com/newsanalyzer/govctl/internal/log"
	"github.com/newsanalyzer/govctl/internal/meta"
	"github.com/newsanalyzer/govctl/internal/profile"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/newsanalyzer/govctl/internal/theme"
	"github.com/newsanalyzer/govctl/internal/util"
	"github.com/newsanalyzer/govctl/internal/util/i18n"
	"github.com/newsanalyzer/govctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  govctl is the command line explorer for the News Analyzer government
  records service: browse, list, and inspect organizations, people,
  committees, statutes, regulations, and presidencies.`))

	rootShort = i18n.T("root.rootShort",
		fmt.Sprintf("%s explores government records", meta.CLIName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath = config.ExpandDefaultConfigFilePath()
	currProfile    = profile.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	pMgr         profile.Manager
	logger       *slog.Logger
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, "text")

	logLevel    string
	logFilePath string
	colorTheme  = theme.NewFlag(theme.DefaultName)
	interactive bool

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyTheme(currConfig); err != nil {
				return err
			}
			l, err := buildLogger(currConfig, streams.ErrOut)
			if err != nil {
				return err
			}
			logger = l

			ctx := context.WithValue(cmd.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profile.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			ctx = context.WithValue(ctx, log.LoggerKey, logger)
			cmd.SetContext(ctx)
			return nil
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		config.ExpandDefaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profile.DefaultProfile,
		"Specify the profile to use for this command.")

	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().StringVar(&logLevel, common.LogLevelFlagName,
		common.DefaultLogLevel,
		fmt.Sprintf(`Log output level.
- Config path: [ %s ]
- Allowed    : [ trace|debug|info|warn|error ]`, common.LogLevelConfigPath))

	rootCmd.PersistentFlags().StringVar(&logFilePath, common.LogFileFlagName, "",
		fmt.Sprintf(`Write logs to a file instead of stderr.
- Config path: [ %s ]`, common.LogFileConfigPath))

	rootCmd.PersistentFlags().Var(colorTheme, common.ColorThemeFlagName,
		fmt.Sprintf(`Color theme for interactive views.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorThemeConfigPath, strings.Join(theme.Available(), "|")))

	rootCmd.PersistentFlags().BoolVarP(&interactive, common.InteractiveFlagName,
		common.InteractiveFlagShort, defaultInteractive(),
		"Run interactive views. Defaults to true when stdout is a terminal.")

	return rootCmd
}

func defaultInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// applyTheme installs the configured palette before any view renders.
func applyTheme(cfg config.Hook) error {
	name := colorTheme.Value()
	if cfg != nil {
		if fromConfig := strings.TrimSpace(cfg.GetString(common.ColorThemeConfigPath)); fromConfig != "" {
			name = fromConfig
			theme.SetConfiguredExplicitly(true)
		}
	}
	if name == "" {
		name = theme.DefaultName
	}
	return theme.SetCurrent(name)
}

// buildLogger assembles the process logger: a JSON handler on the log
// file (or stderr), mirrored through the dual handler so error records
// reach the user in friendly form during non-interactive runs.
func buildLogger(cfg config.Hook, errOut io.Writer) (*slog.Logger, error) {
	levelText := logLevel
	if cfg != nil {
		if v := strings.TrimSpace(cfg.GetString(common.LogLevelConfigPath)); v != "" {
			levelText = v
		}
	}
	level := log.ConfigLevelStringToSlogLevel(levelText)

	target := errOut
	pathText := logFilePath
	if cfg != nil {
		if v := strings.TrimSpace(cfg.GetString(common.LogFileConfigPath)); v != "" {
			pathText = v
		}
	}
	if pathText != "" {
		f, err := os.OpenFile(os.ExpandEnv(pathText), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		target = f
	}

	primary := slog.NewJSONHandler(target, &slog.HandlerOptions{Level: level})
	if pathText == "" {
		// Logs already land on stderr; no mirror needed.
		return slog.New(primary), nil
	}
	secondary := log.NewFriendlyErrorHandler(errOut)
	if interactive {
		log.DisableErrorMirroring()
	}
	return slog.New(log.NewDualHandler(primary, secondary)), nil
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())

	c, e := get.NewGetCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	c, e = list.NewListCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	c, e = browse.NewBrowseCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err := addCommands()
	util.CheckError(err)

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	cfg, e1 := config.GetConfig(configFilePath, currProfile, config.ExpandDefaultConfigFilePath())
	util.CheckError(e1)
	currConfig = cfg

	pMgr = profile.NewManager(cfg.Viper)

	flags := rootCmd.Flags()
	for _, binding := range []struct{ flag, cfgPath string }{
		{common.OutputFlagName, common.OutputConfigPath},
		{common.LogLevelFlagName, common.LogLevelConfigPath},
		{common.LogFileFlagName, common.LogFileConfigPath},
		{common.ColorThemeFlagName, common.ColorThemeConfigPath},
	} {
		f := flags.Lookup(binding.flag)
		util.CheckError(cfg.BindFlag(binding.cfgPath, f))
	}
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s

	ctx = context.WithValue(ctx, cmd.APIClientFactoryKey,
		cmd.APIClientFactory(api.NewClientFromConfig))
	ctx = context.WithValue(ctx, cmd.RegistryKey, registry.Default())

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var executionError *cmd.ExecutionError
		if errors.As(err, &executionError) {
			if logger != nil {
				attrs := cmd.TryConvertErrorToAttrs(executionError.Err)
				if attrs == nil {
					attrs = executionError.Attrs
				}
				logger.Error(executionError.Msg, attrs...)
			}
			printer, printerErr := cli.Format(outputFormat.String(), s.ErrOut)
			if printerErr == nil {
				printer.Print(err)
				printer.Flush()
			}
			os.Exit(1)
		}
	}
}
