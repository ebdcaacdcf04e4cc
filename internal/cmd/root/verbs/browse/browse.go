package browse

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/newsanalyzer/govctl/internal/capability"
	cmdpkg "github.com/newsanalyzer/govctl/internal/cmd"
	"github.com/newsanalyzer/govctl/internal/cmd/root/verbs"
	"github.com/newsanalyzer/govctl/internal/meta"
	"github.com/newsanalyzer/govctl/internal/navstate"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/newsanalyzer/govctl/internal/util/i18n"
	"github.com/newsanalyzer/govctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Browse

	QueryFlagName = "query"
	ViewFlagName  = "view"

	PageSizeConfigPath        = "browse.page-size"
	ExpandDepthConfigPath     = "browse.expand-depth"
	EntityTypesFileConfigPath = "browse.entity-types-file"
)

var (
	browseUse = fmt.Sprintf("%s [entity-type]", Verb.String())

	browseShort = i18n.T("root.verbs.browse.browseShort", "Explore government records interactively")

	browseLong = normalizers.LongDesc(i18n.T("root.verbs.browse.browseLong",
		`Use browse to open the interactive record explorer.

Without an argument the explorer opens on the entity type selector. With an
entity type it opens directly on that type's default view. List views page
and sort server-side; hierarchy views load the full set and assemble the
tree locally. The footer shows the active key bindings.`))

	browseExamples = normalizers.Examples(i18n.T("root.verbs.browse.browseExamples",
		fmt.Sprintf(`
		# Open the entity type selector
		%[1]s browse
		# Browse federal organizations as a tree
		%[1]s browse organizations --view hierarchy
		# Browse people matching a search
		%[1]s browse people --query smith
		`, meta.CLIName)))
)

func NewBrowseCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     browseUse,
		Short:   browseShort,
		Long:    browseLong,
		Example: browseExamples,
		Aliases: []string{"b"},
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			return run(helper)
		},
	}

	cmd.Flags().StringP(QueryFlagName, "q", "", "Initial search query.")
	cmd.Flags().String(ViewFlagName, "", "Initial view mode (list or hierarchy).")

	return cmd, nil
}

func run(helper cmdpkg.Helper) error {
	interactive, err := helper.IsInteractive()
	if err != nil {
		return err
	}
	if !interactive {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("browse requires an interactive terminal; use '%s list' for scripted output",
				meta.CLIName),
		}
	}

	reg, err := helper.GetRegistry()
	if err != nil {
		return err
	}
	config, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	client, err := helper.GetAPIClient(config, logger)
	if err != nil {
		return err
	}

	if path := strings.TrimSpace(config.GetString(EntityTypesFileConfigPath)); path != "" {
		if err := reg.LoadFile(path); err != nil {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("loading %s: %w", EntityTypesFileConfigPath, err),
			}
		}
	}

	opts := shellOptions{
		pageSize:    config.GetIntOrElse(PageSizeConfigPath, 0),
		expandDepth: config.GetIntOrElse(ExpandDepthConfigPath, 0),
	}

	args := helper.GetArgs()
	if len(args) > 0 {
		cfg, ok := reg.Lookup(args[0])
		if !ok {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("unknown entity type %q, expected one of: %s",
					args[0], strings.Join(reg.Types(), ", ")),
			}
		}
		opts.entityType = cfg.ID

		flags := helper.GetCmd().Flags()
		query, err := flags.GetString(QueryFlagName)
		if err != nil {
			return err
		}
		view, err := flags.GetString(ViewFlagName)
		if err != nil {
			return err
		}
		if view != "" && !cfg.SupportsView(toViewMode(view)) {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("%s does not support the %q view", cfg.Plural, view),
			}
		}
		opts.location = navstate.Location{EntityType: cfg.ID, Query: query, View: view}
	}

	ctx := helper.GetContext()
	caps, err := sessionCapabilities(ctx)
	if err != nil {
		return err
	}
	ctx = capability.WithCapabilities(ctx, caps)

	model := newShellModel(ctx, client, reg, opts)

	streams := helper.GetStreams()
	program := tea.NewProgram(model,
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "Explorer terminated", err)
	}
	return nil
}

// sessionCapabilities resolves the caller's permissions once per
// session. The backend has no authentication yet, so the static
// resolver grants admin.
func sessionCapabilities(ctx context.Context) (capability.Capabilities, error) {
	resolver := capability.StaticResolver{Capabilities: capability.Capabilities{Admin: true}}
	return resolver.Resolve(ctx)
}

func toViewMode(v string) registry.ViewMode {
	return registry.ViewMode(strings.ToLower(strings.TrimSpace(v)))
}
