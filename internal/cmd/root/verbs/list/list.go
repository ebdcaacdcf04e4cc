package list

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsanalyzer/govctl/internal/api"
	cmdpkg "github.com/newsanalyzer/govctl/internal/cmd"
	"github.com/newsanalyzer/govctl/internal/cmd/common"
	"github.com/newsanalyzer/govctl/internal/cmd/output/jq"
	"github.com/newsanalyzer/govctl/internal/cmd/root/verbs"
	"github.com/newsanalyzer/govctl/internal/log"
	"github.com/newsanalyzer/govctl/internal/meta"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/newsanalyzer/govctl/internal/util/i18n"
	"github.com/newsanalyzer/govctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.List

	PageFlagName       = "page"
	SizeFlagName       = "size"
	SortFlagName       = "sort"
	QueryFlagName      = "query"
	PageSizeConfigPath = "browse.page-size"
)

var (
	listUse = fmt.Sprintf("%s <entity-type>", Verb.String())

	listShort = i18n.T("root.verbs.list.listShort", "List government records")

	listLong = normalizers.LongDesc(i18n.T("root.verbs.list.listLong",
		`Use list to print a page of records for an entity type.

The entity type argument accepts any registered type; run the command without
arguments to see the available types. Output can be formatted in multiple ways
to aid in further processing.`))

	listExamples = normalizers.Examples(i18n.T("root.verbs.list.listExamples",
		fmt.Sprintf(`
		# List federal organizations
		%[1]s list organizations
		# Second page of committees, 50 per page
		%[1]s list committees --page 1 --size 50
		# Statutes sorted by effective date, newest first
		%[1]s list statutes --sort effectiveDate,desc
		# Search people and emit JSON
		%[1]s list people --query smith -o json
		`, meta.CLIName)))
)

func NewListCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     listUse,
		Short:   listShort,
		Long:    listLong,
		Example: listExamples,
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			return run(helper)
		},
	}

	cmd.Flags().Int(PageFlagName, 0, "Zero-indexed page to fetch.")
	cmd.Flags().Int(SizeFlagName, 0,
		fmt.Sprintf("Records per page.\n (config path = '%s')", PageSizeConfigPath))
	cmd.Flags().String(SortFlagName, "", "Sort as <field>[,asc|desc].")
	cmd.Flags().StringP(QueryFlagName, "q", "", "Filter records by search text.")
	jq.AddFlags(cmd.Flags())

	return cmd, nil
}

func run(helper cmdpkg.Helper) error {
	reg, err := helper.GetRegistry()
	if err != nil {
		return err
	}

	args := helper.GetArgs()
	if len(args) == 0 {
		return printEntityTypes(helper, reg)
	}

	cfg, ok := reg.Lookup(args[0])
	if !ok {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("unknown entity type %q, expected one of: %s",
				args[0], strings.Join(reg.Types(), ", ")),
		}
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

	req, err := buildPageRequest(helper, cfg)
	if err != nil {
		return err
	}

	ctx := log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{
		CommandVerb: Verb.String(),
		EntityType:  cfg.ID,
		Query:       req.Query,
		Operation:   "list",
	})

	page, err := client.FetchPage(ctx, cfg.Route, req)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to list %s", cfg.Plural), err)
	}

	return printPage(helper, cfg, page)
}

func buildPageRequest(helper cmdpkg.Helper, entityType registry.EntityTypeConfig) (api.PageRequest, error) {
	flags := helper.GetCmd().Flags()

	page, err := flags.GetInt(PageFlagName)
	if err != nil {
		return api.PageRequest{}, err
	}
	if page < 0 {
		return api.PageRequest{}, &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is zero-indexed and cannot be negative", PageFlagName),
		}
	}

	size, err := flags.GetInt(SizeFlagName)
	if err != nil {
		return api.PageRequest{}, err
	}
	if size == 0 {
		cfg, cfgErr := helper.GetConfig()
		if cfgErr == nil {
			size = cfg.GetIntOrElse(PageSizeConfigPath, 0)
		}
	}

	query, err := flags.GetString(QueryFlagName)
	if err != nil {
		return api.PageRequest{}, err
	}

	req := api.PageRequest{Page: page, Size: size, Query: query}

	sortSpec, err := flags.GetString(SortFlagName)
	if err != nil {
		return api.PageRequest{}, err
	}
	if sortSpec != "" {
		field, direction, parseErr := parseSortSpec(sortSpec, entityType)
		if parseErr != nil {
			return api.PageRequest{}, parseErr
		}
		req.SortField = field
		req.Direction = direction
	}

	return req, nil
}

func parseSortSpec(spec string, entityType registry.EntityTypeConfig) (string, api.SortDirection, error) {
	field, dir, found := strings.Cut(spec, ",")
	direction := api.SortAscending
	if found {
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "asc":
		case "desc":
			direction = api.SortDescending
		default:
			return "", "", &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("invalid sort direction %q, expected asc or desc", dir),
			}
		}
	}

	field = strings.TrimSpace(field)
	col, ok := entityType.Column(field)
	if !ok || !col.Sortable {
		return "", "", &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("field %q is not sortable for %s", field, entityType.Plural),
		}
	}
	return field, direction, nil
}

func printEntityTypes(helper cmdpkg.Helper, reg *registry.Registry) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	type entityTypeSummary struct {
		ID     string `json:"id" yaml:"id"`
		Plural string `json:"plural" yaml:"plural"`
		Views  string `json:"views" yaml:"views"`
	}

	summaries := make([]entityTypeSummary, 0)
	for _, id := range reg.Types() {
		cfg, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		views := make([]string, 0, len(cfg.ViewModes))
		for _, mode := range cfg.ViewModes {
			views = append(views, string(mode))
		}
		summaries = append(summaries, entityTypeSummary{
			ID:     cfg.ID,
			Plural: cfg.Plural,
			Views:  strings.Join(views, ","),
		})
	}

	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()
	p.Print(summaries)
	return nil
}

func printPage(helper cmdpkg.Helper, entityType registry.EntityTypeConfig, page *api.Page) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	streams := helper.GetStreams()

	payload, handled, err := resolveOutputPayload(helper, outType, page.Items)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	if outType == common.TEXT {
		return printTable(helper, entityType, page)
	}

	p, err := cli.Format(outType.String(), streams.Out)
	if err != nil {
		return err
	}
	defer p.Flush()
	p.Print(payload)
	return nil
}

func resolveOutputPayload(helper cmdpkg.Helper, outType common.OutputFormat, raw any) (any, bool, error) {
	cfg, err := helper.GetConfig()
	if err != nil {
		return nil, false, err
	}

	settings, err := jq.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return nil, false, err
	}
	if err := jq.ValidateOutputFormat(outType, settings); err != nil {
		return nil, false, err
	}
	if !jq.HasFilter(settings) {
		return raw, false, nil
	}

	filtered, handled, err := jq.ApplyToRaw(raw, outType, settings, helper.GetStreams().Out)
	if err != nil {
		return nil, false, cmdpkg.PrepareExecutionErrorWithHelper(helper, "jq filter failed", err)
	}
	return filtered, handled, nil
}

// printTable writes a plain aligned table: configured column titles,
// one formatted row per record, and the page summary underneath.
func printTable(helper cmdpkg.Helper, entityType registry.EntityTypeConfig, page *api.Page) error {
	out := helper.GetStreams().Out

	widths := make([]int, len(entityType.Columns))
	for i, col := range entityType.Columns {
		widths[i] = len(col.Title)
	}

	rows := make([][]string, 0, len(page.Items))
	for _, rec := range page.Items {
		row := make([]string, len(entityType.Columns))
		for i, col := range entityType.Columns {
			row[i] = registry.RenderCell(entityType, col, rec)
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		rows = append(rows, row)
	}

	writeRow := func(cells []string) error {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		_, err := fmt.Fprintln(out, strings.TrimRight(strings.Join(parts, "  "), " "))
		return err
	}

	titles := make([]string, len(entityType.Columns))
	for i, col := range entityType.Columns {
		titles[i] = col.Title
	}
	if err := writeRow(titles); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}

	if page.TotalElements > 0 {
		first := page.Number*pageSizeOf(page) + 1
		last := first + len(page.Items) - 1
		_, err := fmt.Fprintf(out, "\nShowing %d to %d of %d\n", first, last, page.TotalElements)
		return err
	}
	_, err := fmt.Fprintf(out, "\nNo %s found.\n", entityType.Plural)
	return err
}

func pageSizeOf(page *api.Page) int {
	if page.Size > 0 {
		return page.Size
	}
	return len(page.Items)
}
