package get

import (
	"context"
	"fmt"
	"strings"

	cmdpkg "github.com/newsanalyzer/govctl/internal/cmd"
	"github.com/newsanalyzer/govctl/internal/cmd/common"
	"github.com/newsanalyzer/govctl/internal/cmd/output/jq"
	profileCmd "github.com/newsanalyzer/govctl/internal/cmd/root/profile"
	"github.com/newsanalyzer/govctl/internal/cmd/root/verbs"
	"github.com/newsanalyzer/govctl/internal/log"
	"github.com/newsanalyzer/govctl/internal/meta"
	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/newsanalyzer/govctl/internal/util/i18n"
	"github.com/newsanalyzer/govctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Get
)

var (
	getUse = fmt.Sprintf("%s <entity-type> <id>", Verb.String())

	getShort = i18n.T("root.verbs.get.getShort", "Retrieve a single government record")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Use get to retrieve one record by its identity.

The entity type argument accepts any registered type and the id is the record's
backend identity. Output can be formatted in multiple ways to aid in further
processing.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# Retrieve one federal organization
		%[1]s get organizations epa
		# Retrieve a statute as JSON
		%[1]s get statutes clean-air-act -o json
		# Extract a single field with jq
		%[1]s get people P000197 --jq '.lastName' -o json
		`, meta.CLIName)))
)

func NewGetCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g"},
		Args:    cobra.ExactArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			return run(helper)
		},
	}

	jq.AddFlags(cmd.Flags())

	cmd.AddCommand(profileCmd.NewProfileCmd())

	return cmd, nil
}

func run(helper cmdpkg.Helper) error {
	reg, err := helper.GetRegistry()
	if err != nil {
		return err
	}

	args := helper.GetArgs()
	entityType, ok := reg.Lookup(args[0])
	if !ok {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("unknown entity type %q, expected one of: %s",
				args[0], strings.Join(reg.Types(), ", ")),
		}
	}
	id := args[1]

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

	ctx := log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{
		CommandVerb: Verb.String(),
		EntityType:  entityType.ID,
		Operation:   "get",
	})

	rec, err := client.FetchOne(ctx, entityType.Route, id)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to get %s %q", entityType.Singular, id), err)
	}

	return printRecord(helper, entityType, rec)
}

func printRecord(helper cmdpkg.Helper, entityType registry.EntityTypeConfig, rec record.Record) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	streams := helper.GetStreams()

	payload, handled, err := resolveOutputPayload(helper, outType, rec)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	if outType == common.TEXT {
		return printDetailText(helper, entityType, rec)
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

// printDetailText writes the record as the detail layout describes it: title
// line, subtitle, then each section with label-aligned fields.
func printDetailText(helper cmdpkg.Helper, entityType registry.EntityTypeConfig, rec record.Record) error {
	out := helper.GetStreams().Out
	layout := entityType.Detail

	title := record.StringField(rec, layout.TitleField)
	if title == "" {
		title = record.ID(rec, entityType.IdentityField())
	}
	if _, err := fmt.Fprintln(out, title); err != nil {
		return err
	}

	if layout.SubtitleField != "" {
		if subtitle := record.StringField(rec, layout.SubtitleField); subtitle != "" {
			if _, err := fmt.Fprintln(out, subtitle); err != nil {
				return err
			}
		}
	}

	for _, section := range layout.Sections {
		if _, err := fmt.Fprintf(out, "\n%s\n", section.Title); err != nil {
			return err
		}

		labelWidth := 0
		for _, field := range section.Fields {
			if len(field.Label) > labelWidth {
				labelWidth = len(field.Label)
			}
		}
		for _, field := range section.Fields {
			value := registry.RenderDetailValue(field, rec)
			if _, err := fmt.Fprintf(out, "  %-*s  %s\n", labelWidth, field.Label, value); err != nil {
				return err
			}
		}
	}

	return nil
}
