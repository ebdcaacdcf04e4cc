package profile

import (
	"fmt"

	"github.com/newsanalyzer/govctl/internal/cmd"
	"github.com/newsanalyzer/govctl/internal/cmd/root/verbs"
	"github.com/newsanalyzer/govctl/internal/profile"
	"github.com/newsanalyzer/govctl/internal/util/i18n"
	"github.com/newsanalyzer/govctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	profileUse   = "profile"
	profileShort = i18n.T("root.profile.profileShort", "Manage CLI profiles")
	profileLong  = normalizers.LongDesc(i18n.T("root.profile.profileLong",
		`The profile command allows you to get, create, and delete profiles for the CLI.`))

	profileManager profile.Manager
)

func NewProfileCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     profileUse,
		Short:   profileShort,
		Long:    profileLong,
		Aliases: []string{"profiles"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)

			profileManager = c.Context().Value(profile.ProfileManagerKey).(profile.Manager)

			err := validate(helper)
			if err != nil {
				return err
			}
			err = run(helper)
			if err != nil {
				return err
			}
			return nil
		},
	}
	return rv
}

func validate(_ cmd.Helper) error {
	return nil
}

func run(helper cmd.Helper) error {
	v, err := helper.GetVerb()
	if err != nil {
		return err
	}

	if v == verbs.Get {
		return runGet(helper)
	}

	return fmt.Errorf("command %s does not support %s", profileUse, v)
}

func runGet(helper cmd.Helper) error {
	// With an argument the user wants one profile's settings; with none,
	// the list of profile names.
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return &cmd.ExecutionError{
			Err: err,
		}
	}
	p, err := cli.Format(outType.String(),
		helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()

	args := helper.GetArgs()
	if len(args) > 0 {
		settings, err := profileManager.GetProfile(args[0])
		if err != nil {
			return err
		}
		p.Print(settings)
		return nil
	}

	p.Print(profileManager.GetProfiles())

	return nil
}
