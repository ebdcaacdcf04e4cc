package browse

import (
	"log/slog"
	"testing"

	"github.com/newsanalyzer/govctl/internal/api"
	cmdpkg "github.com/newsanalyzer/govctl/internal/cmd"
	"github.com/newsanalyzer/govctl/internal/config"
	"github.com/newsanalyzer/govctl/internal/iostreams"
	"github.com/newsanalyzer/govctl/internal/registry"
	cmdtest "github.com/newsanalyzer/govctl/test/cmd"
	configtest "github.com/newsanalyzer/govctl/test/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrowseHelper(t *testing.T, args []string, interactive bool) cmdpkg.Helper {
	t.Helper()

	command, err := NewBrowseCmd()
	require.NoError(t, err)

	streams, _, _, _ := iostreams.NewTestIOStreams()
	testStreams := &streams

	return &cmdtest.MockHelper{
		GetCmdMock:  func() *cobra.Command { return command },
		GetArgsMock: func() []string { return args },
		GetStreamsMock: func() *iostreams.IOStreams { return testStreams },
		GetConfigMock: func() (config.Hook, error) {
			return &configtest.MockConfigHook{
				GetStringMock:    func(string) string { return "" },
				GetIntOrElseMock: func(_ string, orElse int) int { return orElse },
			}, nil
		},
		IsInteractiveMock: func() (bool, error) { return interactive, nil },
		GetLoggerMock:     func() (*slog.Logger, error) { return nil, nil },
		GetAPIClientMock: func(config.Hook, *slog.Logger) (*api.Client, error) {
			return api.NewClient("http://localhost:0", nil), nil
		},
		GetRegistryMock: func() (*registry.Registry, error) { return registry.Default(), nil },
	}
}

func TestBrowseRequiresInteractiveTerminal(t *testing.T) {
	helper := newBrowseHelper(t, nil, false)

	err := run(helper)
	require.Error(t, err)
	var cfgErr *cmdpkg.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestBrowseUnknownEntityType(t *testing.T) {
	helper := newBrowseHelper(t, []string{"weather"}, true)

	err := run(helper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown entity type "weather"`)
}

func TestBrowseRejectsUnsupportedView(t *testing.T) {
	helper := newBrowseHelper(t, []string{"people"}, true)
	require.NoError(t, helper.GetCmd().Flags().Set(ViewFlagName, "hierarchy"))

	err := run(helper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support")
}
