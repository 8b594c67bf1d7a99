package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"daylist-cli/internal/client"
	"daylist-cli/internal/format"
	"daylist-cli/internal/model"
	"daylist-cli/internal/store"

	"github.com/spf13/cobra"
)

const defaultAddr = "127.0.0.1:3336"

type App struct {
	Dir    string
	Server string
	Format string
	Pretty bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "daylist",
		Short:        "Daily task lists with manual ordering",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Run the API over the local store
  daylist serve

  # Reorder a day's list from the shell
  daylist tasks reorder --date 2026-03-01 task-b task-a

  # Interactive list for today
  daylist tui

  # Direct task lookup (shortcut for: daylist tasks show <task-id>)
  daylist task-abcd1234
`),
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DAYLIST_DIR", ""), "Path to the store dir used by serve (default: config dir, then ~/.daylist/data)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("DAYLIST_SERVER", ""), "Server base URL (default: config serverUrl, then http://"+defaultAddr+")")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DAYLIST_FORMAT", "json"), "Output format (json|yaml|text)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func today() string {
	return time.Now().Format(model.DateLayout)
}

// loadConfig treats an unreadable config as empty; commands that write the
// config load it themselves and report the error.
func loadConfig() *store.GlobalConfig {
	cfg, err := store.LoadConfig()
	if err != nil || cfg == nil {
		return &store.GlobalConfig{}
	}
	return cfg
}

func resolveDir(app *App) (string, error) {
	if d := strings.TrimSpace(app.Dir); d != "" {
		return d, nil
	}
	if d := strings.TrimSpace(loadConfig().Dir); d != "" {
		return d, nil
	}
	return store.DefaultDir()
}

func resolveServer(app *App) string {
	if s := strings.TrimSpace(app.Server); s != "" {
		return s
	}
	if s := strings.TrimSpace(loadConfig().ServerURL); s != "" {
		return s
	}
	return "http://" + defaultAddr
}

func newClient(app *App) (*client.Client, error) {
	return client.New(resolveServer(app))
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
