// Package commands implements the CLI commands for the hotswap reload tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hotswap/internal/app"
	"go.trai.ch/hotswap/internal/build"
	"go.trai.ch/hotswap/internal/core/domain"
)

// CLI represents the command line interface for hotswap.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Watch(ctx context.Context, o app.Overrides) error
	Scan(ctx context.Context, o app.Overrides, w io.Writer) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "hotswap",
		Short:         "Live method reloading for compiled modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	pf := rootCmd.PersistentFlags()
	pf.StringP("root", "r", ".", "Folder holding the modules")
	pf.StringP("pattern", "p", domain.DefaultPattern, "Base name pattern of module files")
	pf.DurationP("delay", "d", domain.DefaultDelay, "Quiet period before a change is reloaded")
	pf.Bool("recursive", false, "Also watch subdirectories of the root")
	pf.Bool("json", false, "Write logs as JSON")
	pf.Bool("trace", false, "Log finished reload spans")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newScanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// overrides collects the persistent flags the user set explicitly. Unset
// flags leave the configuration file in charge.
func overrides(cmd *cobra.Command) app.Overrides {
	var o app.Overrides
	flags := cmd.Flags()

	if flags.Changed("root") {
		v, _ := flags.GetString("root")
		o.Root = &v
	}
	if flags.Changed("pattern") {
		v, _ := flags.GetString("pattern")
		o.Pattern = &v
	}
	if flags.Changed("delay") {
		v, _ := flags.GetDuration("delay")
		o.Delay = &v
	}
	if flags.Changed("recursive") {
		v, _ := flags.GetBool("recursive")
		o.Recursive = &v
	}
	if flags.Changed("json") {
		v, _ := flags.GetBool("json")
		o.JSONLogs = &v
	}
	if flags.Changed("trace") {
		v, _ := flags.GetBool("trace")
		o.Trace = &v
	}

	return o
}
