package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/contentdisplay"
	"github.com/agentdeck/agentdeck/internal/logging"
)

// flagKeys maps command flags to the config keys they override. Only flags of the executing command are bound.
var flagKeys = map[string]string{
	"width":      "render.width",
	"format":     "render.format",
	"playground": "render.playground",
	"addr":       "server.addr",
}

// app is the state shared by the commands of one Run.
type app struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	v       *viper.Viper
	cfgFile string
	verbose bool

	cfgOnce sync.Once
	cfg     *config.Config
	cfgErr  error

	renderer *contentdisplay.Renderer
}

func (a *app) config() (*config.Config, error) {
	a.cfgOnce.Do(func() {
		a.cfg, a.cfgErr = config.Load(a.v, a.cfgFile)
	})
	return a.cfg, a.cfgErr
}

// logger returns a console logger (or a JSON one for the server) writing to the error stream.
func (a *app) logger(cfg *config.Config, json bool) (*zap.Logger, func(), error) {
	logger, cleanup, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Verbose: a.verbose,
		JSON:    json,
		File:    cfg.Log.File,
	}, a.err)
	if err != nil {
		return nil, cleanup, err
	}
	if cfg.File != "" {
		logger.Debug("Using config file", zap.String("path", cfg.File))
	}
	return logger, cleanup, nil
}

// textWidth is the configured render width or, if that is 0 and stdout is a terminal, the terminal width. 0 means no wrapping.
func (a *app) textWidth(cfg *config.Config) int {
	if cfg.Render.Width > 0 {
		return cfg.Render.Width
	}
	f, ok := a.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

func newRootCommand(a *app) *cobra.Command {
	a.v = viper.New()
	a.renderer = contentdisplay.New(contentdisplay.Options{})

	root := &cobra.Command{
		Use:   "agentdeck",
		Short: "agentdeck renders agent chat transcripts.",
		Long: `agentdeck renders agent chat transcripts (text, code, tool calls, errors, media)
as terminal text, HTML, or a JSON display tree.

Configuration is read from --config or $XDG_CONFIG_HOME/agentdeck/config.yaml,
then AGENTDECK_* environment variables (AGENTDECK_RENDER_WIDTH for render.width),
then flags.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for name, key := range flagKeys {
				if f := cmd.Flags().Lookup(name); f != nil {
					if err := a.v.BindPFlag(key, f); err != nil {
						return fmt.Errorf("bind --%s: %w", name, err)
					}
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/agentdeck/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRenderCommand(a),
		newDiffCommand(a),
		newServeCommand(a),
		newVersionCommand(a),
	)
	return root
}

// usageArgs makes positional argument failures usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the agentdeck version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.out, "agentdeck %s\n", Version)
			return err
		},
	}
}
