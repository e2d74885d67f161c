package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/display"
)

func newDiffCommand(a *app) *cobra.Command {
	var inputFormat string
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show how two transcripts render differently",
		Long: `Render both transcripts as text and print a line diff ("-" old, "+" new).

Exits 0 when the renderings are identical and 1 when they differ.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			logger, cleanup, err := a.logger(cfg, false)
			defer cleanup()
			if err != nil {
				return err
			}

			width := a.textWidth(cfg)
			oldText, err := a.renderText(args[0], inputFormat, cfg, width)
			if err != nil {
				return err
			}
			newText, err := a.renderText(args[1], inputFormat, cfg, width)
			if err != nil {
				return err
			}

			lines := display.Diff(oldText, newText)
			changed := display.Changed(lines)
			logger.Debug("Diffed renderings", zap.String("old", args[0]), zap.String("new", args[1]), zap.Bool("changed", changed))
			if !changed {
				return nil
			}
			if _, err := io.WriteString(a.out, display.FormatDiff(lines)); err != nil {
				return err
			}
			return exitError{code: 1, err: errDifferent}
		},
	}

	f := cmd.Flags()
	f.Int("width", 0, "wrap width (0 uses the terminal width, or no wrapping)")
	f.Bool("playground", false, "omit duration badges")
	f.StringVar(&inputFormat, "input-format", "auto", "transcript format: auto, json, jsonl, or yaml")
	return cmd
}

// renderText renders the transcript at path as text. Chat ids are not shown in text, so none is generated.
func (a *app) renderText(path, inputFormat string, cfg *config.Config, width int) (string, error) {
	t, err := a.loadTranscript(path, inputFormat)
	if err != nil {
		return "", err
	}
	tree := a.renderer.RenderAll(t.Items, t.ChatID, cfg.Render.Playground || t.Playground)
	return display.RenderText(tree, display.TextOptions{Width: width}), nil
}
