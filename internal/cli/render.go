package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/display"
	"github.com/agentdeck/agentdeck/internal/transcript"
)

func newRenderCommand(a *app) *cobra.Command {
	var chatID, inputFormat string
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a transcript",
		Long: `Render a transcript file (or stdin, when file is "-" or omitted).

The transcript is a JSON object {"chat_id", "playground", "items"}, a bare JSON
array of items, JSON Lines with one item per line, or YAML.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				if f, _ := cmd.Flags().GetString("format"); !slices.Contains(config.Formats, f) {
					return usageErrorf("invalid --format %q: must be one of %s", f, strings.Join(config.Formats, ", "))
				}
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}
			logger, cleanup, err := a.logger(cfg, false)
			defer cleanup()
			if err != nil {
				return err
			}

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			t, err := a.loadTranscript(path, inputFormat)
			if err != nil {
				return err
			}

			id := chatID
			if id == "" {
				id = t.ChatID
			}
			if id == "" {
				id = uuid.NewString()
			}
			playground := cfg.Render.Playground || t.Playground

			tree := a.renderer.RenderAll(t.Items, id, playground)
			width := a.textWidth(cfg)
			logger.Debug("Rendering transcript",
				zap.String("path", path),
				zap.Int("items", len(t.Items)),
				zap.String("format", cfg.Render.Format),
				zap.Int("width", width),
				zap.String("chat_id", id))

			return display.Write(a.out, tree, cfg.Render.Format, display.WriteOptions{Text: display.TextOptions{Width: width}})
		},
	}

	f := cmd.Flags()
	f.String("format", "text", "output format: "+strings.Join(config.Formats, ", "))
	f.Int("width", 0, "wrap width for text output (0 uses the terminal width, or no wrapping)")
	f.Bool("playground", false, "omit duration badges")
	f.StringVar(&chatID, "chat-id", "", "chat id for duration badges (default: the transcript's, else a random UUID)")
	f.StringVar(&inputFormat, "input-format", "auto", "transcript format: auto, json, jsonl, or yaml")
	return cmd
}

// loadTranscript reads path ("-" is stdin). With input format auto, files use their extension.
func (a *app) loadTranscript(path, inputFormat string) (*transcript.Transcript, error) {
	format, err := transcript.ParseFormat(inputFormat)
	if err != nil {
		return nil, usageError(err)
	}
	if path == "-" {
		return transcript.Decode(a.in, format)
	}
	if format == transcript.FormatAuto {
		return transcript.Load(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	defer f.Close()
	t, err := transcript.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
