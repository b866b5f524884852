package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/witch-agent/vibe-coder/internal/config"
	"github.com/witch-agent/vibe-coder/internal/prompt"
)

type renderOptions struct {
	Topic string
	Style string
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [topic...]",
		Short: "Print the prompt that would be sent upstream",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := resolveTopic(opts.Topic, args)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			style := prompt.Resolve(opts.Style, cfg.DefaultStyle())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), style.Render(topic))
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Topic, "topic", "", "project topic")
	cmd.Flags().StringVar(&opts.Style, "style", "", "prompt style (see 'styles')")
	return cmd
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the available prompt styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			for _, style := range prompt.Styles() {
				marker := ""
				if style == cfg.DefaultStyle() {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", style, marker)
			}
			return nil
		},
	}
}
