package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/witch-agent/vibe-coder/internal/relay"
)

type generateOptions struct {
	Topic string
	Style string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [topic...]",
		Short: "Generate a project prompt for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.Topic, "topic", "", "project topic")
	cmd.Flags().StringVar(&opts.Style, "style", "", "prompt style (see 'styles')")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions, args []string) error {
	topic, err := resolveTopic(opts.Topic, args)
	if err != nil {
		return err
	}
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	handler, err := relay.NewFromConfig(cfg, nil, log)
	if err != nil {
		return err
	}
	result, err := handler.Generate(cmd.Context(), topic, opts.Style)
	if err != nil {
		return describeError(err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}

func resolveTopic(flag string, args []string) (string, error) {
	if strings.TrimSpace(flag) != "" && len(args) > 0 {
		return "", errors.New("topic args and --topic are mutually exclusive")
	}
	topic := flag
	if topic == "" {
		topic = strings.Join(args, " ")
	}
	if strings.TrimSpace(topic) == "" {
		return "", errors.New("topic is required")
	}
	return topic, nil
}

func describeError(err error) error {
	var relayErr *relay.Error
	if !errors.As(err, &relayErr) {
		return err
	}
	if relayErr.Details != nil {
		return fmt.Errorf("%s (status %d): %s", relayErr.Message, relayErr.Status, formatDetails(relayErr.Details))
	}
	return fmt.Errorf("%s (status %d)", relayErr.Message, relayErr.Status)
}

func formatDetails(details any) string {
	switch v := details.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case json.RawMessage:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
