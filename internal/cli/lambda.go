package cli

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/witch-agent/vibe-coder/internal/function"
	"github.com/witch-agent/vibe-coder/internal/relay"
)

func newLambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Run the relay as an AWS Lambda behind API Gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			handler, err := relay.NewFromConfig(cfg, nil, log)
			if err != nil {
				return err
			}
			log.Info("starting lambda handler")
			lambda.Start(function.NewHandler(handler))
			return nil
		},
	}
}
