package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/publish"
)

func publishCmd(load func() (*config.Config, error)) *cobra.Command {
	var pc config.PublishConfig

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the route manifest",
		Long: `Write the route manifest to a file, an S3 bucket, or both.

S3 credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
and AWS_SESSION_TOKEN. Use --endpoint for S3-compatible stores.

Examples:
  adminshell publish --out dist/routes.json
  adminshell publish --bucket console-manifests --region eu-west-1
  adminshell publish --bucket manifests --endpoint http://localhost:9000`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			// Flags override adminshell.json field by field.
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.Publish.Out = pc.Out
			}
			if flags.Changed("bucket") {
				cfg.Publish.Bucket = pc.Bucket
			}
			if flags.Changed("key") {
				cfg.Publish.Key = pc.Key
			}
			if flags.Changed("region") {
				cfg.Publish.Region = pc.Region
			}
			if flags.Changed("endpoint") {
				cfg.Publish.Endpoint = pc.Endpoint
			}

			logger := cfg.Logger(cmd.ErrOrStderr())
			p, err := publish.ForConfig(cfg.Publish, nil, logger)
			if err != nil {
				return err
			}

			r, err := buildRouter(cfg, logger)
			if err != nil {
				return err
			}
			defer r.Close()

			m := publish.BuildManifest(r, cfg)
			dest, err := p.Publish(cmd.Context(), m)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Published %d routes to %s", len(m.Routes), dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pc.Out, "out", "o", "", "Write the manifest to this file")
	cmd.Flags().StringVar(&pc.Bucket, "bucket", "", "S3 bucket to upload the manifest to")
	cmd.Flags().StringVar(&pc.Key, "key", config.DefaultManifestKey, "S3 object key")
	cmd.Flags().StringVar(&pc.Region, "region", "", "S3 region")
	cmd.Flags().StringVar(&pc.Endpoint, "endpoint", "", "S3-compatible endpoint URL")

	return cmd
}
