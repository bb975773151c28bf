package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/publish"
)

func routesCmd(load func() (*config.Config, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List the console's routes in declaration order with the href each
one is served at.

Examples:
  adminshell routes
  adminshell routes --json > routes.json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			r, err := buildRouter(cfg, cfg.Logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer r.Close()

			m := publish.BuildManifest(r, cfg)
			out := cmd.OutOrStdout()

			if asJSON {
				data, err := publish.Encode(m)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tNAME\tTARGET\tHREF")
			for _, route := range m.Routes {
				name := route.Name
				if name == "" {
					name = "-"
				}
				target := route.Component
				if route.Redirect != "" {
					target = "→ " + route.Redirect
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", route.Path, name, target, route.Href)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the route manifest as JSON")

	return cmd
}
