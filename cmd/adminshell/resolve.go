package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/errors"
	"github.com/vango-dev/adminshell/pkg/router"
)

func resolveCmd(load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a path against the route table",
		Long: `Resolve a path the way the router would, following redirects.

Examples:
  adminshell resolve /
  adminshell resolve "/users?q=ada"`,
		Args: exactArgs(1),
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

			target := args[0]
			loc, err := r.Resolve(target)
			switch {
			case router.IsNavigationFailure(err, router.NavigationInvalid):
				return errors.New("E102").WithDetail(target + " is not a valid navigation path").Wrap(err)
			case err != nil:
				return errors.New("E101").WithDetail("No route matches " + target).
					WithSuggestion("Run 'adminshell routes' to list the declared paths").Wrap(err)
			}

			out := cmd.OutOrStdout()
			success(out, "%s → %s", target, loc.FullPath)
			info(out, "Route:     %s", loc.Route.Path)
			if loc.Name != "" {
				info(out, "Name:      %s", loc.Name)
			}
			info(out, "Component: %s", loc.Route.Component.Name())
			if loc.RedirectedFrom != "" {
				info(out, "Redirected from %s", loc.RedirectedFrom)
			}
			info(out, "Href:      %s", r.Href(loc))
			return nil
		},
	}
	return cmd
}

// noArgs rejects positional arguments with a coded error.
func noArgs(cmd *cobra.Command, args []string) error {
	return exactArgs(0)(cmd, args)
}

// exactArgs is cobra.ExactArgs reporting E180.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errors.New("E180").WithDetail(err.Error()).
				WithSuggestion(fmt.Sprintf("Usage: %s", cmd.UseLine()))
		}
		return nil
	}
}
