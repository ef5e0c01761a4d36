// Command serlo-gateway serves the Serlo GraphQL API.
package main

import (
	"fmt"
	"os"

	"github.com/shyptr/serlo-gateway/config"
	"github.com/shyptr/serlo-gateway/resolver"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "serlo-gateway",
		Short:        "GraphQL gateway in front of the serlo.org backends",
		SilenceUsage: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the GraphQL server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), c)
		},
	}
	config.BindFlags(serve.Flags())

	schema := &cobra.Command{
		Use:   "schema",
		Short: "Print the GraphQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), resolver.SDL())
			return err
		},
	}

	root.AddCommand(serve, schema)
	return root
}
