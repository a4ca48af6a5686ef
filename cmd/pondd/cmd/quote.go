package cmd

import (
	"fmt"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/spf13/cobra"
)

// NewQuoteCmd prints a one-shot multi-hop quote against the configured pools.
func NewQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote <amount-in> <asset> [asset...]",
		Short: "Quote a swap along an asset path using the configured pools",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			amountIn, ok := math.NewIntFromString(args[0])
			if !ok {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			path := args[1:]

			k, err := buildEngine(cmd.Context(), v, log.NewNopLogger())
			if err != nil {
				return err
			}

			amounts, err := k.GetAmountsOut(amountIn, path)
			if err != nil {
				return err
			}

			hops := make([]string, len(amounts))
			for i, a := range amounts {
				hops[i] = fmt.Sprintf("%s%s", a, path[i])
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(hops, " -> "))
			return nil
		},
	}
	cmd.Flags().String(flagConfig, "", "path to the YAML config file")
	return cmd
}
