package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pond-exchange/pond/x/amm/keeper"
	"github.com/pond-exchange/pond/x/amm/ledger"
	"github.com/pond-exchange/pond/x/amm/types"
)

// NewStartCmd runs the exchange daemon: it builds the keeper from the config,
// seeds the configured pools, and serves Prometheus metrics until interrupted.
func NewStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the exchange daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := log.NewLogger(os.Stderr)
			k, err := buildEngine(cmd.Context(), v, logger)
			if err != nil {
				return err
			}

			srv := startMetricsServer(v.GetInt("metrics_port"), logger)

			logger.Info("pond exchange started",
				"pairs", k.AllPairsLength(),
				"metrics_port", v.GetInt("metrics_port"),
			)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String(flagConfig, "", "path to the YAML config file")
	return cmd
}

// buildEngine assembles the ledger, wrapper, and keeper from the config and
// provisions the configured pools.
func buildEngine(ctx context.Context, v *viper.Viper, logger log.Logger) (*keeper.Keeper, error) {
	params := types.Params{
		FeeNumerator:     math.NewInt(v.GetInt64("fee_numerator")),
		FeeDenominator:   math.NewInt(v.GetInt64("fee_denominator")),
		MinimumLiquidity: math.NewInt(v.GetInt64("minimum_liquidity")),
	}

	book := ledger.New()
	wrapper := ledger.NewWrapper(book, v.GetString("native_denom"), v.GetString("wrapped_denom"))
	k, err := keeper.NewKeeper(book, wrapper, logger, params)
	if err != nil {
		return nil, err
	}
	if err := seedPools(ctx, v, book, k); err != nil {
		return nil, err
	}
	return k, nil
}

// seedPools funds and provisions each pool listed under the config's "pools"
// key. Each entry names two assets and the initial reserve for each side.
func seedPools(ctx context.Context, v *viper.Viper, book *ledger.Ledger, k *keeper.Keeper) error {
	seeder := sdk.AccAddress([]byte("pond_genesis_seeder_"))

	for i, raw := range cast.ToSlice(v.Get("pools")) {
		entry := cast.ToStringMap(raw)
		assetA := cast.ToString(entry["asset_a"])
		assetB := cast.ToString(entry["asset_b"])
		amountA := math.NewInt(cast.ToInt64(entry["amount_a"]))
		amountB := math.NewInt(cast.ToInt64(entry["amount_b"]))

		if assetA == "" || assetB == "" {
			return fmt.Errorf("pool %d: both asset_a and asset_b must be set", i)
		}
		if !amountA.IsPositive() || !amountB.IsPositive() {
			return fmt.Errorf("pool %d (%s/%s): amounts must be positive", i, assetA, assetB)
		}

		coins := sdk.NewCoins(sdk.NewCoin(assetA, amountA), sdk.NewCoin(assetB, amountB))
		if err := book.MintCoins(ctx, seeder, coins); err != nil {
			return fmt.Errorf("pool %d: fund seeder: %w", i, err)
		}

		deadline := time.Now().Add(time.Minute)
		_, _, _, err := k.AddLiquidity(ctx, seeder, assetA, assetB,
			amountA, amountB, math.ZeroInt(), math.ZeroInt(), seeder, deadline)
		if err != nil {
			return fmt.Errorf("pool %d (%s/%s): %w", i, assetA, assetB, err)
		}
	}
	return nil
}

// startMetricsServer serves /metrics on the given port in the background.
func startMetricsServer(port int, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	return srv
}
