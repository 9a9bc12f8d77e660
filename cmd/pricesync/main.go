// Package main is the pricesync CLI.
//
// Usage:
//
//	pricesync serve
//	pricesync migrate up
//	pricesync publish --code P100 --price 14.50
//
// Configuration is read from the YAML file resolved by APP_ENV
// (configs/config.<env>.yaml) or the one passed with --config.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Sokol111/ecommerce-price-sync/internal/app"
	"github.com/Sokol111/ecommerce-price-sync/internal/product"
	"github.com/Sokol111/ecommerce-price-sync/pkg/core"
	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence/postgres"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
}

func (f *rootFlags) coreOptions() app.Option {
	if f.configPath == "" {
		return app.WithCoreOptions()
	}
	return app.WithCoreOptions(core.WithConfigPath(f.configPath))
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "pricesync",
		Short:         "Apply product price changes from Kafka to PostgreSQL",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file (default: configs/config.$APP_ENV.yaml)")

	rootCmd.AddCommand(
		newServeCmd(flags),
		newMigrateCmd(flags),
		newPublishCmd(flags),
	)

	return rootCmd
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Consume price changes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fx.New(app.Service(flags.coreOptions()))
			if err := a.Err(); err != nil {
				return err
			}
			a.Run()
			return nil
		},
	}
}

func newMigrateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the products schema",
	}

	run := func(step func(postgres.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), app.Migrations(
				flags.coreOptions(),
				app.With(fx.Invoke(func(lc fx.Lifecycle, m postgres.Migrator) {
					lc.Append(fx.StartHook(func() error { return step(m) }))
				})),
			))
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  run(postgres.Migrator.Up),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every applied migration",
			RunE:  run(postgres.Migrator.Down),
		},
	)

	return cmd
}

func newPublishCmd(flags *rootFlags) *cobra.Command {
	var code, price string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish one ProductPriceChanged event",
		Example: `  pricesync publish --code P100 --price 14.50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid --price %q: %w", price, err)
			}
			if err := product.ValidatePriceChange(code, amount); err != nil {
				return err
			}

			return runOnce(cmd.Context(), app.Publishing(
				flags.coreOptions(),
				app.With(fx.Invoke(func(lc fx.Lifecycle, p product.PricePublisher, log *zap.Logger) {
					lc.Append(fx.StartHook(func(ctx context.Context) error {
						if err := p.PublishPriceChange(ctx, code, amount); err != nil {
							return err
						}
						log.Info("price change published",
							zap.String("product_code", code),
							zap.String("price", amount.StringFixed(product.PriceScale)))
						return nil
					}))
				})),
			))
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Product code (required)")
	cmd.Flags().StringVar(&price, "price", "", "New price, e.g. 14.50 (required)")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

// runOnce starts the graph, letting start hooks do the work, then stops it.
func runOnce(ctx context.Context, opts fx.Option) error {
	a := fx.New(opts)
	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.Stop(context.WithoutCancel(ctx))
}
