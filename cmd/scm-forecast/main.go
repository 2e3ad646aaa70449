// Command scm-forecast runs SARIMA forecasts over order transaction CSVs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/UKumark9/scm-forecast/dataset"
	"github.com/UKumark9/scm-forecast/forecast"
)

var (
	// Dataset flags
	ordersPath   string
	itemsPath    string
	paymentsPath string
	productsPath string

	// Engine flags
	horizonDays   int
	historyMonths int
	workers       int
	verbose       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scm-forecast",
		Short: "Seasonal SARIMA forecasts for order transaction data",
		Long: `Builds weekly series from order transaction CSVs and forecasts them with
automatically selected SARIMA models: demand, revenue, delivery delay rate,
and per-category demand.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&ordersPath, "orders", "orders.csv", "orders table CSV")
	rootCmd.PersistentFlags().StringVar(&itemsPath, "items", "order_items.csv", "order items table CSV")
	rootCmd.PersistentFlags().StringVar(&paymentsPath, "payments", "", "payments table CSV (enables revenue)")
	rootCmd.PersistentFlags().StringVar(&productsPath, "products", "", "products table CSV (enables categories)")
	rootCmd.PersistentFlags().IntVar(&horizonDays, "horizon", 30, "forecast horizon in days")
	rootCmd.PersistentFlags().IntVar(&historyMonths, "months", 12, "trailing history window in months")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "worker pool size (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(demandCmd())
	rootCmd.AddCommand(revenueCmd())
	rootCmd.AddCommand(delayRateCmd())
	rootCmd.AddCommand(categoryCmd())
	rootCmd.AddCommand(topCategoriesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadEngine reads the configured tables and constructs the engine.
func loadEngine() (*forecast.Engine, error) {
	ds := &forecast.Dataset{}
	tables := []struct {
		name string
		load func() error
	}{
		{"orders", func() error { return dataset.LoadOrders(ordersPath, ds) }},
		{"order items", func() error { return dataset.LoadItems(itemsPath, ds) }},
		{"payments", func() error { return dataset.LoadPayments(paymentsPath, ds) }},
		{"products", func() error { return dataset.LoadProducts(productsPath, ds) }},
	}

	bar := progressbar.Default(int64(len(tables)), "loading tables")
	for _, table := range tables {
		if err := table.load(); err != nil {
			return nil, fmt.Errorf("load %s: %w", table.name, err)
		}
		bar.Add(1)
	}
	bar.Finish()

	opts := forecast.DefaultOptions()
	opts.HistoryMonths = historyMonths
	opts.Workers = workers
	return forecast.NewEngine(ds, opts)
}

func demandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demand",
		Short: "Forecast weekly order demand",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			result, err := engine.ForecastDemand(context.Background(), horizonDays)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
}

func revenueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revenue",
		Short: "Forecast weekly revenue (requires --payments)",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			result, err := engine.ForecastRevenue(context.Background(), horizonDays)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
}

func delayRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delay-rate",
		Short: "Forecast the weekly late-delivery percentage",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			result, err := engine.ForecastDelayRate(context.Background(), horizonDays)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
}

func categoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category [name]",
		Short: "Forecast demand for one product category (requires --products)",
		Long: `Forecasts weekly order demand for a single product category. Without an
argument the highest-volume category of the history window is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			result, err := engine.ForecastCategory(context.Background(), horizonDays, category)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
}

func topCategoriesCmd() *cobra.Command {
	topN := forecast.DefaultTopN
	cmd := &cobra.Command{
		Use:   "top-categories",
		Short: "Forecast demand for the top-N categories (requires --products)",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			set, err := engine.ForecastTopCategories(context.Background(), horizonDays, topN)
			if err != nil {
				return err
			}
			fmt.Println(set.Summary)
			return nil
		},
	}
	cmd.Flags().IntVar(&topN, "top", forecast.DefaultTopN, "number of categories to forecast")
	return cmd
}

// printResult writes the narrative summary followed by the forecast table.
func printResult(r *forecast.ForecastResult) {
	fmt.Println(r.Summary)
	fmt.Println()
	fmt.Printf("%-12s %12s %12s %12s\n", "Week", "Forecast", "Lower", "Upper")
	for _, p := range r.Points {
		fmt.Printf("%-12s %12.2f %12.2f %12.2f\n",
			p.Date.Format("2006-01-02"), p.Forecast, p.Lower, p.Upper)
	}
}
