// Package main provides the CLI entry point for deckfill-go.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ukaji3/deckfill-go/internal/server"
	"github.com/ukaji3/deckfill-go/pkg/deckfill"
)

var (
	mappingPath string
	verbose     bool
	logger      *zap.Logger

	excelPath  string
	pptPath    string
	outputPath string

	pretty bool

	addr   string
	apiKey string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deckfill",
		Short: "Fill a report slide deck from an Excel sheet",
		Long: `deckfill-go copies the period and key figures of a monthly Excel
sheet into the matching text boxes of a PowerPoint summary deck.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&mappingPath, "mapping", "", "Mapping YAML file (default: built-in mapping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newUpdateCommand(), newInspectCommand(), newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Write sheet values into a deck",
		Args:  cobra.NoArgs,
		RunE:  runUpdate,
	}

	cmd.Flags().StringVar(&excelPath, "excel", "", "Input workbook (.xlsx)")
	cmd.Flags().StringVar(&pptPath, "ppt", "", "Input deck (.pptx)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "updated.pptx", "Output deck path")
	_ = cmd.MarkFlagRequired("excel")
	_ = cmd.MarkFlagRequired("ppt")

	return cmd
}

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [deck.pptx]",
		Short: "List slide shapes with their ids and text",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	return cmd
}

func newServeCommand() *cobra.Command {
	cfg := server.DefaultConfig()
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the update over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", cfg.Addr, "Listen address")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("API_KEY"), "Shared secret for the X-API-Key header (empty disables the check)")

	return cmd
}

func loadOptions() (deckfill.Options, error) {
	opts := deckfill.DefaultOptions()
	opts.Logger = logger
	if mappingPath != "" {
		m, err := deckfill.LoadMapping(mappingPath)
		if err != nil {
			return opts, fmt.Errorf("failed to load mapping: %w", err)
		}
		opts.Mapping = m
	}
	return opts, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	excelData, err := os.ReadFile(excelPath)
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}
	pptData, err := os.ReadFile(pptPath)
	if err != nil {
		return fmt.Errorf("failed to read deck: %w", err)
	}

	out, err := deckfill.Update(excelData, pptData, opts)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("Wrote deck", zap.String("path", outputPath))
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	pptData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("file not found: %s", args[0])
	}

	data, err := deckfill.Inspect(pptData)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	var jsonData []byte
	if pretty {
		jsonData, err = json.MarshalIndent(data, "", "  ")
	} else {
		jsonData, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func runServe(cmd *cobra.Command, cfg server.Config) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	cfg.Addr = addr
	cfg.APIKey = apiKey
	cfg.Mapping = opts.Mapping

	gin.SetMode(gin.ReleaseMode)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, logger).Run(ctx)
}
