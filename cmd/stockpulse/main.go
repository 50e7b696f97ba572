package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	format     string
	outputPath string
	symbolFile string
	groupName  string
	peers      []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "stockpulse",
		Short:         "Equity scoring, pattern scanning and market sentiment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "md", "Output format: md or csv")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")

	for _, c := range []*cobra.Command{groupCmd, scanCmd, newsCmd} {
		c.Flags().StringVar(&symbolFile, "file", "", "Read symbols from a file, one per line")
	}
	groupCmd.Flags().StringVarP(&groupName, "name", "n", "", "Group name shown in the report")
	scoreCmd.Flags().StringSliceVar(&peers, "peers", nil, "Industry peers to compare the PE against (comma-separated)")

	rootCmd.AddCommand(stockCmd, scoreCmd, groupCmd, marketCmd, scanCmd, newsCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
