package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sellerdash",
		Short:        "Seller dashboard metrics service",
		SilenceUsage: true,
		RunE:         run,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the sellerdash service version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	version = "dev"
)

func main() {
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		slog.Error("can't start the service", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
