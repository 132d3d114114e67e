package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/byu-imaal/dns-cookies-pam21/asinfo"
	"github.com/byu-imaal/dns-cookies-pam21/utils/logger"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	server      string
	concurrency int
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "asinfo [ip...]",
	Short: "look up AS information for IP addresses via Team Cymru whois",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Init()

		ips := args
		if len(ips) == 0 {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if ip := strings.TrimSpace(scanner.Text()); ip != "" {
					ips = append(ips, ip)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed reading stdin: %s", err)
			}
		}
		if len(ips) == 0 {
			return fmt.Errorf("no IP addresses given")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		lines, err := asinfo.LookupBulk(ctx, ips, asinfo.Options{
			Verbose:     verbose,
			Server:      server,
			Concurrency: concurrency,
		})
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include the AS name column")
	rootCmd.Flags().StringVar(&server, "server", asinfo.DefaultServer, "Whois endpoint, host:port")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 1, "Bulk chunks in flight at once")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall lookup deadline")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
