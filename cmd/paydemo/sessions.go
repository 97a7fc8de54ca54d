package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/demopay/capture-widget/internal/cache"
	"github.com/demopay/capture-widget/internal/config"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect the local session cache",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached sessions (samples merged with stored entries)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		store := cache.NewStore(cfg.Cache.Path, cfg.Logger.NewLogger())

		sessions := store.All()
		ids := make([]string, 0, len(sessions))
		for id := range sessions {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			sess := sessions[id]
			fmt.Printf("%-20s %6d %s  %s\n", id, sess.Amount, sess.Currency, sess.OrderID)
		}
		return nil
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear stored sessions (built-in samples are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		store := cache.NewStore(cfg.Cache.Path, cfg.Logger.NewLogger())

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("stored sessions cleared")
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
}
