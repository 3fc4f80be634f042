package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hmtkvs/speedread/internal/config"
	"github.com/hmtkvs/speedread/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading history",
	Long:  paragraph(fmt.Sprintf("\nShow %s: lifetime totals and the most recent sessions.", keyword("your reading history"))),
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		cfg, err := config.FromViper()
		if err != nil {
			return err
		}
		path, err := statsPath(cfg)
		if err != nil {
			return err
		}
		store, err := stats.Open(path)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		totals, err := store.Totals()
		if err != nil {
			return err
		}
		if totals.Sessions == 0 {
			fmt.Println("No reading sessions recorded yet.")
			return nil
		}

		fmt.Printf("Sessions:   %s\n", humanize.Comma(int64(totals.Sessions)))
		fmt.Printf("Words read: %s\n", humanize.Comma(int64(totals.WordsRead)))
		fmt.Printf("Time read:  %s\n", totals.TimeRead.Round(time.Second))

		recent, err := store.Recent(10)
		if err != nil {
			return err
		}
		fmt.Println("\nRecent sessions:")
		for _, s := range recent {
			fmt.Printf("  %-12s %6s words at %d wpm  (%s)\n",
				humanize.Time(s.StartedAt),
				humanize.Comma(int64(s.WordsRead)),
				s.WPM,
				s.Source,
			)
		}
		return nil
	},
}
