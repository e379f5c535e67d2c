// feedexport turns a blogwatcher article listing into the widget's
// news.json feed document.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vetmedwire/newswidget/internal/export"
	"github.com/vetmedwire/newswidget/internal/logger"
)

var (
	flagInput    string
	flagOutput   string
	flagRules    string
	flagMaxItems int
)

var rootCmd = &cobra.Command{
	Use:   "feedexport",
	Short: "Export aggregator articles to the widget feed document",
	Long: "feedexport reads the article listing produced by the blogwatcher " +
		"aggregator, filters out junk and off-topic entries, assigns emojis, " +
		"and writes the news.json document the widget consumes.",
	RunE: runExport,
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active export rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagRules == "" {
			_, err := os.Stdout.Write(export.DefaultRulesYAML())
			return err
		}
		data, err := os.ReadFile(flagRules)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "path to a YAML rules file (default: embedded rules)")
	rootCmd.Flags().StringVar(&flagInput, "input", "-", "article listing file, or - for stdin")
	rootCmd.Flags().StringVar(&flagOutput, "output", "public/news.json", "where to write the feed document")
	rootCmd.Flags().IntVar(&flagMaxItems, "max-items", export.DefaultMaxItems, "maximum items in the exported feed")

	rootCmd.AddCommand(rulesCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	logger.Init()

	rules, err := export.LoadRules(flagRules)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if flagInput != "-" {
		f, err := os.Open(flagInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	articles, err := export.ParseListing(in)
	if err != nil {
		return err
	}

	doc, stats := export.NewExporter(rules, flagMaxItems).Build(articles, time.Now())

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	if err := os.WriteFile(flagOutput, data, 0644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}

	fmt.Printf("Exported %d articles to %s (filtered: %d junk, %d off-topic, %d not relevant, %d duplicates)\n",
		stats.Exported, flagOutput, stats.Junk, stats.OffTopic, stats.NotRelevant, stats.Duplicates)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
