package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prompt_page_studio/widget"
)

var (
	embedOpts   widget.Options
	embedTarget string
	embedLabels []string
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Print sentiment widget markup",
	Long: `Generate the copy-paste sentiment widget for a published page.

Examples:
  studio embed --slug acme-dental-x1y2z3
  studio embed --slug acme --target website --emoji-size lg --card`,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
	f := embedCmd.Flags()
	f.StringVar(&embedOpts.Slug, "slug", "", "page slug")
	f.StringVar(&embedOpts.Question, "question", "", "question shown above the emojis")
	f.StringVar(&embedTarget, "target", "email", "email or website")
	f.StringVar(&embedOpts.EmojiSize, "emoji-size", "md", "emoji size tier")
	f.StringVar(&embedOpts.HeaderSize, "header-size", "md", "header size tier")
	f.StringVar(&embedOpts.HeaderColor, "header-color", "", "header colour as hex")
	f.BoolVar(&embedOpts.ShowCard, "card", false, "wrap the widget in a card")
	f.StringSliceVar(&embedLabels, "labels", nil, "sentiment labels, best first")
	f.StringVar(&embedOpts.BaseURL, "base-url", "", "public page base URL (overrides server.public_base_url)")
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if embedOpts.Slug == "" {
		return fmt.Errorf("--slug is required")
	}
	if len(embedLabels) > widget.LabelCount {
		return fmt.Errorf("at most %d labels", widget.LabelCount)
	}
	opts := embedOpts
	copy(opts.Labels[:], embedLabels)
	opts.Target = widget.ParseTarget(embedTarget)
	if opts.BaseURL == "" {
		opts.BaseURL = cfg.Server.PublicBaseURL
	}
	opts.AssetBaseURL = cfg.Server.AssetBaseURL

	res, err := widget.Generate(opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Markup)
	return nil
}
