package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"autotitle/internal/config"
	"autotitle/internal/identification"
	"autotitle/internal/media"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	return configCmd
}

func resolveInitTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		return config.ExpandPath(target)
	}
	return config.DefaultConfigPath()
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool
	var toStdout bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the annotated sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if toStdout {
				_, err := out.Write(config.Sample())
				return err
			}
			target, err := resolveInitTarget(targetPath)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if _, err := os.Stat(target); err == nil && !overwrite {
				return fmt.Errorf("%s already exists (pass --overwrite to replace it)", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("check config path: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set tmdb.api_key (or TMDB_API_KEY in the environment or .env) to use TMDB records.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the sample instead of writing it")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# source: %s\n", ctx.configPath)
			_, err = out.Write(data)
			return err
		},
	}
}

// Sample identities rendered by config validate.
var (
	sampleEpisode = media.Identity{Title: "the expanse", Year: 2015, Kind: media.KindSeries, Season: 2, Episode: 5}
	sampleMovie   = media.Identity{Title: "the matrix", Year: 1999, Kind: media.KindMovie}
)

// writeNamingPreview renders the configured templates and reports whether
// renamed episodes can still be placed into season folders.
func writeNamingPreview(out io.Writer, cfg *config.Config) bool {
	opts := identification.OptionsFromConfig(cfg)
	episode := opts.CanonicalName(sampleEpisode, ".mkv")
	fmt.Fprintf(out, "Episode name:  %s\n", episode)
	fmt.Fprintf(out, "Movie name:    %s\n", opts.CanonicalName(sampleMovie, ".mkv"))

	show, season, ok := media.ParseEpisodeName(episode)
	if !ok {
		fmt.Fprintln(out, "Warning: rename.file_template does not produce `Title - S##E##` names; folder organization will skip renamed episodes.")
		return false
	}
	if cfg.Organize.TitleCase {
		show = media.TitleCase(show)
	}
	folder := media.ApplyTemplate(cfg.Organize.SeasonFolderTemplate, media.TemplateData{Title: show, Season: season})
	fmt.Fprintf(out, "Season folder: %s\n", folder)
	return true
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and preview naming",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path:   %s\n", ctx.configPath)
			fmt.Fprintf(out, "Search mode:   %s\n", cfg.Identify.SearchMode)
			fetcher := "IMDb pages"
			if cfg.TMDB.APIKey != "" {
				fetcher = "TMDB"
			}
			if cfg.Identify.SearchMode != config.SearchOffline {
				fmt.Fprintf(out, "Online lookup: %s\n", fetcher)
			}
			fmt.Fprintf(out, "Bulk sources:  %d\n", len(cfg.Knowledge.Sources))
			writeNamingPreview(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
