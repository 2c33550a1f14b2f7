package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autotitle/internal/knowledge"
	"autotitle/internal/media"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and populate the Knowledge Cache",
	}
	cacheCmd.AddCommand(newCachePopulateCommand(ctx))
	cacheCmd.AddCommand(newCacheSearchCommand(ctx))
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheAddCommand(ctx))
	return cacheCmd
}

func (c *commandContext) loadCache() (*knowledge.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	cache := knowledge.New(cfg.Paths.CacheFile, logger)
	cache.Load()
	return cache, nil
}

func newCachePopulateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "populate",
		Short: "Download every configured bulk list into the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, cleanup, err := ctx.newManager(false)
			if err != nil {
				return err
			}
			defer cleanup()

			results := manager.Populate(cmd.Context())
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, res := range results {
				status := "ok"
				if res.Err != nil {
					status = res.Err.Error()
					failed++
				}
				rows = append(rows, []string{res.Name, strconv.Itoa(res.Fetched), strconv.Itoa(res.Added), status})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Source", "Fetched", "Added", "Status"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft}))
			stats := manager.Cache().Stats()
			fmt.Fprintf(out, "Cache now holds %d entries under %d keys\n", stats.Entries, stats.Keys)
			if len(results) > 0 && failed == len(results) {
				return errors.New("every knowledge source failed")
			}
			return nil
		},
	}
}

func newCacheSearchCommand(ctx *commandContext) *cobra.Command {
	var year int
	var kind string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Look up a title in the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := knowledge.KindFilter(strings.ToLower(strings.TrimSpace(kind)))
			switch filter {
			case knowledge.FilterNone, knowledge.FilterMovie, knowledge.FilterEpisode:
			default:
				return fmt.Errorf("invalid --kind %q (want movie or episode)", kind)
			}
			cache, err := ctx.loadCache()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			entries := cache.Search(title, year, filter)
			if jsonOutput {
				if entries == nil {
					entries = []knowledge.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No cache entries for %q (key %q)\n", title, knowledge.NormalizeKey(title))
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				y := "-"
				if e.Year > 0 {
					y = strconv.Itoa(int(e.Year))
				}
				rows = append(rows, []string{e.Title, y, e.Kind, e.ID, strconv.Itoa(knowledge.YearScore(year, int(e.Year)))})
			}
			fmt.Fprintln(out, renderTable([]string{"Title", "Year", "Kind", "ID", "Score"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Preferred release year")
	cmd.Flags().StringVar(&kind, "kind", "", "Restrict to movie or episode")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize cache contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.loadCache()
			if err != nil {
				return err
			}
			stats := cache.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:    %s\n", cache.Path())
			fmt.Fprintf(out, "Loaded:  %s\n", yesNo(cache.Loaded()))
			fmt.Fprintf(out, "Keys:    %d\n", stats.Keys)
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			kinds := make([]string, 0, len(stats.ByKind))
			for k := range stats.ByKind {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)
			if len(kinds) > 0 {
				rows := make([][]string, 0, len(kinds))
				for _, k := range kinds {
					rows = append(rows, []string{dash(k), strconv.Itoa(stats.ByKind[k])})
				}
				fmt.Fprintln(out, renderTable([]string{"Kind", "Entries"}, rows, []columnAlignment{alignLeft, alignRight}))
			}
			return nil
		},
	}
}

func newCacheAddCommand(ctx *commandContext) *cobra.Command {
	var year int
	var id string
	var kind string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Teach the cache a title by hand",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaKind := media.KindFromCatalog(kind)
			if mediaKind == media.KindUnknown {
				return fmt.Errorf("invalid --kind %q (want movie or series)", kind)
			}
			if strings.TrimSpace(id) == "" {
				return errors.New("--id is required")
			}
			cache, err := ctx.loadCache()
			if err != nil {
				return err
			}
			entry := knowledge.EntryFromIdentity(media.Identity{
				Title:      strings.Join(args, " "),
				Year:       year,
				Kind:       mediaKind,
				ExternalID: id,
			})
			added, err := cache.Learn(entry)
			if err != nil {
				return fmt.Errorf("save cache: %w", err)
			}
			out := cmd.OutOrStdout()
			if !added {
				fmt.Fprintf(out, "%s is already cached\n", entry.ID)
				return nil
			}
			fmt.Fprintf(out, "Added %s (%s) as %s\n", entry.Title, entry.ID, entry.Kind)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Release year")
	cmd.Flags().StringVar(&id, "id", "", "External id, for example tt0903747")
	cmd.Flags().StringVar(&kind, "kind", "series", "movie or series")
	return cmd
}
