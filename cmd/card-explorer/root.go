package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/app"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/browse"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/query"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/config"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/logging"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/version"
)

// options holds the persistent flags and the state loaded from them.
type options struct {
	configPath string
	neo4jURI   string
	logLevel   string
	jsonOutput bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "card-explorer",
		Short:         "Search and compare Hearthstone cards stored in Neo4j",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default is ~/.card-explorer/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.neo4jURI, "neo4j-uri", "", "Neo4j URI (overrides config and NEO4J_URI)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(
		newSearchCmd(opts),
		newFacetsCmd(opts),
		newCompareCmd(opts),
		newBrowseCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// load reads the configuration and builds the logger.
func (o *options) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.neo4jURI != "" {
		cfg.Graph.URI = o.neo4jURI
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	} else if cfg.Log.Level == "info" {
		// Keep the terminal quiet unless asked.
		cfg.Log.Level = "warn"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	o.cfg = cfg
	o.logger = logger
	return nil
}

// open connects to the catalog. The caller must Close the runtime.
func (o *options) open(ctx context.Context) (*app.Runtime, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return app.Open(connectCtx, o.cfg, o.logger)
}

func closeRuntime(rt *app.Runtime, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.Close(ctx); err != nil {
		logger.Warn("Error closing graph database", zap.Error(err))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSearchCmd(opts *options) *cobra.Command {
	var (
		criteria query.Criteria
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search cards by name or text and filters",
		Example: `  card-explorer search yeti
  card-explorer search --class MAGE --cost 3 --mechanic FREEZE`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				criteria.SearchTerm = args[0]
			}

			rt, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRuntime(rt, opts.logger)

			res, err := rt.Catalog.Search(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), res)
			}

			if pageSize == 0 {
				pageSize = opts.cfg.Catalog.DefaultPageSize
			}
			state, err := browse.SetPageSize(browse.New(pageSize), pageSize)
			if err != nil {
				return err
			}
			state = browse.GoToPage(browse.ApplyFilter(state, cardsOf(res)), page)
			displayPage(cmd.OutOrStdout(), state)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&criteria.Type, "type", "", "card type, e.g. MINION")
	f.StringVar(&criteria.Class, "class", "", "player class, e.g. MAGE")
	f.StringVar(&criteria.Rarity, "rarity", "", "rarity, e.g. LEGENDARY")
	f.StringVar(&criteria.Cost, "cost", "", "exact mana cost")
	f.StringVar(&criteria.Set, "set", "", "card set, e.g. CORE")
	f.StringVar(&criteria.Race, "race", "", "minion race, e.g. BEAST")
	f.StringVar(&criteria.Mechanic, "mechanic", "", "mechanic, e.g. TAUNT")
	f.IntVar(&page, "page", 1, "page to show")
	f.IntVar(&pageSize, "page-size", 0, "cards per page (default from config)")
	return cmd
}

func newFacetsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "facets",
		Aliases: []string{"params"},
		Short:   "List the distinct values of every filter",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRuntime(rt, opts.logger)

			fs, err := rt.Catalog.Facets(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), fs)
			}
			displayFacets(cmd.OutOrStdout(), fs)
			return nil
		},
	}
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <card-a> <card-b>",
		Short: "Compare two cards by id, cardId or dbfId",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRuntime(rt, opts.logger)

			a, err := rt.Catalog.Card(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			b, err := rt.Catalog.Card(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			result, err := rt.Catalog.Compare(a.Card, b.Card)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			displayComparison(cmd.OutOrStdout(), a.Card, b.Card, result)
			return nil
		},
	}
}

func newBrowseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse, select and compare cards interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRuntime(rt, opts.logger)

			s := newSession(cmd.Context(), rt.Catalog, cmd.OutOrStdout(), opts.cfg.Catalog.DefaultPageSize)
			return s.run(cmd.InOrStdin())
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := opts.cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})
	return configCmd
}
