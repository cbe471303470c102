// internal/cli/seed.go
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"time"

	"mandi-workers/internal/common/database"
	"mandi-workers/internal/mandi"
	loadmandisnapshot "mandi-workers/internal/workers/data-access/load-mandi-snapshot"
	"mandi-workers/internal/workers/data-access/search-mandi-listings/queries"

	"github.com/spf13/cobra"
)

// seeder pushes catalog markets into each configured data source. A nil
// target is skipped.
type seeder struct {
	db    *sql.DB
	es    *database.ElasticsearchClient
	cache *database.RedisClient
	index string
	out   io.Writer
}

func (s *seeder) run(ctx context.Context, markets []mandi.Market) error {
	if s.db != nil {
		if err := loadmandisnapshot.NewStore(s.db).UpsertMarkets(ctx, markets); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		fmt.Fprintf(s.out, "postgres: upserted %d mandis\n", len(markets))
	}

	if s.es != nil {
		if err := s.es.EnsureIndex(ctx, s.index, database.ListingsMapping); err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
		n, err := queries.IndexMarkets(ctx, s.es.Client, s.index, markets)
		if err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
		fmt.Fprintf(s.out, "elasticsearch: indexed %d listings into %s\n", n, s.index)
	}

	if s.cache != nil {
		keys := snapshotKeys(markets)
		if len(keys) > 0 {
			if err := s.cache.Del(ctx, keys...); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		fmt.Fprintf(s.out, "redis: invalidated %d snapshot keys\n", len(keys))
	}
	return nil
}

// snapshotKeys returns the sorted, distinct snapshot cache keys of every
// product listed in markets.
func snapshotKeys(markets []mandi.Market) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range markets {
		for _, p := range m.Products {
			key := loadmandisnapshot.CacheKey(p.ProductName)
			if seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	var (
		scenarioKey string
		migrate     bool
		skipES      bool
		skipRedis   bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog mandis into postgres and elasticsearch",
		Long: `Upsert the catalog mandis and their listings into postgres, index the
listings into elasticsearch and drop stale snapshot cache entries from redis.

Examples:
  mandi seed --migrate
  mandi seed --scenario scenario1 --skip-es`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			markets := catalog.AllMarkets()
			if scenarioKey != "" {
				scenario, err := catalog.Scenario(scenarioKey)
				if err != nil {
					return err
				}
				markets = scenario.Markets
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := pg.Ping(ctx); err != nil {
				return fmt.Errorf("failed to connect to postgres: %w", err)
			}
			if migrate {
				if err := pg.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "postgres: schema migrated")
			}

			s := &seeder{db: pg.DB, index: cfg.Mandi.ListingsIndex, out: cmd.OutOrStdout()}
			if !skipES {
				es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
				if err != nil {
					return err
				}
				s.es = es
			}
			if !skipRedis {
				cache, err := database.NewRedis(cfg.Database.Redis)
				if err != nil {
					return err
				}
				defer cache.Close()
				s.cache = cache
			}

			if err := s.run(ctx, markets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s\n", describeScope(scenarioKey))
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioKey, "scenario", "", "Seed only this scenario")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the schema before seeding")
	cmd.Flags().BoolVar(&skipES, "skip-es", false, "Do not index into elasticsearch")
	cmd.Flags().BoolVar(&skipRedis, "skip-redis", false, "Do not invalidate the snapshot cache")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Time allowed for the whole seed")

	return cmd
}

func describeScope(scenarioKey string) string {
	if scenarioKey == "" {
		return "all scenarios"
	}
	return "scenario " + scenarioKey
}
