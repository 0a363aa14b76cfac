package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"blockpress/internal/blocks"
	"blockpress/internal/cache"
	"blockpress/internal/database"
	"blockpress/internal/models"
	"blockpress/internal/slug"
	"blockpress/internal/store"
)

// withDB runs fn with an open database connection.
func (a *app) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withDB(cmd.Context(), func(db *sql.DB) error {
					return database.Migrate(cmd.Context(), db)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withDB(cmd.Context(), func(db *sql.DB) error {
					return database.Rollback(cmd.Context(), db)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withDB(cmd.Context(), func(db *sql.DB) error {
					v, err := database.Version(cmd.Context(), db)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
					return nil
				})
			},
		},
	)
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert development data into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd.Context(), func(db *sql.DB) error {
				if err := database.Migrate(cmd.Context(), db); err != nil {
					return err
				}
				return database.Seed(cmd.Context(), db)
			})
		},
	}
}

func (a *app) blocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Inspect block types and renderers",
	}

	var counts bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List registered block types",
		RunE: func(cmd *cobra.Command, args []string) error {
			var used map[string]int
			if counts {
				err := a.withDB(cmd.Context(), func(db *sql.DB) error {
					tc, err := store.NewBlockStore(db).CountByType(cmd.Context())
					if err != nil {
						return err
					}
					used = make(map[string]int, len(tc))
					for _, c := range tc {
						used[c.BlockType] = c.Count
					}
					return nil
				})
				if err != nil {
					return err
				}
			}
			return writeBlockTypes(cmd.OutOrStdout(), blocks.DefaultRegistry(), used)
		},
	}
	list.Flags().BoolVar(&counts, "counts", false, "Include how many stored blocks use each type")

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Resolve every renderer and check it matches its block type",
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, _, err := a.assets()
			if err != nil {
				return err
			}
			return a.withDB(cmd.Context(), func(db *sql.DB) error {
				d, err := a.dispatcher(db, assets, nil)
				if err != nil {
					return err
				}
				if err := d.Verify(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d block types verified\n", len(d.Registry().Types()))
				return nil
			})
		},
	}

	cmd.AddCommand(list, verify)
	return cmd
}

// writeBlockTypes prints the registry as a table. used is optional; when set
// a COUNT column is added, and stored types missing from the registry are
// listed as unsupported.
func writeBlockTypes(w io.Writer, r *blocks.Registry, used map[string]int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if used != nil {
		fmt.Fprintln(tw, "TYPE\tLABEL\tRENDERER\tPROPS\tCOUNT")
	} else {
		fmt.Fprintln(tw, "TYPE\tLABEL\tRENDERER\tPROPS")
	}
	for _, def := range r.Definitions() {
		if used != nil {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", def.Type, def.Label, def.RendererName, def.Props, used[def.Type])
			delete(used, def.Type)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.Type, def.Label, def.RendererName, def.Props)
	}
	for _, t := range slices.Sorted(maps.Keys(used)) {
		fmt.Fprintf(tw, "%s\t-\t(unsupported)\t-\t%d\n", t, used[t])
	}
	return tw.Flush()
}

func (a *app) assetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect media and check it against object storage",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List media records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd.Context(), func(db *sql.DB) error {
				media, err := store.NewMediaStore(db).List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tKEY\tSIZE\tDIMENSIONS\tIMAGE")
				for _, m := range media {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", m.ID, m.ObjectKey, m.Size(), m.Dimensions(), m.IsImage())
				}
				return tw.Flush()
			})
		},
	}

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Report image blocks and media whose object is missing from the bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.storageClient()
			if err != nil {
				return err
			}
			if client == nil {
				return errors.New("s3 storage is not configured")
			}
			return a.withDB(cmd.Context(), func(db *sql.DB) error {
				return verifyAssets(cmd.Context(), cmd.OutOrStdout(), client,
					store.NewBlockStore(db), store.NewMediaStore(db))
			})
		},
	}

	cmd.AddCommand(list, verify)
	return cmd
}

// existsChecker reports whether an object key is present in storage.
type existsChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
}

type imageRefLister interface {
	ListImageObjectKeys(ctx context.Context) ([]store.ImageRef, error)
}

type mediaLister interface {
	List(ctx context.Context) ([]models.Media, error)
}

// verifyAssets checks every key referenced by an image block or a media row
// and reports the missing ones. It fails if anything is missing.
func verifyAssets(ctx context.Context, out io.Writer, bucket existsChecker, images imageRefLister, media mediaLister) error {
	refs, err := images.ListImageObjectKeys(ctx)
	if err != nil {
		return err
	}
	rows, err := media.List(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(refs)+len(rows))
	for _, r := range refs {
		keys = append(keys, r.ObjectKey)
	}
	for _, m := range rows {
		keys = append(keys, m.ObjectKey)
	}
	missing, err := missingKeys(ctx, bucket, keys)
	if err != nil {
		return err
	}

	for _, r := range refs {
		if missing[r.ObjectKey] {
			fmt.Fprintf(out, "block %d: missing %s\n", r.BlockID, r.ObjectKey)
		}
	}
	for _, m := range rows {
		if missing[m.ObjectKey] {
			fmt.Fprintf(out, "media %s: missing %s\n", m.ID, m.ObjectKey)
		}
	}
	fmt.Fprintf(out, "%d image blocks and %d media checked, %d objects missing\n", len(refs), len(rows), len(missing))
	if len(missing) > 0 {
		return fmt.Errorf("%d objects missing", len(missing))
	}
	return nil
}

// missingKeys checks each distinct key concurrently and returns the set of
// keys that do not exist.
func missingKeys(ctx context.Context, s existsChecker, keys []string) (map[string]bool, error) {
	distinct := slices.Compact(slices.Sorted(slices.Values(keys)))
	found := make([]bool, len(distinct))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, key := range distinct {
		g.Go(func() error {
			ok, err := s.Exists(ctx, key)
			if err != nil {
				return fmt.Errorf("check %s: %w", key, err)
			}
			found[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	missing := make(map[string]bool)
	for i, key := range distinct {
		if !found[i] {
			missing[key] = true
		}
	}
	return missing, nil
}

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
	}

	flush := &cobra.Command{
		Use:   "flush",
		Short: "Remove every cached page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd.Context(), func(db *sql.DB) error {
				client, err := cache.ConnectValkey(cmd.Context(), a.cfg.ValkeyHost, a.cfg.ValkeyPort, a.cfg.ValkeyPassword)
				if err != nil {
					return fmt.Errorf("connect valkey: %w", err)
				}
				defer client.Close()

				pc := cache.NewPageCache(client, a.cfg.PageCacheTTL).WithLog(store.NewCacheLogStore(db))
				n, err := pc.Flush(cmd.Context())
				if err != nil {
					return err
				}
				slog.Info("page cache flushed", "keys", n)
				fmt.Fprintf(cmd.OutOrStdout(), "%d cached pages removed\n", n)
				return nil
			})
		},
	}

	evict := &cobra.Command{
		Use:   "evict <language> <page|post> <slug>",
		Short: "Remove one cached page or post",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := evictKey(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return a.withDB(cmd.Context(), func(db *sql.DB) error {
				client, err := cache.ConnectValkey(cmd.Context(), a.cfg.ValkeyHost, a.cfg.ValkeyPort, a.cfg.ValkeyPassword)
				if err != nil {
					return fmt.Errorf("connect valkey: %w", err)
				}
				defer client.Close()

				cache.NewPageCache(client, a.cfg.PageCacheTTL).WithLog(store.NewCacheLogStore(db)).Invalidate(cmd.Context(), key)
				fmt.Fprintf(cmd.OutOrStdout(), "evicted %s\n", key)
				return nil
			})
		},
	}

	var limit int
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent cache invalidations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd.Context(), func(db *sql.DB) error {
				entries, err := store.NewCacheLogStore(db).RecentEntries(cmd.Context(), limit)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tSCOPE\tACTION\tKEY")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.InvalidatedAt.Format("2006-01-02 15:04:05"), e.Scope, e.Action, e.Key)
				}
				return tw.Flush()
			})
		},
	}
	logCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")

	cmd.AddCommand(flush, evict, logCmd)
	return cmd
}

// evictKey builds the page cache key for one page or post, rejecting input
// that could never name a cached entry.
func evictKey(languageCode, kind, slugValue string) (string, error) {
	if languageCode == "" || strings.Contains(languageCode, ":") {
		return "", fmt.Errorf("invalid language code %q", languageCode)
	}
	if kind != "page" && kind != "post" {
		return "", fmt.Errorf("kind must be page or post, got %q", kind)
	}
	if !slug.Valid(slugValue) {
		return "", fmt.Errorf("invalid slug %q", slugValue)
	}
	return cache.PageKey(languageCode, kind, slugValue), nil
}
