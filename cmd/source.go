package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/cache"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/config"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/relance"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/store"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/services"
)

// openSource returns the data source selected by the --input flag, falling
// back to the backend database. The returned close function must be called
// once the command is done.
func openSource(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (services.Source, func(), error) {
	log := logger.WithComponent("source")

	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		log.Info().Str("file", input).Msg("Reading backend export")

		src, err := store.OpenFileSource(input)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read export: %w", err)
		}
		return src, func() {}, nil
	}

	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}

	pg, err := store.NewPostgresSource(ctx, store.PostgresConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: int32(cfg.DatabaseMaxConns),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.RedisAddr == "" {
		return pg, pg.Close, nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Settings cache disabled")
		return pg, pg.Close, nil
	}

	closeAll := func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
		pg.Close()
	}
	return cache.NewSettingsCache(pg, client, cfg.SettingsCacheTTL), closeAll, nil
}

// settingsInvalidator is implemented by sources that cache the agency settings
type settingsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// resolveThresholds layers the reminder thresholds: agency settings first,
// then environment overrides, then --t1/--t2/--t3, then the defaults.
func resolveThresholds(ctx context.Context, cmd *cobra.Command, src services.Source, cfg *config.Config) (relance.Thresholds, error) {
	if refresh, _ := cmd.Flags().GetBool("refresh-settings"); refresh {
		if inv, ok := src.(settingsInvalidator); ok {
			if err := inv.Invalidate(ctx); err != nil {
				return relance.Thresholds{}, fmt.Errorf("failed to clear cached settings: %w", err)
			}
			log := logger.WithComponent("source")
			log.Info().Msg("Cached agency settings cleared")
		}
	}

	settings, err := src.Settings(ctx)
	if err != nil {
		return relance.Thresholds{}, fmt.Errorf("failed to read agency settings: %w", err)
	}

	t1, _ := cmd.Flags().GetInt("t1")
	t2, _ := cmd.Flags().GetInt("t2")
	t3, _ := cmd.Flags().GetInt("t3")

	return relance.FromSettings(settings).
		Override(cfg.RelanceOverrides()).
		Override(relance.Thresholds{T1: t1, T2: t2, T3: t3}).
		WithDefaults(), nil
}

func addThresholdFlags(cmd *cobra.Command) {
	cmd.Flags().String("today", "", "Reference date (format: YYYY-MM-DD, default: today)")
	cmd.Flags().Int("t1", 0, "Days before the first reminder level (default: agency setting, then 7)")
	cmd.Flags().Int("t2", 0, "Days before the second reminder level (default: agency setting, then 14)")
	cmd.Flags().Int("t3", 0, "Days of the third reminder level (default: agency setting, then 30)")
	cmd.Flags().Bool("refresh-settings", false, "Reload the agency settings instead of using the cached copy")
}

// parseToday reads the --today flag, defaulting to the current date
func parseToday(cmd *cobra.Command) (time.Time, error) {
	todayStr, _ := cmd.Flags().GetString("today")
	if todayStr == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	today, err := time.Parse("2006-01-02", todayStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format. Use YYYY-MM-DD: %w", err)
	}
	return today, nil
}
