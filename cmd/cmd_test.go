package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/cache"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/config"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/relance"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/store"
)

const exportFile = "../internal/store/testdata/export.json"

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	c := &cobra.Command{Use: "test"}
	c.Flags().String("input", exportFile, "")
	addThresholdFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestParseToday(t *testing.T) {
	today, err := parseToday(newTestCommand(t, "--today", "2024-06-30"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), today)

	_, err = parseToday(newTestCommand(t, "--today", "30/06/2024"))
	assert.Error(t, err)

	now, err := parseToday(newTestCommand(t))
	require.NoError(t, err)
	assert.Zero(t, now.Hour())
}

func TestResolveThresholds(t *testing.T) {
	ctx := context.Background()
	src, err := store.OpenFileSource(exportFile)
	require.NoError(t, err)

	got, err := resolveThresholds(ctx, newTestCommand(t), src, &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, relance.Thresholds{T1: 5, T2: 10, T3: 30}, got, "agency settings then defaults")

	got, err = resolveThresholds(ctx, newTestCommand(t, "--t1", "2"), src, &config.Config{RelanceT1: 4, RelanceT3: 45})
	require.NoError(t, err)
	assert.Equal(t, relance.Thresholds{T1: 2, T2: 10, T3: 45}, got, "flags win over environment")
}

func TestOpenSource_FromExport(t *testing.T) {
	ctx := context.Background()
	c := newTestCommand(t)

	src, closeSrc, err := openSource(ctx, c, &config.Config{})
	require.NoError(t, err)
	defer closeSrc()

	contracts, err := src.Contracts(ctx)
	require.NoError(t, err)
	assert.Len(t, contracts, 3)
}

func TestOpenSource_RequiresDatabase(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	c.Flags().String("input", "", "")

	_, _, err := openSource(context.Background(), c, &config.Config{})
	assert.Error(t, err)
}

func TestBuildRelances(t *testing.T) {
	ctx := context.Background()
	src, err := store.OpenFileSource(exportFile)
	require.NoError(t, err)

	today := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	list, thresholds, err := buildRelances(ctx, newTestCommand(t), src, &config.Config{}, today)
	require.NoError(t, err)

	assert.Equal(t, relance.Thresholds{T1: 5, T2: 10, T3: 30}, thresholds)
	assert.Empty(t, list.Candidates, "both dated contracts have payments")
	assert.Equal(t, []string{"11111111-2222-4333-8444-555555555555"}, list.Skipped)
}

func TestBuildDelays(t *testing.T) {
	src, err := store.OpenFileSource(exportFile)
	require.NoError(t, err)

	stats, err := buildDelays(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Global.Count)
	require.NotNil(t, stats.Global.Mean)
	assert.Equal(t, 15.0, *stats.Global.Mean)
	require.Len(t, stats.ByMonth, 1)
	assert.Equal(t, "2024-01", stats.ByMonth[0].MonthKey)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Garage", truncate("Garage", 10))
	assert.Equal(t, "Boulangeri…", truncate("Boulangerie Martin", 11))
}

func TestAppConfig(t *testing.T) {
	prev := loadedConfig
	t.Cleanup(func() { loadedConfig = prev })

	loadedConfig = nil
	assert.Equal(t, config.Default(), appConfig())

	loaded := &config.Config{DatabaseURL: "postgres://crm@db/crm", DatabaseMaxConns: 2}
	loadedConfig = loaded
	assert.Same(t, loaded, appConfig())
}

func TestResolveThresholds_RefreshSettings(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	file, err := store.OpenFileSource(exportFile)
	require.NoError(t, err)
	src := cache.NewSettingsCache(file, client, time.Hour)

	// settings cached before the agency changed them
	require.NoError(t, mr.Set(cache.SettingsKey, `{"relance_days_1":9,"relance_days_2":18,"relance_days_3":40}`))

	got, err := resolveThresholds(ctx, newTestCommand(t), src, &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, relance.Thresholds{T1: 9, T2: 18, T3: 40}, got)

	got, err = resolveThresholds(ctx, newTestCommand(t, "--refresh-settings"), src, &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, relance.Thresholds{T1: 5, T2: 10, T3: 30}, got)

	cached, err := mr.Get(cache.SettingsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"relance_days_1":5,"relance_days_2":10,"relance_days_3":0}`, cached)
}
