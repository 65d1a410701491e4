package db

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations, MigrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		body, err := fs.ReadFile(migrations, MigrationsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}

	plans, err := fs.ReadFile(migrations, MigrationsDir+"/00001_create_pricing_plans.sql")
	require.NoError(t, err)
	for _, col := range strings.Split(planColumns, ",") {
		assert.Contains(t, string(plans), strings.TrimSpace(col)+" ", "pricing_plans is missing %s", col)
	}
}

// Money and discount columns hold whatever precision the domain accepted;
// a NUMERIC(p,s) column would round on write.
func TestEmbeddedMigrations_NumericColumnsAreUnconstrained(t *testing.T) {
	constrained := regexp.MustCompile(`(?i)\bNUMERIC\s*\(`)

	entries, err := fs.ReadDir(migrations, MigrationsDir)
	require.NoError(t, err)
	for _, e := range entries {
		body, err := fs.ReadFile(migrations, MigrationsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Empty(t, constrained.FindAllString(string(body), -1), "%s declares a NUMERIC precision", e.Name())
	}
}
