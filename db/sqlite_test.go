package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesAllTables(t *testing.T) {
	ledger := newTestDB(t)

	rows, err := ledger.ExecuteCustomQuery(
		"SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, row := range rows {
		names[row["name"].(string)] = true
	}

	for _, table := range ledgerTables {
		assert.True(t, names[table], "table %s not found", table)
	}
}

func TestNew_ReopenPreservesData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	ledger, err := New(dbPath)
	require.NoError(t, err)
	appID := createSampleApplication(t, ledger)
	require.NoError(t, ledger.Close())

	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	app, err := reopened.GetApplication(appID)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "Squarespace", app.Company)

	apps, err := reopened.GetApplications(ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, apps, 1, "re-open must not duplicate or clear data")
}

func TestNew_UnwritablePath(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0500))
	defer os.Chmod(dir, 0755)

	_, err := New(filepath.Join(dir, "nested", "aply.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestGetDatabaseSize(t *testing.T) {
	ledger := newTestDB(t)

	appID := createSampleApplication(t, ledger)
	_, err := ledger.SaveContentVersion(appID, "resume", sampleContent(), ContentVersionOptions{})
	require.NoError(t, err)

	size, err := ledger.GetDatabaseSize()
	require.NoError(t, err)

	assert.Greater(t, size.SizeBytes, int64(0))
	assert.Len(t, size.TableCounts, len(ledgerTables))
	assert.Equal(t, int64(1), size.TableCounts["applications"])
	assert.Equal(t, int64(1), size.TableCounts["content_versions"])
	assert.Equal(t, int64(1), size.TableCounts["application_tracking"])
	assert.Equal(t, int64(0), size.TableCounts["llm_usage"])
}

func TestBackup(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	backupPath := filepath.Join(t.TempDir(), "backups", "aply.db")
	require.NoError(t, ledger.Backup(backupPath))

	restored, err := New(backupPath)
	require.NoError(t, err)
	defer restored.Close()

	app, err := restored.GetApplication(appID)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "Squarespace", app.Company)
}

func TestVacuum(t *testing.T) {
	ledger := newTestDB(t)
	createSampleApplication(t, ledger)
	assert.NoError(t, ledger.Vacuum())
}

func TestExecuteCustomQuery(t *testing.T) {
	ledger := newTestDB(t)
	createSampleApplication(t, ledger)

	rows, err := ledger.ExecuteCustomQuery(
		"SELECT company, credibility_score FROM applications WHERE country = ?", "Portugal")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Squarespace", rows[0]["company"])
	assert.Equal(t, int64(8), rows[0]["credibility_score"])
}
