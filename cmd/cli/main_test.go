package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"roster/internal/importer"
	"roster/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	data, err := testkit.BuildXLSX(
		testkit.Sheet{Name: "July", Rows: [][]interface{}{testkit.HeaderRow(), testkit.AcmeRow()}},
		testkit.Sheet{Name: "Blank", Rows: [][]interface{}{testkit.HeaderRow()}},
	)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSheets(t *testing.T) {
	out, err := execute(t, "sheets", writeWorkbook(t))

	require.NoError(t, err)
	assert.Contains(t, out, "SHEET")
	assert.Regexp(t, `July\s+2`, out)
	assert.Regexp(t, `Blank\s+1`, out)
}

func TestPreview(t *testing.T) {
	path := writeWorkbook(t)

	out, err := execute(t, "preview", path)
	require.NoError(t, err)
	var result importer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "July", result.Sheet)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, "555-123-4567", result.Records[0].Phone)

	_, err = execute(t, "preview", path, "--sheet", "Blank")
	assert.Error(t, err)
}

func TestImportExportToday(t *testing.T) {
	t.Setenv("STORE_BACKEND", "badger")
	t.Setenv("BADGER_DIR", t.TempDir())
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("SEED_FILE", "")
	path := writeWorkbook(t)

	out, err := execute(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Imported 1 customers from "July"`)

	out, err = execute(t, "export")
	require.NoError(t, err)
	var exported []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "Acme Co", exported[0]["name"])

	out, err = execute(t, "export", "--format", "ics")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")

	_, err = execute(t, "export", "--format", "xml")
	assert.Error(t, err)

	out, err = execute(t, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "scheduled")
}
