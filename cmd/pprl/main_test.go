package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/viant/pprl/dataset"
	"github.com/viant/pprl/record"
)

func exec(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := exec(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: pprl")

	code, _, stderr = exec(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, stderr = exec(t, "link")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "error: --data is required")

	code, _, _ = exec(t, "link", "--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, _ = exec(t, "generate", "--size", "0")
	assert.Equal(t, 2, code)

	code, _, _ = exec(t, "help")
	assert.Equal(t, 0, code)
}

func TestRun_GenerateLinkEvaluate(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "records.csv")
	matches := filepath.Join(dir, "matches.csv")

	code, _, stderr := exec(t, "generate", "--out", data, "--size", "30", "--overlap", "0.5", "--error-rate", "0", "--seed", "5")
	require.Equal(t, 0, code, stderr)
	raw, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(raw)), "\n"), 60)

	code, _, stderr = exec(t, "link", "--data", data, "--out", matches, "--mode", "stable-marriage",
		"--storage", filepath.Join(dir, "encodings"), "--evaluate")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "run_id=")
	out, err := os.ReadFile(matches)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "globalID_A,globalID_B\n"))

	code, stdout, stderr := exec(t, "evaluate", "--data", data, "--matches", matches)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "true_positives\t15\n")
	assert.Contains(t, stdout, "recall\t1.0000\n")
}

func TestRun_LinkToSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "records.csv")
	book := filepath.Join(dir, "matches.xlsx")

	code, _, stderr := exec(t, "generate", "--out", data, "--size", "10", "--error-rate", "0", "--seed", "9", "--header")
	require.Equal(t, 0, code, stderr)
	code, _, stderr = exec(t, "link", "--data", data, "--header", "--out", book, "--log-format", "json",
		"--storage", filepath.Join(dir, "encodings.db"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, `"run_id":`)

	f, err := excelize.OpenFile(book)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("matches")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"globalID_A", "globalID_B", "similarity"}, rows[0])
}

func TestRun_LinkErrors(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "records.csv")
	require.NoError(t, os.WriteFile(data, []byte("A,1,John\n"), 0o644))

	code, _, stderr := exec(t, "link", "--data", data, "--out", filepath.Join(dir, "m.csv"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "error: ")

	code, _, stderr = exec(t, "link", "--data", data, "--bit-length", "0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config error")
}

func TestRun_Similarity(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "records.csv")
	code, _, stderr := exec(t, "generate", "--out", data, "--size", "10", "--overlap", "1", "--error-rate", "0", "--seed", "3")
	require.Equal(t, 0, code, stderr)

	in, err := os.Open(data)
	require.NoError(t, err)
	records, err := dataset.ReadCSV(in, record.DefaultSchema(), dataset.ReadOptions{})
	in.Close()
	require.NoError(t, err)
	id := records[0].Identifier()
	other := records[1].Identifier()

	db := filepath.Join(dir, "encodings.db")
	code, stdout, stderr := exec(t, "similarity", "--data", data, "--a", id, "--b", id, "--storage", db, "--similarity", "dice")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "1.000000\n", stdout)
	_, err = os.Stat(db)
	require.NoError(t, err)

	code, stdout, stderr = exec(t, "similarity", "--data", data, "--a", id, "--b", other)
	require.Equal(t, 0, code, stderr)
	sim, err := strconv.ParseFloat(strings.TrimSpace(stdout), 64)
	require.NoError(t, err)
	assert.Less(t, sim, 1.0)

	code, _, stderr = exec(t, "similarity", "--data", data, "--a", id, "--b", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not found")

	code, _, _ = exec(t, "similarity", "--data", data, "--a", id)
	assert.Equal(t, 2, code)
}

func TestRun_LinkStrategies(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "records.csv")
	code, _, stderr := exec(t, "generate", "--out", data, "--size", "10", "--error-rate", "0", "--seed", "4")
	require.Equal(t, 0, code, stderr)

	code, _, stderr = exec(t, "link", "--data", data, "--out", "-", "--strategies", "first-last-name,last-name-year")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "blockingStrategies=")

	code, _, stderr = exec(t, "link", "--data", data, "--out", "-", "--strategies", "zip-code")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "zip-code")
}
