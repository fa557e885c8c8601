package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCmd_RequiresCSV(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/attendance")
	cmd := newImportCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"csv"`)
}

func TestImportCmd_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cmd := newImportCmd()
	cmd.SetArgs([]string{"--csv", "attendance.csv"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestImportCmd_Flags(t *testing.T) {
	cmd := newImportCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--keep-districts", "Gulu,Omoro", "--wipe"}))

	districts, err := cmd.Flags().GetStringSlice("keep-districts")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gulu", "Omoro"}, districts)

	wipe, err := cmd.Flags().GetBool("wipe")
	require.NoError(t, err)
	assert.True(t, wipe)
}
