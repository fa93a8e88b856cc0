package splitter

import (
	"errors"
	"path/filepath"
	"testing"

	"sheet-split/internal/source"
	"sheet-split/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestValidateAcceptsFaithfulCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeListing(t, dir, [][]string{{"1", "Alice", ""}, {"2", "Bob", ""}})
	ds, err := source.Open(src, "")
	require.NoError(t, err)

	dst := filepath.Join(dir, "copy.xlsx")
	require.NoError(t, utils.CopyFile(src, dst))

	assert.NoError(t, Validate(dst, ds))
}

func TestValidateRejectsAllHidden(t *testing.T) {
	dir := t.TempDir()
	src := writeListing(t, dir, [][]string{{"1", "Alice", ""}, {"2", "Bob", ""}})
	ds, err := source.Open(src, "")
	require.NoError(t, err)

	dst := filepath.Join(dir, "hidden.xlsx")
	require.NoError(t, utils.CopyFile(src, dst))
	f, err := excelize.OpenFile(dst)
	require.NoError(t, err)
	require.NoError(t, f.SetRowVisible(testSheet, 2, false))
	require.NoError(t, f.SetRowVisible(testSheet, 3, false))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	err = Validate(dst, ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputValidation))
	assert.Contains(t, err.Error(), "hidden")
}

func TestValidateRejectsChangedShape(t *testing.T) {
	dir := t.TempDir()
	src := writeListing(t, dir, [][]string{{"1", "Alice", ""}, {"2", "Bob", ""}})
	ds, err := source.Open(src, "")
	require.NoError(t, err)

	dst := filepath.Join(dir, "changed.xlsx")
	require.NoError(t, utils.CopyFile(src, dst))
	f, err := excelize.OpenFile(dst)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(testSheet, "A4", "3"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	err = Validate(dst, ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row count")
}

func TestValidateRejectsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	src := writeListing(t, dir, [][]string{{"1", "Alice", ""}})
	ds, err := source.Open(src, "")
	require.NoError(t, err)

	err = Validate(filepath.Join(dir, "missing.xlsx"), ds)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Reason, "cannot reopen")
}

func TestValidateRejectsHiddenHeader(t *testing.T) {
	dir := t.TempDir()
	src := writeListing(t, dir, [][]string{{"1", "Alice", ""}, {"2", "Bob", ""}})
	ds, err := source.Open(src, "")
	require.NoError(t, err)

	dst := filepath.Join(dir, "header.xlsx")
	require.NoError(t, utils.CopyFile(src, dst))
	hideRow(t, dst, 1)

	err = Validate(dst, ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputValidation))
	assert.Contains(t, err.Error(), "header row is hidden")
}
