package excel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

func TestDetectShape_Long(t *testing.T) {
	shape, err := DetectShape([]string{"Chapter", "Year", "Active Members"})
	require.NoError(t, err)
	require.Equal(t, ShapeLong, shape)
}

func TestDetectShape_Wide(t *testing.T) {
	shape, err := DetectShape([]string{"Chapter", "2021", "2022", "2023"})
	require.NoError(t, err)
	require.Equal(t, ShapeWide, shape)
}

func TestDetectShape_WidePrecedence(t *testing.T) {
	// both patterns present: wide wins
	shape, err := DetectShape([]string{"Chapter", "Year", "Active Members", "2021"})
	require.NoError(t, err)
	require.Equal(t, ShapeWide, shape)
}

func TestDetectShape_Neither(t *testing.T) {
	_, err := DetectShape([]string{"Name", "Count"})
	require.ErrorIs(t, err, errors.ErrUnknownLayout)
}

func TestWideYearColumns(t *testing.T) {
	cols := WideYearColumns([]string{"Chapter", "2021", "Notes", " 2023 ", "21"})
	require.Equal(t, []YearColumn{{Col: 1, Year: 2021}, {Col: 3, Year: 2023}}, cols)
}
