package excel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

func TestReadCSV(t *testing.T) {
	data := []byte("Full Name,Email\nJohn Smith,john@example.com\n,,\nJane Doe,jane@example.com\n")
	headers, rows, err := ReadCSV(data)
	require.NoError(t, err)
	require.Equal(t, []string{"Full Name", "Email"}, headers)
	require.Len(t, rows, 2) // blank row dropped
	require.Equal(t, "John Smith", rows[0]["Full Name"])
	require.Equal(t, "jane@example.com", rows[1]["Email"])
}

func TestReadCSV_Latin1Fallback(t *testing.T) {
	// "José" encoded as Latin-1: 0xE9 is invalid UTF-8 on its own
	data := []byte("Full Name,Email\nJos\xe9 Garc\xeda,jose@example.com\n")
	_, rows, err := ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "José García", rows[0]["Full Name"])
}

func TestReadCSV_Empty(t *testing.T) {
	_, _, err := ReadCSV([]byte(""))
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInvalidCSV))
}

func TestField(t *testing.T) {
	row := map[string]string{"Member #": "123", "Member Number": ""}
	require.Equal(t, "123", Field(row, "Member Number", "Member #"))
	require.Equal(t, "", Field(row, "Missing"))
}
