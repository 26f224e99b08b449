package testfeed

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZip(t *testing.T) {
	data := Corridor().Calendar("weekend", "0000011", "20240601", "20240630").MustZip(t)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string)
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		files[f.Name] = string(content)
	}

	assert.Contains(t, files, "agency.txt")
	assert.Contains(t, files["calendar.txt"], "daily,1,1,1,1,1,1,1,20240101,20241231")
	assert.Contains(t, files["calendar.txt"], "weekend,0,0,0,0,0,1,1,20240601,20240630")
	assert.Contains(t, files["stop_times.txt"], "T2,08:02:00,08:02:00,C,3")
}
