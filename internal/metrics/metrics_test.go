package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	before := testutil.ToFloat64(FilesScanned.WithLabelValues("poked"))
	FilesScanned.WithLabelValues("poked").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(FilesScanned.WithLabelValues("poked")))

	path := filepath.Join(t.TempDir(), "fbq.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fbq_files_scanned_total{route="poked"}`)
	assert.Contains(t, string(data), "fbq_files_without_timestamps_total")
}
