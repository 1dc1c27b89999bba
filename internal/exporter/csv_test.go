package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/config"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{
		ReportsDir: filepath.Join(tempDir, "reports"),
	}, nil)
	return writer, tempDir
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths, nil)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
	assert.NotNil(t, writer.logger)
}

func TestCSVWriter_WriteFile(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		fileName string
		options  WriteOptions
		wantPath string
		wantBOM  bool
	}{
		{
			name:     "relative name goes to reports",
			fileName: "run_rate_export_2024-06-15.csv",
			wantPath: filepath.Join(tempDir, "reports", "run_rate_export_2024-06-15.csv"),
		},
		{
			name:     "with BOM",
			fileName: "bom.csv",
			options:  WriteOptions{BOMPrefix: true},
			wantPath: filepath.Join(tempDir, "reports", "bom.csv"),
			wantBOM:  true,
		},
		{
			name:     "absolute path kept",
			fileName: filepath.Join(tempDir, "elsewhere", "out.csv"),
			wantPath: filepath.Join(tempDir, "elsewhere", "out.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteFile(tt.fileName, []byte("a,b\n1,2"), tt.options)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			if tt.wantBOM {
				require.True(t, len(content) >= 3)
				assert.Equal(t, utf8BOM, content[:3])
				content = content[3:]
			}
			assert.Equal(t, "a,b\n1,2", string(content))
		})
	}
}

func TestCSVWriter_WriteFileOverwrites(t *testing.T) {
	writer, _ := setupTestEnv(t)

	_, err := writer.WriteFile("same.csv", []byte("first,longer,content"), WriteOptions{})
	require.NoError(t, err)
	path, err := writer.WriteFile("same.csv", []byte("second"), WriteOptions{})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}
