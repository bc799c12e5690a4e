package utils

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRotatingWriterDefaults(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "logs", "organizer.log")
	writer, err := NewRotatingWriter(RotationConfig{File: file})
	require.NoError(t, err)
	defer writer.Close()

	require.Equal(t, 10, writer.MaxSize)
	require.Equal(t, 5, writer.MaxBackups)
	require.DirExists(t, filepath.Dir(file))

	_, err = writer.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.FileExists(t, file)
}

func TestNewRotatingWriterRequiresFile(t *testing.T) {
	t.Parallel()

	_, err := NewRotatingWriter(RotationConfig{})
	require.Error(t, err)
}

// Not parallel: swaps the global logger output.
func TestSetupLogOutputWritesFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	file := filepath.Join(t.TempDir(), "organizer.log")
	closer, err := SetupLogOutput(RotationConfig{File: file, MaxSizeMB: 1, MaxFiles: 1})
	require.NoError(t, err)

	log.Printf("organizer test line")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "organizer test line")

	closer, err = SetupLogOutput(RotationConfig{})
	require.NoError(t, err)
	require.NoError(t, closer.Close())
}
