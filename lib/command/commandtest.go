package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestEnvironment(t *testing.T) (string, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "refmatch")
	if err != nil {
		t.Fatal(err)
	}
	outStream, errStream := new(bytes.Buffer), new(bytes.Buffer)

	setupRepo(t, tmpDir)

	return tmpDir, outStream, errStream
}

func setupRepo(t *testing.T, tmpDir string) {
	t.Helper()
	writeFile(t, tmpDir, ".git/HEAD", "ref: refs/heads/main\n")
	if err := os.MkdirAll(filepath.Join(tmpDir, ".git", "refs", "heads"), 0755); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, name, content string) {
	t.Helper()

	dir := filepath.Join(path, filepath.Dir(name))
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		t.Fatalf("Failed to create directory: %s", err)
	}
	err = os.WriteFile(filepath.Join(path, name), []byte(content), 0644)
	if err != nil {
		t.Fatalf("Failed to write file: %s", err)
	}
}

func writeRef(t *testing.T, path, name, hex string) {
	t.Helper()
	writeFile(t, path, filepath.Join(".git", filepath.FromSlash(name)), hex+"\n")
}

func addRemote(t *testing.T, tmpDir string, args ...string) {
	t.Helper()
	cmd, _ := NewRemote(tmpDir, append([]string{"add"}, args...), RemoteOption{}, new(bytes.Buffer), new(bytes.Buffer))
	if status := cmd.Run(); status != 0 {
		t.Fatalf("remote add %s: exit %d", strings.Join(args, " "), status)
	}
}
