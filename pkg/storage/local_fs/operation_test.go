package local_fs

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLocalFSSendFile(t *testing.T) {
	tempDir := t.TempDir()

	client, err := NewClient(&Config{SavePath: tempDir})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	filename := "vault/Daily/2025-03-14.md"
	content := "# Friday\n"
	modTime := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	savedPath, err := client.SendFile(filename, strings.NewReader(content), "text/markdown", modTime)
	if err != nil {
		t.Fatalf("SendFile: %v", err)
	}

	savedContent, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(savedContent) != content {
		t.Errorf("content = %q, want %q", savedContent, content)
	}

	fileInfo, err := os.Stat(savedPath)
	if err != nil {
		t.Fatalf("stat saved file: %v", err)
	}
	// 文件系统时间精度有差异, 允许一秒以内偏差
	if diff := fileInfo.ModTime().Sub(modTime); diff < -time.Second || diff > time.Second {
		t.Errorf("mtime = %v, want %v (diff %v)", fileInfo.ModTime(), modTime, diff)
	}
}

func TestLocalFSSendContent(t *testing.T) {
	tempDir := t.TempDir()

	client, err := NewClient(&Config{SavePath: tempDir})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	// 带子目录, SendContent 需要自行建目录
	filename := "backup/2025-03/notes.zip"
	content := []byte("archive bytes")
	modTime := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	savedPath, err := client.SendContent(filename, content, modTime)
	if err != nil {
		t.Fatalf("SendContent: %v", err)
	}

	savedContent, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if !bytes.Equal(savedContent, content) {
		t.Errorf("content = %q, want %q", savedContent, content)
	}

	fileInfo, err := os.Stat(savedPath)
	if err != nil {
		t.Fatalf("stat saved file: %v", err)
	}
	if diff := fileInfo.ModTime().Sub(modTime); diff < -time.Second || diff > time.Second {
		t.Errorf("mtime = %v, want %v (diff %v)", fileInfo.ModTime(), modTime, diff)
	}
}
