package encoder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seevideo/see-video-studio/common/config"
)

// 1x1 PNG
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func setupUploadDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := config.UploadDir
	config.UploadDir = dir
	t.Cleanup(func() { config.UploadDir = old })
	return dir
}

func TestEncodeImageRefLocal(t *testing.T) {
	dir := setupUploadDir(t)
	if err := os.WriteFile(filepath.Join(dir, "frame.png"), tinyPNG, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := EncodeImageRef("/uploads/frame.png")
	if err != nil {
		t.Fatalf("EncodeImageRef() error = %v", err)
	}
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("EncodeImageRef() = %.40s..., want data:image/png;base64 prefix", got)
	}
}

func TestEncodeImageRefRoundTrip(t *testing.T) {
	dir := setupUploadDir(t)
	if err := os.WriteFile(filepath.Join(dir, "frame.png"), tinyPNG, 0644); err != nil {
		t.Fatal(err)
	}

	first, err := EncodeImageRef("/uploads/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	// 已编码的结果再过一遍不会被二次编码
	second, err := EncodeImageRef(first)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Error("data URI was re-encoded on second pass")
	}
}

func TestEncodeImageRefRemotePassThrough(t *testing.T) {
	url := "https://cdn.example.com/cover.jpg"
	got, err := EncodeImageRef(url)
	if err != nil {
		t.Fatalf("EncodeImageRef() error = %v", err)
	}
	if got != url {
		t.Errorf("EncodeImageRef(%s) = %s, want unchanged", url, got)
	}
}

func TestEncodeImageRefMissingFile(t *testing.T) {
	setupUploadDir(t)
	_, err := EncodeImageRef("/uploads/gone.png")
	if err == nil {
		t.Error("expected error for missing local file")
	}
}

func TestEncodeImageRefTraversal(t *testing.T) {
	dir := setupUploadDir(t)
	if err := os.WriteFile(filepath.Join(dir, "safe.png"), tinyPNG, 0644); err != nil {
		t.Fatal(err)
	}
	// 目录穿越只会取文件名部分
	got, err := EncodeImageRef("/uploads/../../etc/safe.png")
	if err != nil {
		t.Fatalf("EncodeImageRef() error = %v", err)
	}
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Error("traversal ref did not resolve to upload dir entry")
	}
}

func TestEncodeImageRefsOrderPreserved(t *testing.T) {
	dir := setupUploadDir(t)
	if err := os.WriteFile(filepath.Join(dir, "a.png"), tinyPNG, 0644); err != nil {
		t.Fatal(err)
	}

	refs := []string{
		"https://cdn.example.com/1.jpg",
		"/uploads/a.png",
		"https://cdn.example.com/2.jpg",
	}
	got, err := EncodeImageRefs(refs)
	if err != nil {
		t.Fatalf("EncodeImageRefs() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] != refs[0] || got[2] != refs[2] {
		t.Error("remote refs should pass through in place")
	}
	if !strings.HasPrefix(got[1], "data:image/png;base64,") {
		t.Error("local ref at index 1 was not encoded")
	}
}

func TestEncodeImageRefsAbortOnFailure(t *testing.T) {
	setupUploadDir(t)
	refs := []string{
		"https://cdn.example.com/1.jpg",
		"/uploads/missing.png",
	}
	got, err := EncodeImageRefs(refs)
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Error("partial result returned on failure")
	}
}
