package utils_test

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/mini-maxit/modelboard/utils"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "RandomForest", want: "RandomForest"},
		{name: "keeps dots and dashes", in: "rf-v2.final", want: "rf-v2.final"},
		{name: "spaces collapse", in: "My   Model", want: "My_Model"},
		{name: "path traversal", in: "../../etc/passwd", want: "etc_passwd"},
		{name: "shell characters", in: "model; rm -rf /", want: "model_rm_-rf"},
		{name: "quotes", in: `a"b'c`, want: "a_b_c"},
		{name: "only unsafe", in: "???", want: "model"},
		{name: "empty", in: "", want: "model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utils.SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RandomForest", "RandomForest.py"},
		{"model.py", "model.py"},
		{"MODEL.PY", "MODEL.PY"},
		{"model.pyc", "model.pyc.py"},
	}

	for _, tt := range tests {
		if got := utils.WithExtension(tt.in, ".py"); got != tt.want {
			t.Errorf("WithExtension(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateTarArchive(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "harness.py"), []byte("print(1)"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "submission.py"), []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	reader, err := utils.CreateTarArchive(dir)
	if err != nil {
		t.Fatalf("CreateTarArchive returned error: %v", err)
	}
	defer reader.Close()

	tr := tar.NewReader(reader)
	var names []string
	contents := map[string]string{}
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read archive: %v", err)
		}
		names = append(names, header.Name)
		if header.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			if err != nil {
				t.Fatalf("failed to read entry: %v", err)
			}
			contents[header.Name] = string(data)
		}
	}

	sort.Strings(names)
	want := []string{"harness.py", "sub", "sub/submission.py"}
	if len(names) != len(want) {
		t.Fatalf("expected entries %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected entries %v, got %v", want, names)
		}
	}
	if contents["sub/submission.py"] != "x = 1" {
		t.Fatalf("unexpected submission content %q", contents["sub/submission.py"])
	}
}

func TestCreateTarArchive_MissingDir(t *testing.T) {
	if _, err := utils.CreateTarArchive(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
