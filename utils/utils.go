package utils

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9_.\-]+`)

// attempts to remove dir and optionaly its content. Can ignore error, for example if folder does not exist.
func RemoveIO(dir string, recursive, ignoreError bool) error {
	var err error
	if recursive {
		err = os.RemoveAll(dir)
	} else {
		err = os.Remove(dir)
	}

	if ignoreError {
		return nil
	}
	return err
}

// CreateTarArchive streams a tar archive of the files under srcPath. Entry names are relative to srcPath.
func CreateTarArchive(srcPath string) (io.ReadCloser, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return nil, err
	}

	pipeReader, pipeWriter := io.Pipe()

	go func() {
		tarWriter := tar.NewWriter(pipeWriter)

		err := filepath.Walk(srcPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			relPath, err := filepath.Rel(srcPath, path)
			if err != nil {
				return err
			}
			if relPath == "." {
				return nil
			}

			header, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			header.Name = filepath.ToSlash(relPath)

			if err := tarWriter.WriteHeader(header); err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			_, err = io.Copy(tarWriter, file)
			return err
		})

		if err == nil {
			err = tarWriter.Close()
		}
		pipeWriter.CloseWithError(err)
	}()

	return pipeReader, nil
}

// SanitizeFileName turns a display name into a file name safe for a Content-Disposition header.
// Runs of unsafe characters collapse to a single underscore.
func SanitizeFileName(name string) string {
	cleaned := unsafeFileNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "model"
	}
	return cleaned
}

// WithExtension appends ext to name unless name already ends with it.
func WithExtension(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		return name
	}
	return name + ext
}
