package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrInvalidImageType = errors.New("invalid image type")

// fileTypes maps accepted upload mime types to stored extensions.
var fileTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// Storage writes product images to local disk and serves them back from
// /public/uploads.
type Storage struct {
	Dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{Dir: dir}, nil
}

// Save stores the uploaded image and returns the generated file name.
func (s *Storage) Save(fh *multipart.FileHeader) (string, error) {
	ext, ok := fileTypes[fh.Header.Get("Content-Type")]
	if !ok {
		return "", ErrInvalidImageType
	}

	base := strings.ReplaceAll(fh.Filename, " ", "-")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf("%s-%d.%s", base, time.Now().UnixNano(), ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}
