package utils

import (
    "errors"
    "io"
    "mime/multipart"
    "os"
    "path/filepath"
    "strings"

    "github.com/google/uuid"
)

// MaxUploadBytes caps individual file uploads at 5 MB.
const MaxUploadBytes = 5 << 20

// ErrUploadTooLarge is returned when an uploaded file exceeds MaxUploadBytes.
var ErrUploadTooLarge = errors.New("file exceeds the 5MB size limit")

// ErrUploadType is returned when an uploaded file has a disallowed extension.
var ErrUploadType = errors.New("unsupported file type")

var allowedUploadExt = map[string]bool{
    ".jpg":  true,
    ".jpeg": true,
    ".png":  true,
    ".gif":  true,
    ".pdf":  true,
}

// SaveUpload stores a multipart file under dir with a uuid filename,
// keeping the original extension.  It returns the stored filename.
// The extension whitelist covers images plus PDF payment receipts.
func SaveUpload(fh *multipart.FileHeader, dir string) (string, error) {
    if fh.Size > MaxUploadBytes {
        return "", ErrUploadTooLarge
    }
    ext := strings.ToLower(filepath.Ext(fh.Filename))
    if !allowedUploadExt[ext] {
        return "", ErrUploadType
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return "", err
    }
    name := uuid.NewString() + ext
    src, err := fh.Open()
    if err != nil {
        return "", err
    }
    defer src.Close()
    dst, err := os.Create(filepath.Join(dir, name))
    if err != nil {
        return "", err
    }
    defer dst.Close()
    if _, err := io.Copy(dst, src); err != nil {
        os.Remove(dst.Name())
        return "", err
    }
    return name, nil
}

// RemoveUpload deletes a stored upload by filename.  Missing files are
// not an error; cleanup paths call this best effort.
func RemoveUpload(dir, name string) {
    if name == "" {
        return
    }
    _ = os.Remove(filepath.Join(dir, filepath.Base(name)))
}
