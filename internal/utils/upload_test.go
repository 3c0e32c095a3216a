package utils

import (
    "bytes"
    "mime/multipart"
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// formFile builds a real multipart.FileHeader the way echo hands it to a
// handler: encode a form, then parse it back.
func formFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
    t.Helper()
    var buf bytes.Buffer
    w := multipart.NewWriter(&buf)
    fw, err := w.CreateFormFile("file", filename)
    require.NoError(t, err)
    _, err = fw.Write(content)
    require.NoError(t, err)
    require.NoError(t, w.Close())

    r := multipart.NewReader(&buf, w.Boundary())
    form, err := r.ReadForm(32 << 20)
    require.NoError(t, err)
    t.Cleanup(func() { form.RemoveAll() })
    return form.File["file"][0]
}

func TestSaveUpload(t *testing.T) {
    dir := t.TempDir()

    name, err := SaveUpload(formFile(t, "receipt.PNG", []byte("img-bytes")), dir)
    require.NoError(t, err)
    assert.Equal(t, ".png", filepath.Ext(name))

    data, err := os.ReadFile(filepath.Join(dir, name))
    require.NoError(t, err)
    assert.Equal(t, "img-bytes", string(data))
}

func TestSaveUploadRejectsExtension(t *testing.T) {
    _, err := SaveUpload(formFile(t, "payload.exe", []byte("nope")), t.TempDir())
    assert.ErrorIs(t, err, ErrUploadType)

    _, err = SaveUpload(formFile(t, "noext", []byte("nope")), t.TempDir())
    assert.ErrorIs(t, err, ErrUploadType)
}

func TestSaveUploadRejectsOversize(t *testing.T) {
    fh := formFile(t, "big.jpg", []byte("x"))
    fh.Size = MaxUploadBytes + 1
    _, err := SaveUpload(fh, t.TempDir())
    assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestRemoveUpload(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "gone.jpg")
    require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

    RemoveUpload(dir, "gone.jpg")
    _, err := os.Stat(path)
    assert.True(t, os.IsNotExist(err))

    // Missing files and traversal attempts are quietly ignored.
    RemoveUpload(dir, "gone.jpg")
    RemoveUpload(dir, "../escape.jpg")
}
