package archive

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/src/notes/a.txt", []byte("alpha"), 0644))
	require.NoError(t, afero.WriteFile(memFs, "/src/notes/sub/b.txt", []byte("beta"), 0600))
	a := New(memFs)

	text, err := a.Compress("/src/notes", "/src/notes.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Successfully compressed 4 entries into notes.tar.gz", text)

	require.NoError(t, memFs.MkdirAll("/dest", 0755))
	text, err = a.Decompress("/src/notes.tar.gz", "/dest")
	require.NoError(t, err)
	assert.Equal(t, "Successfully decompressed 4 entries from notes.tar.gz", text)

	contents, err := afero.ReadFile(memFs, "/dest/notes/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(contents))

	contents, err = afero.ReadFile(memFs, "/dest/notes/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "beta", string(contents))
}

func TestCompress_singleFile(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/home/a.txt", []byte("alpha"), 0644))
	a := New(memFs)

	_, err := a.Compress("/home/a.txt", "/home/a.tar.gz")
	require.NoError(t, err)

	_, err = a.Decompress("/home/a.tar.gz", "/out")
	require.NoError(t, err)

	contents, err := afero.ReadFile(memFs, "/out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(contents))
}

func TestCompress_destinationInsideTree(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/src/a.txt", []byte("alpha"), 0644))
	a := New(memFs)

	text, err := a.Compress("/src", "/src/src.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Successfully compressed 2 entries into src.tar.gz", text)

	text, err = a.Decompress("/src/src.tar.gz", "/dest")
	require.NoError(t, err)
	assert.Equal(t, "Successfully decompressed 2 entries from src.tar.gz", text)

	exists, err := afero.Exists(memFs, "/dest/src/src.tar.gz")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCompress_missing(t *testing.T) {
	a := New(afero.NewMemMapFs())

	_, err := a.Compress("/nope.txt", "/nope.tar.gz")
	assert.Error(t, err)
}

func TestDecompress_notGzip(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/plain.txt", []byte("not an archive"), 0644))

	_, err := New(memFs).Decompress("/plain.txt", "/")
	assert.ErrorContains(t, err, "couldn't unzip")
}

func TestDecompress_unsafePath(t *testing.T) {
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	tw := tar.NewWriter(gz)
	contents := []byte("gotcha")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../../etc/passwd",
		Typeflag: tar.TypeReg,
		Mode:     0644,
		Size:     int64(len(contents)),
	}))
	_, err := tw.Write(contents)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/evil.tar.gz", buf.Bytes(), 0644))

	_, err = New(memFs).Decompress("/evil.tar.gz", "/home/tiks")
	assert.ErrorIs(t, err, ErrUnsafePath)

	exists, _ := afero.Exists(memFs, "/etc/passwd")
	assert.False(t, exists)
}

func TestExtractPath(t *testing.T) {
	cases := map[string]string{
		"a.txt":       "/dest/a.txt",
		"/abs/b.txt":  "/dest/abs/b.txt",
		"dir/":        "/dest/dir",
		"./x/./y.txt": "/dest/x/y.txt",
	}

	for name, expected := range cases {
		t.Run(name, func(t *testing.T) {
			actual, err := extractPath("/dest", name)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		})
	}
}
