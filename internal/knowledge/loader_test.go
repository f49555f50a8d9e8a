package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeParams struct {
	val  string
	err  error
	name string
}

func (f *fakeParams) GetParameter(_ context.Context, name string) (string, error) {
	f.name = name
	return f.val, f.err
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank_info.txt")
	require.NoError(t, os.WriteFile(path, []byte("Bank soat 9:00 dan 18:00 gacha ishlaydi.\n"), 0o600))

	text, err := Load(context.Background(), Source{Path: path})
	require.NoError(t, err)
	require.Equal(t, "Bank soat 9:00 dan 18:00 gacha ishlaydi.\n", text)
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	text, err := Load(context.Background(), Source{Path: filepath.Join(t.TempDir(), "nope.txt")})
	require.NoError(t, err)
	require.Equal(t, Fallback, text)
}

func TestLoad_EmptySources(t *testing.T) {
	text, err := Load(context.Background(), Source{})
	require.NoError(t, err)
	require.Equal(t, Fallback, text)

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))
	text, err = Load(context.Background(), Source{Path: path})
	require.NoError(t, err)
	require.Equal(t, Fallback, text)
}

func TestLoad_FromParamStoreWins(t *testing.T) {
	p := &fakeParams{val: "SSM matni"}
	text, err := Load(context.Background(), Source{Params: p, Param: "/credit-agent/knowledge", Path: "ignored.txt"})
	require.NoError(t, err)
	require.Equal(t, "SSM matni", text)
	require.Equal(t, "/credit-agent/knowledge", p.name)
}

func TestLoad_ParamStoreError(t *testing.T) {
	_, err := Load(context.Background(), Source{Params: &fakeParams{err: errors.New("denied")}, Param: "/x/knowledge"})
	require.ErrorContains(t, err, "denied")
}

func TestLoad_PathIsDirectory(t *testing.T) {
	_, err := Load(context.Background(), Source{Path: t.TempDir()})
	require.Error(t, err)
}
