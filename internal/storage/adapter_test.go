package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropit/internal/platform/blob"
)

func failingBlobServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		http.Error(w, `{"error":{"code":"internal_server_error"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAdapterWithoutRemoteUsesLocal(t *testing.T) {
	local := newLocal(t)
	a := NewAdapter(nil, local, nil)
	ctx := context.Background()
	assert.Equal(t, "local", a.Mode())

	obj, err := a.Put(ctx, "dropit/1.txt", []byte("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/dropit/1.txt", obj.URL)

	objects, err := a.List(ctx, ListOptions{Prefix: "dropit/", Limit: 50})
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, int64(5), objects[0].Size)
	assert.Equal(t, obj.UploadedAt.Unix(), objects[0].UploadedAt.Unix())

	require.NoError(t, a.Delete(ctx, obj.URL))
	objects, err = a.List(ctx, ListOptions{Prefix: "dropit/"})
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestAdapterFallsBackWhenRemoteFails(t *testing.T) {
	var calls int32
	srv := failingBlobServer(t, &calls)
	local := newLocal(t)
	a := NewAdapter(NewBlobBackend(blob.NewClient(srv.URL, "tok")), local, nil)
	ctx := context.Background()
	assert.Equal(t, "blob", a.Mode())

	obj, err := a.Put(ctx, "dropit/2.txt", []byte("data"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/dropit/2.txt", obj.URL)

	objects, err := a.List(ctx, ListOptions{Prefix: "dropit/"})
	require.NoError(t, err)
	require.Len(t, objects, 1)

	require.NoError(t, a.Delete(ctx, obj.URL))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	objects, err = local.List(ctx, ListOptions{Prefix: "dropit/"})
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestAdapterUsesHealthyRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			_ = json.NewEncoder(w).Encode(map[string]string{
				"url":      "https://blob.example/dropit/3-x.txt",
				"pathname": "dropit/3-x.txt",
			})
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"blobs": []map[string]any{{
					"url":        "https://blob.example/dropit/3-x.txt",
					"pathname":   "dropit/3-x.txt",
					"size":       3,
					"uploadedAt": "2024-05-01T10:00:00Z",
				}},
			})
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	local := newLocal(t)
	a := NewAdapter(NewBlobBackend(blob.NewClient(srv.URL, "tok")), local, nil)
	ctx := context.Background()

	obj, err := a.Put(ctx, "dropit/3.txt", []byte("abc"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "https://blob.example/dropit/3-x.txt", obj.URL)
	assert.Equal(t, int64(3), obj.Size)

	objects, err := a.List(ctx, ListOptions{Prefix: "dropit/", Limit: 50})
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "dropit/3-x.txt", objects[0].Pathname)

	require.NoError(t, a.Delete(ctx, obj.URL))

	localObjects, err := local.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, localObjects)
}
