package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestLoadLocalJSON(t *testing.T) {
	products, err := NewLoader("testdata/products.json").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	first := products[0]
	require.Equal(t, "Shirt A", first.Title)
	require.Equal(t, "Shirts", first.Category)
	require.True(t, first.Price.Equal(decimal.NewFromInt(500)))
	require.True(t, first.OriginalPrice.Equal(decimal.NewFromInt(700)))
	require.Equal(t, ProductID("Shirt A"), first.ID)
	require.NotEqual(t, products[0].ID, products[1].ID)
}

func TestLoadFileSchemeYAML(t *testing.T) {
	products, err := NewLoader("file://testdata/products.yaml").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Kurta D", products[0].Title)
	require.True(t, products[0].Price.Equal(decimal.RequireFromString("1499.5")))
}

func TestLoadHTTP(t *testing.T) {
	raw, err := os.ReadFile("testdata/products.json")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	}))
	t.Cleanup(srv.Close)

	products, err := NewLoader(srv.URL+"/products").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
}

func TestLoadHTTPYAMLContentType(t *testing.T) {
	raw, err := os.ReadFile("testdata/products.yaml")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(raw)
	}))
	t.Cleanup(srv.Close)

	products, err := NewLoader(srv.URL + "/catalog").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestLoadFailures(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(notFound.Close)

	cases := []struct {
		name   string
		source string
		op     string
	}{
		{"missing file", "testdata/absent.json", OpFetch},
		{"empty source", "", OpFetch},
		{"http status", notFound.URL + "/products.json", OpFetch},
		{"malformed", "testdata/broken.json", OpDecode},
		{"duplicate titles", "testdata/duplicate.json", OpValidate},
		{"bucket without object", "gs://catalog-bucket", OpFetch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			products, err := NewLoader(tc.source).Load(context.Background())
			require.Error(t, err)
			require.Nil(t, products)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
			require.Equal(t, tc.op, loadErr.Op)
			require.Equal(t, tc.source, loadErr.Source)
		})
	}
}

func TestLoadObjectStorage(t *testing.T) {
	var gotBucket, gotObject string
	opener := func(_ context.Context, bucket, object string) (io.ReadCloser, error) {
		gotBucket, gotObject = bucket, object
		return io.NopCloser(strings.NewReader(`[{"title":"Scarf E","category":"Accessories","price":299}]`)), nil
	}

	products, err := NewLoader("gs://stylespot-catalog/v1/products.json", WithObjectOpener(opener)).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "stylespot-catalog", gotBucket)
	require.Equal(t, "v1/products.json", gotObject)
	require.Len(t, products, 1)
	require.Equal(t, "Accessories", products[0].Category)
}

func TestLoadObjectStorageError(t *testing.T) {
	boom := errors.New("permission denied")
	opener := func(context.Context, string, string) (io.ReadCloser, error) { return nil, boom }

	_, err := NewLoader("gs://bucket/products.json", WithObjectOpener(opener)).Load(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestLoadObjectStorageSharedClient(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if r.URL.Path != "/stylespot-catalog/v1/products.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"title":"Scarf E","category":"Accessories","price":299}]`)
	}))
	t.Cleanup(srv.Close)

	client, err := storage.NewClient(context.Background(),
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	loader := NewLoader("gs://stylespot-catalog/v1/products.json", WithStorageClient(client))
	for i := 0; i < 2; i++ {
		products, err := loader.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		require.Equal(t, "Scarf E", products[0].Title)
	}
	mu.Lock()
	require.Equal(t, []string{"/stylespot-catalog/v1/products.json", "/stylespot-catalog/v1/products.json"}, paths)
	mu.Unlock()

	_, err = NewLoader("gs://stylespot-catalog/missing.json", WithStorageClient(client)).Load(context.Background())
	require.ErrorIs(t, err, storage.ErrObjectNotExist)
}
