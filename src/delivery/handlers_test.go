package delivery

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Blackdeer1524/hashkit/src/hash"
	"github.com/Blackdeer1524/hashkit/src/rand"
)

func setupServer(t *testing.T, cfg hash.Config) (*httptest.Server, *rand.Generator) {
	gen := rand.New(rand.WithState(rand.State{Lanes: [4]uint64{1, 2, 3, 4}, Counter: 1}))
	h := &Handler{
		Hasher:    hash.New(cfg),
		Generator: gen,
		Logger:    zap.NewNop().Sugar(),
	}

	srv := httptest.NewServer(NewRouter(h, NewMetrics(gen)))
	t.Cleanup(srv.Close)

	return srv, gen
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHashEndpoint(t *testing.T) {
	srv, _ := setupServer(t, hash.Config{})
	body := "hash me please"

	tests := []struct {
		algo string
		seed string
		want string
	}{
		{"risky", "", fmt.Sprintf("%016x", hash.Risky([]byte(body), 0))},
		{"stable", "7", fmt.Sprintf("%016x", hash.Stable([]byte(body), 7))},
		{"stable128", "0x10", func() string {
			b := hash.Stable128([]byte(body), 16).Bytes()
			return hex.EncodeToString(b[:])
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.algo, func(t *testing.T) {
			url := srv.URL + "/v1/hash/" + tt.algo
			if tt.seed != "" {
				url += "?seed=" + tt.seed
			}

			resp, err := http.Post(url, "application/octet-stream", strings.NewReader(body))
			require.NoError(t, err)

			got := decode[HashResponse](t, resp)
			assert.Equal(t, tt.want, got.Digest)
			assert.Equal(t, hash.Algo(tt.algo), got.Algo)
			assert.Equal(t, len(body), got.Length)
		})
	}
}

func TestHashEndpointStableForRisky(t *testing.T) {
	srv, _ := setupServer(t, hash.Config{UseStableHashForRiskyHash: true})

	resp, err := http.Post(srv.URL+"/v1/hash/risky?seed=3", "", strings.NewReader("abc"))
	require.NoError(t, err)

	got := decode[HashResponse](t, resp)
	assert.Equal(t, fmt.Sprintf("%016x", hash.Stable([]byte("abc"), 3)), got.Digest)
}

func TestHashEndpointErrors(t *testing.T) {
	srv, _ := setupServer(t, hash.Config{})

	resp, err := http.Post(srv.URL+"/v1/hash/md5", "", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/hash/stable?seed=banana", "", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/hash/stable")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRandEndpoints(t *testing.T) {
	srv, gen := setupServer(t, hash.Config{})

	resp, err := http.Get(srv.URL + "/v1/rand?bytes=45")
	require.NoError(t, err)
	got := decode[map[string]any](t, resp)
	raw, err := hex.DecodeString(got["bytes"].(string))
	require.NoError(t, err)
	assert.Len(t, raw, 45)

	resp, err = http.Get(srv.URL + "/v1/rand")
	require.NoError(t, err)
	got = decode[map[string]any](t, resp)
	assert.Equal(t, float64(defaultRandBytes), got["length"])

	resp, err = http.Get(srv.URL + "/v1/rand?bytes=-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/rand/uint64")
	require.NoError(t, err)
	_ = decode[map[string]any](t, resp)

	// 45 bytes: 8 draws, 32 bytes: 4 draws, uint64: 1 draw
	assert.Equal(t, uint64(13), gen.Stats().Draws)
}

func TestEntropyAndReseed(t *testing.T) {
	srv, gen := setupServer(t, hash.Config{})
	before := gen.Snapshot()

	resp, err := http.Post(srv.URL+"/v1/entropy", "", strings.NewReader(strings.Repeat("e", 2000)))
	require.NoError(t, err)
	got := decode[map[string]any](t, resp)
	assert.Equal(t, float64(2000), got["received"])
	assert.Equal(t, float64(2000&rand.MaxFeed), got["accepted"])
	assert.NotEqual(t, before.Feed, gen.Snapshot().Feed)

	resp, err = http.Post(srv.URL+"/v1/reseed", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, uint64(1), gen.Stats().Reseeds)
}

func TestUUIDEndpoint(t *testing.T) {
	srv, _ := setupServer(t, hash.Config{})

	resp, err := http.Get(srv.URL + "/v1/uuid")
	require.NoError(t, err)
	got := decode[map[string]string](t, resp)

	id, err := uuid.Parse(got["uuid"])
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := setupServer(t, hash.Config{})

	resp, err := http.Get(srv.URL + "/v1/rand/uint64")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `hashkit_requests_total{code="200",route="/v1/rand/uint64"} 1`)
	assert.Contains(t, text, "hashkit_generator_draws_total 1")
	assert.Contains(t, text, "hashkit_generator_reseeds_total 0")
}

func TestHashEndpointDefaultSeed(t *testing.T) {
	gen := rand.New(rand.WithState(rand.State{}))
	h := &Handler{
		Hasher:    hash.New(hash.Config{}),
		Generator: gen,
		Logger:    zap.NewNop().Sugar(),
		Seed:      hash.DefaultSeed,
	}
	srv := httptest.NewServer(NewRouter(h, NewMetrics(gen)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/hash/stable", "", strings.NewReader("abc"))
	require.NoError(t, err)

	got := decode[HashResponse](t, resp)
	assert.Equal(t, uint64(hash.DefaultSeed), got.Seed)
	assert.Equal(t, fmt.Sprintf("%016x", hash.Stable([]byte("abc"), hash.DefaultSeed)), got.Digest)
}

func TestParseSeed(t *testing.T) {
	seed, err := parseSeed("", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), seed)

	seed, err = parseSeed("0xff", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(255), seed)

	seed, err = parseSeed("18446744073709551615", 0)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), seed)

	_, err = parseSeed("-1", 0)
	assert.Error(t, err)
}

func TestMetricsCountUnmatched(t *testing.T) {
	srv, _ := setupServer(t, hash.Config{})

	resp, err := http.Get(srv.URL + "/v1/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/hash/stable")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/hash/md5", "", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `hashkit_requests_total{code="404",route="unmatched"} 1`)
	assert.Contains(t, text, `hashkit_requests_total{code="405",route="unmatched"} 1`)
	assert.Contains(t, text, `hashkit_requests_total{code="404",route="/v1/hash/{algo}"} 1`)
}
