package delivery

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Blackdeer1524/hashkit/src"
	"github.com/Blackdeer1524/hashkit/src/hash"
	"github.com/Blackdeer1524/hashkit/src/rand"
)

const (
	maxHashBody  = 16 << 20
	maxFeedBody  = 64 << 10
	maxRandBytes = 64 << 10

	defaultRandBytes = 32
)

type Handler struct {
	Hasher    hash.Hasher
	Generator Generator
	Logger    src.Logger

	// Seed is used when a hash request carries no seed parameter.
	Seed uint64
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/hash/{algo}", h.Hash).Methods("POST")

	// generator
	router.HandleFunc("/v1/rand", h.RandBytes).Methods("GET")
	router.HandleFunc("/v1/rand/uint64", h.RandUint64).Methods("GET")
	router.HandleFunc("/v1/entropy", h.FeedEntropy).Methods("POST")
	router.HandleFunc("/v1/reseed", h.Reseed).Methods("POST")
	router.HandleFunc("/v1/uuid", h.UUID).Methods("GET")
}

type HashResponse struct {
	Algo   hash.Algo `json:"algo"`
	Seed   uint64    `json:"seed"`
	Length int       `json:"length"`
	Digest string    `json:"digest"`
}

func (h *Handler) Hash(w http.ResponseWriter, r *http.Request) {
	algo := hash.Algo(mux.Vars(r)["algo"])

	seed, err := parseSeed(r.URL.Query().Get("seed"), h.Seed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxHashBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)

			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)

		return
	}

	var digest string
	switch algo {
	case hash.AlgoRisky:
		digest = fmt.Sprintf("%016x", h.Hasher.Risky(data, seed))
	case hash.AlgoStable:
		digest = fmt.Sprintf("%016x", h.Hasher.Stable(data, seed))
	case hash.AlgoStable128:
		b := h.Hasher.Stable128(data, seed).Bytes()
		digest = hex.EncodeToString(b[:])
	default:
		http.Error(w, fmt.Sprintf("unknown hash %q", algo), http.StatusNotFound)

		return
	}

	h.writeJSON(w, HashResponse{
		Algo:   algo,
		Seed:   seed,
		Length: len(data),
		Digest: digest,
	})
}

func (h *Handler) RandBytes(w http.ResponseWriter, r *http.Request) {
	n := defaultRandBytes
	if v := r.URL.Query().Get("bytes"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > maxRandBytes {
			http.Error(w, fmt.Sprintf("bytes must be within 0..%d", maxRandBytes), http.StatusBadRequest)

			return
		}
		n = parsed
	}

	buf := make([]byte, n)
	h.Generator.Fill(buf)

	h.writeJSON(w, map[string]any{
		"length": n,
		"bytes":  hex.EncodeToString(buf),
	})
}

func (h *Handler) RandUint64(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"value": h.Generator.Uint64(),
	})
}

func (h *Handler) FeedEntropy(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFeedBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)

		return
	}

	h.Generator.Feed(data)

	h.writeJSON(w, map[string]any{
		"received": len(data),
		"accepted": len(data) & rand.MaxFeed,
	})
}

func (h *Handler) Reseed(w http.ResponseWriter, r *http.Request) {
	h.Generator.Reseed()
	h.Logger.Debugf("generator reseeded on request from %s", r.RemoteAddr)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UUID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.NewRandomFromReader(h.Generator)
	if err != nil {
		h.Logger.Errorf("failed to generate uuid: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	h.writeJSON(w, map[string]any{
		"uuid": id.String(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Errorf("failed to encode response: %v", err)
	}
}

func parseSeed(s string, fallback uint64) (uint64, error) {
	if s == "" {
		return fallback, nil
	}

	seed, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", s, err)
	}

	return seed, nil
}
