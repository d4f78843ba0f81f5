package endpoint

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

// Generator produces question sets for the handler.
type Generator interface {
	Generate(ctx context.Context, p Payload) (*Envelope, error)
}

// HandlerConfig configures the HTTP handler.
type HandlerConfig struct {
	// Token is the required bearer token. Empty disables authentication.
	Token string

	// RequestsPerMinute and Burst bound each caller's request rate. Zero
	// RequestsPerMinute disables limiting.
	RequestsPerMinute float64
	Burst             int

	// MaxBodyBytes caps the request body. Default: 1 MiB.
	MaxBodyBytes int64

	// MaxContentChars caps payload content. Default: quiz.MaxContentChars.
	MaxContentChars int
}

// DefaultHandlerConfig returns recommended defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		RequestsPerMinute: 10,
		Burst:             3,
		MaxBodyBytes:      1 << 20,
		MaxContentChars:   quiz.MaxContentChars,
	}
}

// Handler serves the generation endpoint over HTTP.
type Handler struct {
	gen    Generator
	config HandlerConfig
	logger *slog.Logger

	limiter *keyedLimiter
}

// NewHandler creates a Handler.
func NewHandler(gen Generator, cfg HandlerConfig, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = quiz.MaxContentChars
	}
	h := &Handler{gen: gen, config: cfg, logger: logger}
	if cfg.RequestsPerMinute > 0 {
		h.limiter = newKeyedLimiter(cfg.RequestsPerMinute, cfg.Burst)
	}
	return h
}

func (h *Handler) allow(key string) (int, bool) {
	if h.limiter == nil {
		return 0, true
	}
	return h.limiter.allow(key)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)

	status, userID := h.serve(w, r, requestID)

	h.logger.InfoContext(r.Context(), "generate request",
		"request_id", requestID,
		"user_id", userID,
		"status", status,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

// serve handles one request and returns the status written.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, requestID string) (int, string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		return writeError(w, http.StatusMethodNotAllowed, "method not allowed"), ""
	}

	if !h.authorized(r) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		return writeError(w, http.StatusUnauthorized, "unauthorized"), ""
	}

	var p Payload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err := dec.Decode(&p); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return writeError(w, http.StatusRequestEntityTooLarge, "request body too large"), ""
		}
		return writeError(w, http.StatusBadRequest, "invalid JSON body"), ""
	}
	if err := h.validate(p); err != nil {
		return writeError(w, http.StatusBadRequest, err.Error()), p.UserID
	}

	if wait, ok := h.allow(h.limiterKey(p.UserID, r)); !ok {
		w.Header().Set("Retry-After", strconv.Itoa(wait))
		return writeError(w, http.StatusTooManyRequests, "rate limit exceeded"), p.UserID
	}

	ctx := llm.WithRequestID(r.Context(), requestID)
	env, err := h.gen.Generate(ctx, p)
	if err != nil {
		h.logger.WarnContext(ctx, "generation failed", "request_id", requestID, "error", err)
		return writeJSON(w, http.StatusBadGateway, Envelope{Success: false, Error: err.Error()}), p.UserID
	}
	return writeJSON(w, http.StatusOK, env), p.UserID
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.config.Token == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.config.Token)) == 1
}

func (h *Handler) validate(p Payload) error {
	if strings.TrimSpace(p.Content) == "" {
		return errors.New("content is required")
	}
	if n := utf8.RuneCountInString(p.Content); n > h.config.MaxContentChars {
		return fmt.Errorf("content exceeds %d characters", h.config.MaxContentChars)
	}
	if p.NumberOfQuestions < quiz.MinQuestions || p.NumberOfQuestions > quiz.MaxQuestions {
		return fmt.Errorf("numberOfQuestions must be between %d and %d", quiz.MinQuestions, quiz.MaxQuestions)
	}
	return nil
}

// limiterKey identifies the caller for rate limiting. The user id is only
// trusted when the request carried the configured token; otherwise the
// client address is used.
func (h *Handler) limiterKey(userID string, r *http.Request) string {
	if userID != "" && h.config.Token != "" {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

func writeError(w http.ResponseWriter, status int, msg string) int {
	return writeJSON(w, status, Envelope{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) int {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
	return status
}
