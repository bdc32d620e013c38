package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/okian/emotion/internal/domain/emotion"
	"github.com/okian/emotion/pkg/logger"
)

// Query and form field carrying the text to analyze.
const textField = "textToAnalyze"

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 20

// genericErrorMessage is shown for upstream failures; details go to the log.
const genericErrorMessage = "Error processing request. Please try again later."

// EmotionHandler serves the emotion detection routes.
type EmotionHandler struct {
	detector Detector
	logger   logger.Logger
}

// NewEmotionHandler creates a new emotion handler.
func NewEmotionHandler(d Detector, log logger.Logger) *EmotionHandler {
	return &EmotionHandler{detector: d, logger: log}
}

type detectRequest struct {
	Text string `json:"text"`
}

// readText extracts the input from the query string (GET) or from a JSON
// or form body (POST). A missing field yields "".
func readText(w http.ResponseWriter, r *http.Request) (string, error) {
	switch r.Method {
	case http.MethodGet:
		return r.URL.Query().Get(textField), nil
	case http.MethodPost:
	default:
		return "", errMethod
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return "", err
		}
		if v := r.PostForm.Get(textField); v != "" {
			return v, nil
		}
		return r.PostForm.Get("text"), nil
	default:
		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return "", nil
			}
			return "", err
		}
		return req.Text, nil
	}
}

var errMethod = errors.New("method not allowed")

// HandleDetect handles GET /emotionDetector?textToAnalyze=... and
// POST /emotionDetector with {"text": "..."}, answering in plain text.
func (h *EmotionHandler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	const op = "api.emotion_detector"
	ctx := r.Context()

	text, err := readText(w, r)
	if errors.Is(err, errMethod) {
		w.Header().Set("Allow", "GET, POST")
		writeText(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	if err != nil {
		h.logger.Debug(ctx, "bad detect request", logger.String("request_id", RequestID(ctx)), logger.Error(err))
		writeText(w, http.StatusBadRequest, WrapKind(op, ErrBadRequest, err).Error())
		return
	}

	scores, err := h.detector.Detect(ctx, text)
	if err != nil {
		h.logger.Error(ctx, "emotion detection failed",
			logger.String("request_id", RequestID(ctx)),
			logger.Error(WrapKind(op, ErrUpstream, err)),
		)
		writeText(w, http.StatusBadGateway, genericErrorMessage)
		return
	}

	writeText(w, http.StatusOK, emotion.Message(scores))
}

// HandleDetectJSON handles GET/POST /api/emotions and returns the score
// record as JSON. The absent sentinel is reported as 422.
func (h *EmotionHandler) HandleDetectJSON(w http.ResponseWriter, r *http.Request) {
	const op = "api.emotions"
	ctx := r.Context()

	text, err := readText(w, r)
	if errors.Is(err, errMethod) {
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	scores, err := h.detector.Detect(ctx, text)
	if err != nil {
		h.logger.Error(ctx, "emotion detection failed",
			logger.String("request_id", RequestID(ctx)),
			logger.Error(WrapKind(op, ErrUpstream, err)),
		)
		writeError(w, http.StatusBadGateway, "upstream_error", NewKind(op, ErrUpstream))
		return
	}
	if scores.IsAbsent() {
		writeError(w, http.StatusUnprocessableEntity, "invalid_text", errors.New(emotion.InvalidTextMessage))
		return
	}

	writeJSON(w, http.StatusOK, scores)
}
