// Package server exposes the risk pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"fraudscan/internal/ai"
	"fraudscan/internal/doctext"
	"fraudscan/internal/extract"
	"fraudscan/internal/risk"
)

// maxUploadBytes caps uploaded document size at 10MB.
const maxUploadBytes = 10 << 20

// extractPreviewLimit bounds the extracted-text echo in upload responses.
const extractPreviewLimit = 500

const shutdownTimeout = 5 * time.Second

// Assessor runs the scoring pipeline.
type Assessor interface {
	Assess(ctx context.Context, companyName, description string) *risk.Assessment
	AssessML(ctx context.Context, companyName, description string) *risk.Assessment
}

// Analyzer produces a direct model judgment without the ML branch.
type Analyzer interface {
	AnalyzeCompany(ctx context.Context, companyName, description string) (*ai.Judgment, error)
}

type Server struct {
	assessor  Assessor
	analyzer  Analyzer
	extractor doctext.Extractor
	logger    *zap.Logger
}

func New(assessor Assessor, analyzer Analyzer, extractor doctext.Extractor, logger *zap.Logger) *Server {
	return &Server{
		assessor:  assessor,
		analyzer:  analyzer,
		extractor: extractor,
		logger:    logger,
	}
}

// Routes returns the chi router for the API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api/company", func(r chi.Router) {
		r.Post("/predict", s.handlePredict)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/chat", s.handleChat)
		r.Post("/upload", s.handleUpload)
	})

	return r
}

// Run serves the API until the context is cancelled or a termination
// signal arrives, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("http server listening", zap.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		s.logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("shutting down", zap.String("reason", "context cancelled"))
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

type predictRequest struct {
	CompanyName string `json:"companyName"`
	Description string `json:"description"`
}

type chatRequest struct {
	Message     string `json:"message"`
	CompanyName string `json:"companyName"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CompanyName == "" {
		writeError(w, http.StatusBadRequest, "Company name is required")
		return
	}

	s.logger.Info("predict request", zap.String("company", req.CompanyName))

	assessment := s.assessor.AssessML(r.Context(), req.CompanyName, req.Description)
	if assessment.Error != "" {
		writeNeutralError(w, "Prediction failed: "+assessment.Error)
		return
	}

	writeJSON(w, http.StatusOK, assessmentResponse(assessment, ""))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "analysis is not configured"})
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	judgment, err := s.analyzer.AnalyzeCompany(r.Context(), req.CompanyName, req.Description)
	if err != nil {
		s.logger.Error("analyze failed", zap.String("company", req.CompanyName), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Analysis failed"})
		return
	}

	writeJSON(w, http.StatusOK, judgment)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := req.CompanyName
	if name == "" {
		name = req.Message
	}
	if name == "" {
		name = "Unknown"
	}

	s.logger.Info("chat request", zap.String("company", name))

	assessment := s.assessor.Assess(r.Context(), name, req.Message)
	if assessment.Error != "" {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":   false,
			"response":  "Analysis failed. Please try again.",
			"error":     "Chat analysis failed: " + assessment.Error,
			"riskScore": assessment.RiskScore,
			"riskLevel": assessment.RiskLevel,
		})
		return
	}

	resp := map[string]any{
		"success":   true,
		"response":  assessment.Insight,
		"riskScore": assessment.RiskScore,
		"riskLevel": assessment.RiskLevel,
		"insight":   assessment.Insight,
		"keywords":  assessment.Signals,
		"features":  assessment.Features,
	}
	resp["googleSearch"] = assessment.Research.Succeeded()
	if assessment.Research != nil {
		resp["googleResultsCount"] = len(assessment.Research.Results)
	} else {
		resp["googleResultsCount"] = 0
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	s.logger.Info("upload request",
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(data)),
	)

	text, err := s.extractor.Extract(header.Filename, data)
	if err != nil {
		if errors.Is(err, doctext.ErrUnsupported) {
			writeError(w, http.StatusBadRequest, "Could not extract text from file. Please upload a supported document type.")
			return
		}
		writeError(w, http.StatusBadRequest, "Could not extract text from file: "+err.Error())
		return
	}

	info := extract.ParseInfo(text)
	companyName := info.CompanyName
	if companyName == extract.UnknownEntity {
		companyName = "Unknown Company"
	}

	assessment := s.assessor.AssessML(r.Context(), companyName, text)
	if assessment.Error != "" {
		writeNeutralError(w, "File analysis failed: "+assessment.Error)
		return
	}

	assessment.Insight = fmt.Sprintf("ML Model Confidence: %d%%. Analyzed document text (%d chars). Found %d warning signals.",
		assessment.RiskScore, len(text), len(assessment.Signals))

	writeJSON(w, http.StatusOK, assessmentResponse(assessment, textPreview(text)))
}

func assessmentResponse(a *risk.Assessment, extractedText string) map[string]any {
	resp := map[string]any{
		"success":   true,
		"company":   a.Company,
		"riskScore": a.RiskScore,
		"riskLevel": a.RiskLevel,
		"insight":   a.Insight,
		"keywords":  a.Signals,
		"features":  a.Features,
	}
	if a.Prediction != nil {
		resp["probability"] = a.Prediction.Probability
		resp["mlAnalysis"] = a.Prediction
	}
	if extractedText != "" {
		resp["extractedText"] = extractedText
	}
	return resp
}

func textPreview(text string) string {
	runes := []rune(text)
	if len(runes) <= extractPreviewLimit {
		return text
	}
	return string(runes[:extractPreviewLimit]) + "..."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// writeNeutralError reports a pipeline failure with the neutral
// risk placeholder so clients always see a score.
func writeNeutralError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success":   false,
		"error":     msg,
		"riskScore": 50,
		"riskLevel": risk.LevelMedium,
	})
}
