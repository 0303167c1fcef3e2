package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/loan-schedule/internal/cache"
	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/internal/optimizer"
	"github.com/iwvelando/loan-schedule/internal/recorder"
	"github.com/iwvelando/loan-schedule/internal/schedules"
	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/optimization"
	"github.com/iwvelando/loan-schedule/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Cache
	recorder      recorder.Recorder
}

type scheduleOptions struct {
	Optimize bool
}

// NewHandler constructs the HTTP handler that serves the schedule API. A nil
// cache disables response caching, a nil recorder disables run persistence.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, responseCache cache.Cache, rec recorder.Recorder) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		cache:         responseCache,
		recorder:      rec,
	}

	mux := http.NewServeMux()

	// Schedule API endpoint (file upload or raw YAML body)
	mux.HandleFunc("/api/schedule", h.handleSchedule)

	// Schedule API endpoint for editor-driven updates
	mux.HandleFunc("/api/editor/schedule", h.handleScheduleEditor)

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type scheduleResponse struct {
	Scenarios     []string                        `json:"scenarios"`
	Results       []schedules.ScenarioSchedule    `json:"results"`
	CSV           string                          `json:"csv"`
	Warnings      []string                        `json:"warnings,omitempty"`
	Optimizations map[string]optimization.Summary `json:"optimizations,omitempty"`
	Duration      string                          `json:"duration"`
	ConfigYAML    string                          `json:"configYaml,omitempty"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	var configBytes []byte
	if isMultipart(r) {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
				return
			}
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "missing configuration file")
			return
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", "server.handleSchedule"),
					zap.Error(closeErr),
				)
			}
		}()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err))
			return
		}
		configBytes = buf.Bytes()
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
				return
			}
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			h.respondError(w, http.StatusBadRequest, "missing configuration file")
			return
		}
		configBytes = body
	}

	if _, err := decodeYAMLToMap(configBytes); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err))
		return
	}

	h.runSchedule(r.Context(), w, configBytes, start, "server.handleSchedule", scheduleOptions{})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleScheduleEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleScheduleEditor")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", "server.handleScheduleEditor")
			return
		}
		configPayload = cfgMap
	}

	options := scheduleOptions{}
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid options payload: expected object", "server.handleScheduleEditor")
			return
		}
		if optimizeVal, ok := optsMap["optimize"]; ok {
			options.Optimize = coerceBool(optimizeVal)
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleScheduleEditor")
		return
	}

	h.runSchedule(r.Context(), w, configBytes, start, "server.handleScheduleEditor", options)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runSchedule(ctx context.Context, w http.ResponseWriter, configBytes []byte, start time.Time, op string, opts scheduleOptions) {
	cacheKey := scheduleCacheKey(configBytes, opts)
	if h.cache != nil {
		if cached, ok := h.cache.Get(ctx, cacheKey); ok {
			h.logger.Debug(fmt.Sprintf("serving cached schedule response for key %s", cacheKey),
				zap.String("op", op),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(cached); err != nil {
				h.logger.Error("failed to write cached response", zap.Error(err))
			}
			return
		}
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()

	if err := validateScenarioLoans(cfg); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid loan configuration: %v", err), op)
		return
	}

	var optimizationResult *optimizer.Result
	if opts.Optimize {
		runner, err := optimizer.NewRunner(h.logger, cfg)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to initialize optimizer: %v", err), op)
			return
		}

		optimizationResult, err = runner.Run()
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("optimizer execution failed: %v", err), op)
			return
		}
	}

	results, err := schedules.Generate(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute schedules: %v", err), op)
		return
	}

	if optimizationResult != nil && !optimizationResult.Empty() {
		optimizationResult.Apply(results)
	}

	for _, result := range results {
		if err := h.recorder.RecordRun(recorder.FromSchedule("api", result)); err != nil {
			h.logger.Warn("failed to record schedule run",
				zap.String("op", op),
				zap.String("scenario", result.Name),
				zap.Error(err),
			)
		}
	}

	response := scheduleResponse{
		Scenarios: extractScenarioNames(results),
		Results:   results,
		CSV:       output.CsvString(results),
		Warnings:  warnings,
		Duration:  time.Since(start).String(),
	}

	if optimizationResult != nil && !optimizationResult.Empty() {
		response.Optimizations = optimizationResult.Summaries
	}

	if opts.Optimize {
		// The optimizer appends its chosen extra repayment to the scenario
		// configuration, so the echoed YAML reflects the adjusted plan.
		updatedBytes, err := yaml.Marshal(cfg)
		if err != nil {
			h.logger.Warn("failed to marshal optimized configuration",
				zap.String("op", op),
				zap.Error(err),
			)
		} else {
			response.ConfigYAML = string(updatedBytes)
		}
	}

	payload, err := json.Marshal(response)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err), op)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, payload); err != nil {
			h.logger.Warn("failed to cache schedule response",
				zap.String("op", op),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Duration("duration", time.Since(start)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// validateScenarioLoans rejects loan and adjustment definitions that cannot
// convert before any schedule is computed, so configuration mistakes surface
// as client errors.
func validateScenarioLoans(cfg *config.Configuration) error {
	for _, scenario := range cfg.ActiveScenarios() {
		if _, err := scenario.Loan.ToParameters(); err != nil {
			return fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		if _, err := config.BuildAdjustments(cfg.Common.Adjustments, scenario.Adjustments); err != nil {
			return fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}
	return nil
}

func scheduleCacheKey(configBytes []byte, opts scheduleOptions) string {
	sum := sha256.Sum256(configBytes)
	return fmt.Sprintf("schedule:%x:optimize=%t", sum, opts.Optimize)
}

func isMultipart(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "multipart/")
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handleSchedule")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("schedule request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func extractScenarioNames(results []schedules.ScenarioSchedule) []string {
	names := make([]string, 0, len(results))
	for _, scenario := range results {
		names = append(names, scenario.Name)
	}
	return names
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
