package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mdcsite/api/internal/assistant"
	"mdcsite/api/internal/auth"
	"mdcsite/api/internal/content"
	"mdcsite/api/internal/search"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"store": map[string]any{"status": "ok"},
		}
		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["store"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}
		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		session, err := s.service.SessionFromToken(token)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "expiresAt": session.ExpiresAt})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/login" {
		var body struct {
			Passphrase string `json:"passphrase"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		session, err := s.service.Login(body.Passphrase)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token":     session.Token,
			"expiresAt": session.ExpiresAt,
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		// Tokens are stateless; logout is client-side.
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/site" {
		writeJSON(w, http.StatusOK, s.service.SitePayload())
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/search" {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		filterType := strings.TrimSpace(r.URL.Query().Get("type"))
		limit := 20
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
				return
			}
			limit = parsed
		}
		payload := s.service.Search(search.Query{
			Text:       q,
			FilterType: search.ResultType(filterType),
			Limit:      limit,
		})
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/assistant/chat" {
		var body struct {
			Message string           `json:"message"`
			History []assistant.Turn `json:"history"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Message) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "message is required", nil)
			return
		}
		reply, welcome := s.service.Chat(r.Context(), body.Message, body.History)
		writeJSON(w, http.StatusOK, map[string]any{
			"reply":          reply,
			"welcomeMessage": welcome,
		})
		return
	}

	// Public collection reads
	if r.Method == http.MethodGet {
		switch r.URL.Path {
		case "/api/courses":
			writeJSON(w, http.StatusOK, map[string]any{"courses": s.service.Courses()})
			return
		case "/api/students":
			writeJSON(w, http.StatusOK, map[string]any{"students": s.service.Students()})
			return
		case "/api/gallery":
			writeJSON(w, http.StatusOK, map[string]any{"galleryImages": s.service.Gallery()})
			return
		case "/api/faculty":
			writeJSON(w, http.StatusOK, map[string]any{"faculty": s.service.Faculty()})
			return
		case "/api/videos":
			writeJSON(w, http.StatusOK, map[string]any{"videos": s.service.Videos()})
			return
		}
	}

	// Everything below mutates content or exposes credentials.
	if _, ok := s.requireSession(w, r); !ok {
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/students" {
		var body StudentInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		student, warnings, err := s.service.CreateStudent(r.Context(), body)
		s.writeMutation(w, "student", student, warnings, err)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/gallery" {
		var body GalleryInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		image, warnings, err := s.service.CreateGalleryImage(r.Context(), body)
		s.writeMutation(w, "galleryImage", image, warnings, err)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/faculty" {
		var body FacultyInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		member, warnings, err := s.service.CreateFaculty(r.Context(), body)
		s.writeMutation(w, "facultyMember", member, warnings, err)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/videos" {
		var body VideoInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		video, warnings, err := s.service.CreateVideo(r.Context(), body)
		s.writeMutation(w, "video", video, warnings, err)
		return
	}

	if r.URL.Path == "/api/settings/site" {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"siteSettings": s.service.SiteSettings()})
		case http.MethodPut:
			var body content.SiteSettings
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			settings, warnings, err := s.service.UpdateSiteSettings(r.Context(), body)
			s.writeMutation(w, "siteSettings", settings, warnings, err)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if r.URL.Path == "/api/settings/ai" {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"aiSettings": s.service.AISettings()})
		case http.MethodPut:
			var body content.AISettings
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			settings, warnings, err := s.service.UpdateAISettings(r.Context(), body)
			s.writeMutation(w, "aiSettings", settings, warnings, err)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/uploads" {
		var body struct {
			ImageInput
			Previous string `json:"previous"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		url, warn, err := s.service.ResolveImage(r.Context(), body.ImageInput, body.Previous)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		payload := map[string]any{"url": url}
		if warn != nil {
			payload["warning"] = warn
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/publish" {
		var body struct {
			Message string `json:"message"`
			Confirm bool   `json:"confirm"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if !body.Confirm {
			writeError(w, http.StatusBadRequest, "CONFIRM_REQUIRED", "Publishing overwrites the live site; pass confirm=true", nil)
			return
		}
		result, err := s.service.Publish(r.Context(), body.Message)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/publish/history" {
		limit := 20
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
				return
			}
			limit = parsed
		}
		items, err := s.service.PublishHistory(limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Could not load publish history", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"history": items})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/reset" {
		var body struct {
			Confirm bool `json:"confirm"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if !body.Confirm {
			writeError(w, http.StatusBadRequest, "CONFIRM_REQUIRED", "Reset discards all edited content; pass confirm=true", nil)
			return
		}
		if err := s.service.Reset(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Reset failed", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	parts := splitPath(r.URL.Path)

	if len(parts) == 4 && parts[0] == "api" && parts[1] == "publish" && parts[2] == "history" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		payload, err := s.service.ArchivedSnapshot(parts[3])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	if len(parts) == 3 && parts[0] == "api" {
		id := parts[2]
		switch parts[1] {
		case "courses":
			if r.Method == http.MethodPut {
				var body CourseInput
				if err := decodeBody(r, &body); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
					return
				}
				course, warnings, err := s.service.UpdateCourse(r.Context(), id, body)
				s.writeMutation(w, "course", course, warnings, err)
				return
			}
		case "students":
			switch r.Method {
			case http.MethodPut:
				var body StudentInput
				if err := decodeBody(r, &body); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
					return
				}
				student, warnings, err := s.service.UpdateStudent(r.Context(), id, body)
				s.writeMutation(w, "student", student, warnings, err)
				return
			case http.MethodDelete:
				warnings, err := s.service.DeleteStudent(r.Context(), id)
				s.writeDeletion(w, warnings, err)
				return
			}
		case "gallery":
			switch r.Method {
			case http.MethodPut:
				var body GalleryInput
				if err := decodeBody(r, &body); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
					return
				}
				image, warnings, err := s.service.UpdateGalleryImage(r.Context(), id, body)
				s.writeMutation(w, "galleryImage", image, warnings, err)
				return
			case http.MethodDelete:
				warnings, err := s.service.DeleteGalleryImage(r.Context(), id)
				s.writeDeletion(w, warnings, err)
				return
			}
		case "faculty":
			switch r.Method {
			case http.MethodPut:
				var body FacultyInput
				if err := decodeBody(r, &body); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
					return
				}
				member, warnings, err := s.service.UpdateFaculty(r.Context(), id, body)
				s.writeMutation(w, "facultyMember", member, warnings, err)
				return
			case http.MethodDelete:
				warnings, err := s.service.DeleteFaculty(r.Context(), id)
				s.writeDeletion(w, warnings, err)
				return
			}
		case "videos":
			if r.Method == http.MethodDelete {
				warnings, err := s.service.DeleteVideo(r.Context(), id)
				s.writeDeletion(w, warnings, err)
				return
			}
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// writeMutation writes the standard mutation envelope: the changed
// record under its key plus any warnings.
func (s *HTTPServer) writeMutation(w http.ResponseWriter, key string, value any, warnings Warnings, err error) {
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	payload := map[string]any{key: value}
	if !warnings.Empty() {
		payload["warnings"] = warnings
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *HTTPServer) writeDeletion(w http.ResponseWriter, warnings Warnings, err error) {
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	payload := map[string]any{"ok": true}
	if !warnings.Empty() {
		payload["warnings"] = warnings
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	return session, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, content.ErrNotFound) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, content.ErrInvalidVideoID) {
		return http.StatusUnprocessableEntity, "INVALID_VIDEO_ID", err.Error(), nil
	}
	if errors.Is(err, content.ErrInvalidRecord) {
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
