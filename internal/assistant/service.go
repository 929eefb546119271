// Package assistant is a thin client for the Gemini text-generation API.
// Every failure mode (missing key, quota, auth, network, empty reply)
// degrades to a deterministic keyword-matched canned response so the
// counselor never goes silent.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"mdcsite/api/internal/content"
)

const model = "gemini-2.0-flash"

// Turn is one message of the bounded conversation history.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// History beyond this many turns is trimmed from the front.
const maxHistory = 20

type Service struct {
	apiBase string
	http    *http.Client
}

// New creates the assistant client. apiBase defaults to the public
// Google endpoint when empty; tests point it at a local server.
func New(apiBase string) *Service {
	if apiBase == "" {
		apiBase = "https://generativelanguage.googleapis.com"
	}
	return &Service{
		apiBase: strings.TrimRight(apiBase, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Chat answers a user message. It never returns an error: any upstream
// failure is mapped to the canned fallback.
func (s *Service) Chat(ctx context.Context, settings content.AISettings, message string, history []Turn) string {
	if settings.APIKey == "" {
		return Fallback(settings, message)
	}

	reply, err := s.generate(ctx, settings, message, history)
	if err != nil {
		log.Printf("assistant: api error (using fallback): %v", err)
		return Fallback(settings, message)
	}
	if reply == "" {
		return Fallback(settings, message)
	}
	return reply
}

func (s *Service) generate(ctx context.Context, settings content.AISettings, message string, history []Turn) (string, error) {
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	reqBody := generateRequest{}
	reqBody.GenerationConfig.Temperature = 0.7
	if settings.SystemInstruction != "" {
		reqBody.SystemInstruction = &generateContent{
			Parts: []generatePart{{Text: settings.SystemInstruction}},
		}
	}
	for _, turn := range history {
		role := turn.Role
		if role != "user" && role != "model" {
			role = "user"
		}
		reqBody.Contents = append(reqBody.Contents, generateContent{
			Role:  role,
			Parts: []generatePart{{Text: turn.Text}},
		})
	}
	reqBody.Contents = append(reqBody.Contents, generateContent{
		Role:  "user",
		Parts: []generatePart{{Text: message}},
	})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.apiBase, model, settings.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api status %d", resp.StatusCode)
	}

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(body.Candidates) == 0 || len(body.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return body.Candidates[0].Content.Parts[0].Text, nil
}

// Fallback picks a canned response by keyword so common questions (fees,
// location, courses, contact) still get a useful answer when the API is
// unreachable.
func Fallback(settings content.AISettings, message string) string {
	lower := strings.ToLower(message)

	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("fee", "price", "paise", "फीस"):
		return "फीस (Fees) की जानकारी के लिए कृपया सेंटर पर पधारें। हम छात्रों की योग्यता और कोर्स के अनुसार फीस बताते हैं। आप 2 दिन की फ्री डेमो क्लास भी ले सकते हैं।"
	case contains("location", "address", "kaha", "jagah", "पता"):
		return "हमारा पता है: प्रेरणा टॉवर, जैन मंदिर के सामने, चुंगी नाका, डीडवाना रोड, कुचामन सिटी।"
	case contains("merchant", "navy", "ship"):
		return "मर्चेंट नेवी हमारा प्रमुख कोर्स है। हम IMU-CET और कंपनी स्पॉन्सरशिप (Sponsorship) दोनों की तैयारी करवाते हैं।"
	case contains("ssc", "gd", "cgl"):
		return "SSC (GD, CGL, CHSL) के लिए हमारे पास नए बैच उपलब्ध हैं। गणित और रीजनिंग पर हमारा विशेष फोकस रहता है।"
	case contains("contact", "number", "phone", "call"):
		return "आप हमें इन नंबरों पर कॉल कर सकते हैं: 6376100570, 7597416905. (सुबह 9 से शाम 6 बजे तक)"
	}

	if settings.FallbackMessage != "" {
		return settings.FallbackMessage
	}
	return "नमस्ते! मैं अभी सर्वर से कनेक्ट नहीं हो पा रहा हूँ। आप मर्चेंट नेवी, SSC, फीस या हमारे पते के बारे में पूछ सकते हैं।"
}
