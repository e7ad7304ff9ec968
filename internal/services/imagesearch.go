package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// maxSearchImageSize caps uploads to the classifier at 5 MiB.
const maxSearchImageSize = 5 * 1024 * 1024

// maxAlternatives limits how many runner-up flowers a result carries.
const maxAlternatives = 2

// alternativeConfidenceFloor filters out low-confidence runner-ups.
const alternativeConfidenceFloor = 0.15

// ImageSearchConfig represents the flower classifier service configuration
type ImageSearchConfig struct {
	BaseURL string
}

// ImageSearchService sends customer photos to the external flower
// classifier and turns its raw label predictions into catalog search
// parameters. The classifier is best-effort; every failure mode maps to a
// graceful result the shop page can render, never an error.
type ImageSearchService struct {
	config ImageSearchConfig
	client *http.Client
}

// NewImageSearchService creates a new image search service
func NewImageSearchService(config ImageSearchConfig) *ImageSearchService {
	return &ImageSearchService{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FlowerDetection is one recognized flower, normalized for the catalog
type FlowerDetection struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ImageSearchResult is what the shop page gets back from a photo upload
type ImageSearchResult struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	Flower       *FlowerDetection  `json:"flower,omitempty"`
	Alternatives []FlowerDetection `json:"alternatives,omitempty"`
	Colors       []string          `json:"colors,omitempty"`
	Presentation string            `json:"presentation,omitempty"`
	RedirectURL  string            `json:"redirectUrl,omitempty"`
}

type classifierPrediction struct {
	ClassName  string  `json:"className"`
	Confidence float64 `json:"confidence"`
}

type classifierResponse struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Predictions []classifierPrediction `json:"predictions"`
}

var allowedSearchImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// AnalyzeImage validates the uploaded photo, asks the classifier for
// predictions and builds a search result from them. Precondition failures
// short-circuit before any network call.
func (s *ImageSearchService) AnalyzeImage(ctx context.Context, imageData []byte, fileName, contentType string) *ImageSearchResult {
	if len(imageData) == 0 {
		return &ImageSearchResult{
			Success: false,
			Message: "Vui lòng chọn một hình ảnh để tìm kiếm.",
		}
	}

	if len(imageData) > maxSearchImageSize {
		return &ImageSearchResult{
			Success: false,
			Message: "Hình ảnh không được vượt quá 5MB.",
		}
	}

	if !allowedSearchImageTypes[strings.ToLower(contentType)] {
		return &ImageSearchResult{
			Success: false,
			Message: "Chỉ hỗ trợ định dạng JPEG, PNG hoặc WEBP.",
		}
	}

	resp, err := s.predict(ctx, imageData, fileName, contentType)
	if err != nil {
		log.Printf("Flower classifier request failed: %v", err)
		return &ImageSearchResult{
			Success: false,
			Message: "Dịch vụ nhận diện hoa hiện không khả dụng. Vui lòng thử lại sau.",
		}
	}

	if len(resp.Predictions) == 0 {
		return &ImageSearchResult{
			Success: false,
			Message: "Không nhận diện được hoa trong ảnh. Vui lòng thử ảnh khác.",
		}
	}

	return s.buildResult(resp.Predictions)
}

// predict posts the image to the classifier's /predict endpoint as a
// multipart form
func (s *ImageSearchService) predict(ctx context.Context, imageData []byte, fileName, contentType string) (*classifierResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/predict", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result classifierResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	return &result, nil
}

// buildResult picks the best prediction and up to two alternatives. Known
// shop flowers win over exotic labels; when no prediction matches the
// priority set the top raw label is normalized and used as-is so the
// customer still gets a search.
func (s *ImageSearchService) buildResult(predictions []classifierPrediction) *ImageSearchResult {
	sorted := make([]classifierPrediction, len(predictions))
	copy(sorted, predictions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	candidates := make([]classifierPrediction, 0, len(sorted))
	for _, p := range sorted {
		if IsPriorityFlower(p.ClassName) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		candidates = sorted[:1]
	}

	top := candidates[0]
	topName := NormalizedFlowerName(top.ClassName)

	result := &ImageSearchResult{
		Success: true,
		Flower: &FlowerDetection{
			Name:       topName,
			Confidence: top.Confidence,
		},
		Colors:       DefaultColors(topName),
		Presentation: "Bó hoa",
	}

	flowerTypes := []string{topName}
	seen := map[string]bool{topName: true}
	for _, p := range candidates[1:] {
		if len(result.Alternatives) >= maxAlternatives {
			break
		}
		if p.Confidence <= alternativeConfidenceFloor {
			continue
		}
		name := NormalizedFlowerName(p.ClassName)
		if seen[name] {
			continue
		}
		seen[name] = true
		flowerTypes = append(flowerTypes, name)
		result.Alternatives = append(result.Alternatives, FlowerDetection{
			Name:       name,
			Confidence: p.Confidence,
		})
	}

	// The catalog search gets every recognized type; recognizedFlower keeps
	// the raw classifier label for display.
	query := url.Values{}
	query.Set("flowerTypes", strings.Join(flowerTypes, ","))
	query.Set("colors", strings.Join(result.Colors, ","))
	query.Set("recognizedFlower", top.ClassName)
	query.Set("confidence", fmt.Sprintf("%.2f", top.Confidence))
	result.RedirectURL = "/shop?" + query.Encode()

	return result
}
