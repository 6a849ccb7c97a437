package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/pkg/config"
)

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	draftPrompt = `Eres asistente de compras de una empresa de instalaciones. A partir de un requerimiento en texto libre
propones las líneas de una orden de compra. Usa SOLO artículos del catálogo entregado (por item_id); cuando algo
no esté en el catálogo déjalo con item_id vacío. Devuelve ÚNICAMENTE un objeto JSON con esta estructura:
{
  "lines": [{"item_id": "<id o vacío>", "item_name": "<nombre>", "quantity": <número>, "type": "Material" | "Servicio"}],
  "reasoning": "<explicación breve en español>"
}`

	suppliersPrompt = `Eres asistente de compras. Ordena los proveedores candidatos del más al menos adecuado para la
necesidad descrita. Usa SOLO los supplier_id entregados. Devuelve ÚNICAMENTE un objeto JSON:
{"suggestions": [{"supplier_id": "<id>", "reason": "<máximo 200 caracteres en español>"}]}`
)

// GeminiService adaptador que implementa LLMService llamando a la API REST de Google Gemini.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. Si APIKey está vacío las llamadas fallan sin salir a la red.
func NewGeminiService(cfg config.GeminiConfig) *GeminiService {
	return &GeminiService{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// WithBaseURL cambia el endpoint (tests, proxies).
func (s *GeminiService) WithBaseURL(u string) *GeminiService {
	s.baseURL = strings.TrimRight(u, "/")
	return s
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // "application/json" → JSON puro garantizado
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type draftPayload struct {
	Lines []struct {
		ItemID   string          `json:"item_id"`
		ItemName string          `json:"item_name"`
		Quantity decimal.Decimal `json:"quantity"`
		Type     string          `json:"type"`
	} `json:"lines"`
	Reasoning string `json:"reasoning"`
}

type suppliersPayload struct {
	Suggestions []dto.SupplierSuggestion `json:"suggestions"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// DraftPurchaseOrder propone líneas de orden. El filtrado contra el catálogo lo hace el caso de uso.
func (s *GeminiService) DraftPurchaseOrder(ctx context.Context, request string, catalog []dto.CatalogHint) (*dto.PurchaseOrderDraft, error) {
	catalogJSON, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar catálogo: %w", err)
	}
	userText := fmt.Sprintf("Catálogo:\n%s\n\nRequerimiento:\n%s", catalogJSON, request)

	var out draftPayload
	if err := s.generate(ctx, draftPrompt, userText, 1024, &out); err != nil {
		return nil, err
	}

	draft := &dto.PurchaseOrderDraft{Reasoning: out.Reasoning}
	for _, l := range out.Lines {
		draft.Lines = append(draft.Lines, dto.DraftLine{
			ItemID:   l.ItemID,
			ItemName: l.ItemName,
			Quantity: l.Quantity,
			Type:     l.Type,
		})
	}
	return draft, nil
}

// SuggestSuppliers ordena los proveedores candidatos para una necesidad.
func (s *GeminiService) SuggestSuppliers(ctx context.Context, need string, suppliers []dto.SupplierHint) ([]dto.SupplierSuggestion, error) {
	suppliersJSON, err := json.Marshal(suppliers)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar proveedores: %w", err)
	}
	userText := fmt.Sprintf("Proveedores:\n%s\n\nNecesidad:\n%s", suppliersJSON, need)

	var out suppliersPayload
	if err := s.generate(ctx, suppliersPrompt, userText, 512, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// generate envía un prompt y decodifica en out el JSON devuelto por el modelo.
func (s *GeminiService) generate(ctx context.Context, system, userText string, maxTokens int, out any) error {
	if s.apiKey == "" {
		return fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: userText}}}},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2,
			MaxOutputTokens:  maxTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}

	rawJSON := strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(rawJSON), out); err != nil {
		return fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, rawJSON)
	}
	return nil
}
