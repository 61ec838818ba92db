// Package naming, foto için insan-okur dosya adı ve kısa açıklama üretir.
// DeepSeek'in OpenAI uyumlu chat completions API'sini kullanır; servis
// çökerse upload asla bloklanmaz, timestamp tabanlı fallback isim döner.
package naming

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	maxFileNameLength = 50
	requestTimeout    = 30 * time.Second

	fileNameSystemPrompt = `Eres un asistente para técnicos e instaladores. Tu trabajo es analizar descripciones de fotos de obras y generar un nombre de archivo descriptivo en español.

Reglas:
- Máximo 5 palabras
- Usa guiones bajos entre palabras
- Sin caracteres especiales ni acentos
- Formato: Elemento_Estado_Ubicacion.jpg
- Ejemplos buenos: "Cuadro_Electrico_Instalado.jpg", "Tuberia_Reparada_Cocina.jpg", "Cableado_Terminado_OK.jpg"

Responde SOLO con el nombre del archivo, nada más.`

	descriptionSystemPrompt = "Describe brevemente esta imagen de trabajo técnico en español. Máximo 2 frases. Sé específico sobre los elementos visibles en obras de construcción o instalación."
)

type Assistant interface {
	SuggestFileName(ctx context.Context, imageData string) string
	SuggestDescription(ctx context.Context, imageData string) string
}

type DeepSeekClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewDeepSeekClient(apiKey, baseURL, model string) *DeepSeekClient {
	return &DeepSeekClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *DeepSeekClient) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("naming service returned status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("naming service returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// SuggestFileName foto için açıklayıcı bir dosya adı önerir. Her türlü
// hata timestamp fallback'ine düşer; çağıran hata görmez.
func (c *DeepSeekClient) SuggestFileName(ctx context.Context, imageData string) string {
	userPrompt := fmt.Sprintf(
		"Esta foto muestra un trabajo de instalación o reparación técnica. La imagen fue tomada en una obra. Genera un nombre de archivo descriptivo basándote en un trabajo de construcción típico. Si tienes contexto adicional: %s",
		truncate(imageData, 100),
	)

	raw, err := c.complete(ctx, fileNameSystemPrompt, userPrompt, 50)
	if err != nil || raw == "" {
		return FallbackFileName(time.Now())
	}

	name := SanitizeFileName(raw)
	if name == "" {
		return FallbackFileName(time.Now())
	}
	return name
}

// SuggestDescription best-effort; her hata boş string'e yutulur
func (c *DeepSeekClient) SuggestDescription(ctx context.Context, imageData string) string {
	userPrompt := "Genera una descripción profesional para una foto de obra de construcción o instalación técnica."

	text, err := c.complete(ctx, descriptionSystemPrompt, userPrompt, 100)
	if err != nil {
		return ""
	}
	return text
}

var disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9_\s]`)
var whitespace = regexp.MustCompile(`\s+`)

// SanitizeFileName model çıktısını ASCII harf/rakam/alt çizgiye indirger,
// 50 karaktere kısaltır ve .jpg uzantısını garanti eder. Kullanılabilir
// bir gövde kalmazsa boş string döner.
func SanitizeFileName(raw string) string {
	// uzantıyı gövdeden ayır, yoksa nokta süzülünce "jpg" gövdeye yapışıyor
	name := strings.TrimSpace(raw)
	if strings.HasSuffix(strings.ToLower(name), ".jpg") {
		name = name[:len(name)-len(".jpg")]
	}

	name = disallowedChars.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	name = truncate(name, maxFileNameLength)

	if strings.Trim(name, "_") == "" {
		return ""
	}

	return name + ".jpg"
}

// FallbackFileName upload'un her koşulda kullanılabilir bir isme sahip
// olmasını sağlar
func FallbackFileName(now time.Time) string {
	return fmt.Sprintf("Foto_%d.jpg", now.UnixMilli())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
