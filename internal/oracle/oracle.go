// Package oracle turns free-form user text into candidate expense records
// via an OpenAI chat model. All output normalization happens here, once, at
// the boundary: downstream code only ever sees an empty result, a list of
// valid candidates, or ErrMalformed.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/jwrobel/budzetnik/internal/categories"
	"github.com/jwrobel/budzetnik/internal/expense"
)

// ErrMalformed marks oracle output that could not be interpreted as a
// record list. It is distinct from an empty result, which is a valid "no
// expense found" answer.
var ErrMalformed = errors.New("oracle: malformed output")

// Parser is what the confirmation controller depends on.
type Parser interface {
	Parse(ctx context.Context, text string, now time.Time) ([]expense.Record, error)
}

// Client is the OpenAI-backed Parser.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

func New(apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{api: openai.NewClient(apiKey), model: model, timeout: timeout}
}

// Parse asks the model to extract expenses from text. The call is bounded
// by the configured timeout; the oracle is the only unbounded external
// dependency on the critical path, and a timeout counts as a parse failure.
func (c *Client) Parse(ctx context.Context, text string, now time.Time) ([]expense.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(now)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no response within %s", ErrMalformed, c.timeout)
		}
		return nil, fmt.Errorf("oracle call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrMalformed)
	}
	return DecodeRecords(resp.Choices[0].Message.Content)
}

// systemPrompt carries today's date, the current-year rule for bare dates,
// and the category table.
func systemPrompt(now time.Time) string {
	today := now.Format("2006-01-02")
	year := now.Year()
	return fmt.Sprintf(
		"Jesteś asystentem finansowym. Dzisiejsza data to: %s. "+
			"ZASADA NR 1: Jeśli użytkownik poda datę bez roku (np. '1 listopada', '25.04', 'wczoraj'), "+
			"ZAWSZE przyjmij, że chodzi o rok %d. "+
			"Nie wpisuj wcześniejszych lat, chyba że użytkownik wyraźnie je napisze.\n\n"+
			"Przeanalizuj tekst użytkownika. Tekst może zawierać JEDEN lub WIELE wydatków. "+
			"Dla KAŻDEGO wydatku wyciągnij:\n"+
			"1. Kwotę (liczba float).\n"+
			"2. Datę wydatku w formacie YYYY-MM-DD (pamiętaj o ZASADZIE NR 1).\n"+
			"3. Kategorię i podkategorię pasującą do listy: %s\n"+
			"4. Krótki opis — tylko nazwa wydatku, bez daty/kategorii/ceny.\n\n"+
			"Jeśli tekst NIE zawiera żadnego wydatku (np. powitanie, pytanie, rozmowa), "+
			"zwróć pusty JSON array: []\n\n"+
			"Zwróć WYŁĄCZNIE JSON array (nawet dla jednego wydatku): "+
			`[{"amount": 0.0, "date": "YYYY-MM-DD", "category": "String", "subcategory": "String", "description": "String"}]`,
		today, year, categories.PromptContext())
}

type rawRecord struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Description string  `json:"description"`
}

// DecodeRecords normalizes raw model output: markdown fences are stripped,
// a bare object is wrapped into a one-element list, and every record must
// pass validation and belong to the taxonomy. Anything else is ErrMalformed.
func DecodeRecords(content string) ([]expense.Record, error) {
	content = stripFences(content)

	var raws []rawRecord
	if err := json.Unmarshal([]byte(content), &raws); err != nil {
		var single rawRecord
		if err2 := json.Unmarshal([]byte(content), &single); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		raws = []rawRecord{single}
	}
	if len(raws) == 0 {
		return nil, nil
	}

	out := make([]expense.Record, 0, len(raws))
	for _, r := range raws {
		rec := expense.Record{
			Amount:      decimal.NewFromFloat(r.Amount),
			Date:        strings.TrimSpace(r.Date),
			Category:    strings.TrimSpace(r.Category),
			Subcategory: strings.TrimSpace(r.Subcategory),
			Description: strings.TrimSpace(r.Description),
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if !categories.Valid(rec.Category, rec.Subcategory) {
			return nil, fmt.Errorf("%w: unknown category pair %q > %q", ErrMalformed, rec.Category, rec.Subcategory)
		}
		out = append(out, rec)
	}
	return out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.ReplaceAll(s, "```json", "")
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}
