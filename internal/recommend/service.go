package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cazuela-chapina/cazuela/internal/catalog"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

const maxPromptLen = 2000

// Menu is the slice of the catalog the assistant sees.
type Menu interface {
	List(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error)
}

// Completer abstracts the chat API for testing.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Service decorates prompts with the current menu before forwarding.
type Service struct {
	menu      Menu
	completer Completer
}

// NewService constructs a Service.
func NewService(menu Menu, completer Completer) *Service {
	return &Service{menu: menu, completer: completer}
}

type menuEntry struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Price      *float64 `json:"price,omitempty"`
	Attributes string   `json:"attributes,omitempty"`
}

// Recommend forwards the question with the menu snapshot as context.
func (s *Service) Recommend(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", shared.ErrValidation)
	}
	if len(prompt) > maxPromptLen {
		return "", fmt.Errorf("%w: prompt too long", shared.ErrValidation)
	}

	products, err := s.menu.List(ctx, catalog.Filter{})
	if err != nil {
		return "", err
	}
	entries := make([]menuEntry, 0, len(products))
	for _, p := range products {
		if !p.Available {
			continue
		}
		entries = append(entries, menuEntry{
			Name:       p.Name,
			Kind:       string(p.Kind),
			Price:      p.BasePrice,
			Attributes: catalog.AttributeString(p.Attributes),
		})
	}
	snapshot, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}

	system := "Eres el asistente de una tienda de tamales y bebidas tradicionales guatemaltecas. " +
		"Recomienda únicamente productos del siguiente menú (JSON): " + string(snapshot) +
		" Responde en el idioma del cliente, breve y amable."

	return s.completer.Complete(ctx, system, prompt)
}
