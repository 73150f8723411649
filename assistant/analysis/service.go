// Package analysis assembles business data from the CRM and the product page
// and runs it through a completion model. The dashboard path feeds a
// marketing-specialist persona; the verification path feeds a sales-data
// fact checker grounded on the deal list.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/voxboard/voxboard/assistant/contract"
)

// DefaultNotionPageID points at the product context page the dashboard
// analysis reads when no page is configured.
const DefaultNotionPageID = "22f96f42586680eabeb1ddc80400c8a5"

const dashboardSystemTemplate = `Seja um especialista em Marketing e Produto que está em uma reunião estratégica e tem acesso aos seguintes dados:

CONTEXTO: %s

DADOS DO HUBSPOT (Contatos):
%s

DADOS DOS PRODUTO (Página Notion):
%s

Use essas informações para responder às solicitações do usuário de forma precisa e contextual.`

// ContactSource yields the contact summaries the dashboard analysis reasons
// over.
type ContactSource interface {
	ContactSummaries(ctx context.Context) ([]contractx.ContactSummary, error)
}

// PageSource yields the flattened product page text.
type PageSource interface {
	PageText(ctx context.Context, pageID string) (string, error)
}

// DealSource yields the formatted deal list the verification prompt embeds.
type DealSource interface {
	DealLines(ctx context.Context) (string, error)
}

// Service is the dashboard analyzer: CRM contacts plus product page text fed
// to the completion model under one system persona.
type Service struct {
	contacts  ContactSource
	pages     PageSource
	completer contractx.Completer
	pageID    string
}

var _ contractx.Analyzer = (*Service)(nil)

func NewService(contacts ContactSource, pages PageSource, completer contractx.Completer, pageID string) *Service {
	if pageID == "" {
		pageID = DefaultNotionPageID
	}
	return &Service{
		contacts:  contacts,
		pages:     pages,
		completer: completer,
		pageID:    pageID,
	}
}

// DashboardData gathers both data sources and completes the prompt. Either
// source failing fails the whole call; a stale or partial analysis is worse
// than an explicit error.
func (s *Service) DashboardData(ctx context.Context, contextStr, prompt string) (contractx.DashboardData, error) {
	contacts, err := s.contacts.ContactSummaries(ctx)
	if err != nil {
		return contractx.DashboardData{}, fmt.Errorf("fetch contacts: %w", err)
	}

	notionText, err := s.pages.PageText(ctx, s.pageID)
	if err != nil {
		return contractx.DashboardData{}, fmt.Errorf("fetch product page: %w", err)
	}

	contactsJSON, err := json.Marshal(contacts)
	if err != nil {
		return contractx.DashboardData{}, fmt.Errorf("encode contacts: %w", err)
	}

	system := fmt.Sprintf(dashboardSystemTemplate, contextStr, contactsJSON, notionText)
	answer, err := s.completer.Complete(ctx, system, prompt)
	if err != nil {
		return contractx.DashboardData{}, fmt.Errorf("dashboard completion: %w", err)
	}

	log.Debug().
		Int("contacts", len(contacts)).
		Int("notion_chars", len(notionText)).
		Msg("dashboard analysis complete")

	return contractx.DashboardData{
		LLMResponse: answer,
		Contacts:    contacts,
		NotionText:  notionText,
	}, nil
}

const verifySystem = "Você é um assistente que ajuda a analisar dados de vendas. " +
	"Se alguém citar um dado, você deve analisar os dados no Hubspot e corrigir " +
	"imediatamente se estiver errado. Seja objetivo na correção e cite dados."

// VerifyService checks claims against the CRM deal list.
type VerifyService struct {
	deals     DealSource
	completer contractx.Completer
}

var _ contractx.Verifier = (*VerifyService)(nil)

func NewVerifyService(deals DealSource, completer contractx.Completer) *VerifyService {
	return &VerifyService{deals: deals, completer: completer}
}

func (s *VerifyService) Verify(ctx context.Context, contextStr, prompt string) (string, error) {
	dealLines, err := s.deals.DealLines(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch deals: %w", err)
	}

	user := strings.Join([]string{
		"[Dados do CRM]",
		dealLines,
		"",
		"[Contexto]",
		contextStr,
		"",
		"[Prompt]",
		prompt,
	}, "\n")

	answer, err := s.completer.Complete(ctx, verifySystem, user)
	if err != nil {
		return "", fmt.Errorf("verify completion: %w", err)
	}
	return answer, nil
}
