package trigger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/voxboard/voxboard/assistant/contract"
	voicex "github.com/voxboard/voxboard/assistant/voice"
)

const defaultMarketFitTimeout = 30 * time.Second

// ProductMarketFit analyzes product market fit, lead quality, and market
// segments from CRM contacts plus the product document, and narrates the
// result for the voice channel.
type ProductMarketFit struct {
	meta
	analyzer contractx.Analyzer
	timeout  time.Duration
}

func NewProductMarketFit(analyzer contractx.Analyzer, timeout time.Duration) *ProductMarketFit {
	if timeout <= 0 {
		timeout = defaultMarketFitTimeout
	}
	return &ProductMarketFit{
		meta: meta{
			name: "product_market_fit",
			keywords: []string{
				"product market fit", "pmf analysis", "market analysis",
				"lead analysis", "segmento análise", "análise de mercado",
				"dashboard analysis", "hubspot analysis", "contact analysis",
				"business intelligence", "sales intelligence", "marketing insights",
				"análise de leads", "análise de contatos", "inteligência de vendas",
			},
			priority:           75,
			activationCriteria: "User wants to analyze product market fit, leads, contacts, or business intelligence using HubSpot and Notion data",
			positiveExamples: []string{
				"Analyze product market fit for our leads",
				"Give me insights about our HubSpot contacts",
				"What segments are most promising in our database?",
				"Analyze our lead quality",
				"Show me market analysis from our contacts",
				"Faça uma análise de product market fit",
				"Analise nossos leads do HubSpot",
				"Quais segmentos são mais promissores?",
			},
			negativeExamples: []string{
				"What's the weather?",
				"Search for something online",
				"Hey bot",
				"Set a reminder",
				"Play music",
			},
		},
		analyzer: analyzer,
		timeout:  timeout,
	}
}

func (t *ProductMarketFit) Action(ctx context.Context, query string) (contractx.Response, error) {
	log.Info().Str("query", query).Msg("product market fit trigger activated")

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	data, err := t.analyzer.DashboardData(callCtx, ExtractMarketFitContext(query), RefineMarketFitPrompt(query))
	if err != nil {
		return t.failureResponse(err), nil
	}

	return contractx.Response{
		Text:  formatDashboardForVoice(data),
		Speak: true,
		VoiceSettings: &contractx.VoiceSettings{
			Voice: "alloy",
			Speed: 0.9,
		},
	}, nil
}

func (t *ProductMarketFit) failureResponse(err error) contractx.Response {
	log.Error().Err(err).Msg("product market fit analysis failed")
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return speak("The market analysis is taking longer than expected. Please try again in a moment.")
	case errors.Is(err, contractx.ErrUnavailable):
		return speak("I couldn't connect to the analysis service. Please check if the product market fit tool is running.")
	default:
		return speak("Sorry, there was an error performing the market analysis. Please try again.")
	}
}

var marketFitContexts = []keywordGroup{
	{words: []string{"lead", "leads", "prospects"}, value: "Análise de leads e prospecção de clientes"},
	{words: []string{"segment", "segmento", "market"}, value: "Análise de segmentação de mercado"},
	{words: []string{"contact", "contato", "cliente"}, value: "Análise de base de contatos"},
	{words: []string{"fit", "pmf", "product market"}, value: "Análise de product market fit"},
	{words: []string{"sales", "vendas", "revenue"}, value: "Análise de vendas e receita"},
}

// ExtractMarketFitContext classifies the query into one of a small fixed set
// of analysis contexts, first group hit wins.
func ExtractMarketFitContext(query string) string {
	return firstMatch(query, marketFitContexts, "Análise geral de marketing e produto")
}

// RefineMarketFitPrompt maps the query onto a pre-written analysis
// instruction. The user's literal text is never forwarded to the completion
// service on this path.
func RefineMarketFitPrompt(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "segment") || strings.Contains(q, "segmento"):
		return "Identifique e analise os principais segmentos de empresa na nossa base de contatos. Destaque características, potencial de conversão e estratégias recomendadas para cada segmento."
	case strings.Contains(q, "lead") && (strings.Contains(q, "quality") || strings.Contains(q, "qualidade")):
		return "Avalie a qualidade dos leads em nossa base de contatos. Identifique os mais promissores e sugira critérios de qualificação."
	case strings.Contains(q, "promising") || strings.Contains(q, "promissor"):
		return "Identifique os 5 contatos mais promissores da nossa base e explique por que são considerados leads de alta qualidade."
	case strings.Contains(q, "market") && strings.Contains(q, "fit"):
		return "Analise o product market fit com base nos dados de contatos. Identifique padrões de ajuste produto-mercado e oportunidades de crescimento."
	case strings.Contains(q, "strategy") || strings.Contains(q, "estratégia"):
		return "Com base na análise dos contatos e dados do produto, sugira uma estratégia de marketing e vendas personalizada para cada segmento principal."
	default:
		return "Faça uma análise abrangente dos nossos contatos e identifique insights-chave sobre product market fit, segmentação e oportunidades de crescimento."
	}
}

func formatDashboardForVoice(data contractx.DashboardData) string {
	count := len(data.Contacts)
	if strings.TrimSpace(data.LLMResponse) == "" {
		return fmt.Sprintf("I analyzed %d contacts but couldn't generate specific insights. Please try rephrasing your question.", count)
	}
	intro := fmt.Sprintf("Based on analysis of %d contacts from HubSpot and our product information, here's what I found:\n\n", count)
	return intro + voicex.ForSpeech(data.LLMResponse)
}

func speak(text string) contractx.Response {
	return contractx.Response{Text: text, Speak: true}
}
