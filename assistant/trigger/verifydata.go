package trigger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/voxboard/voxboard/assistant/contract"
)

const (
	defaultVerifyTimeout = 30 * time.Second

	// Character budget for the voice channel on the verify path.
	verifyMaxChars       = 400
	verifyTruncateNotice = "... Para mais detalhes, acesse o dashboard."
)

var verifyVoiceReplacer = strings.NewReplacer(
	"CRM", "sistema de vendas",
	"API", "sistema",
	"R$", "reais",
)

// VerifyData reconciles spoken claims against CRM deal records through the
// completion service. Responses are in Portuguese, matching the sales data.
type VerifyData struct {
	meta
	verifier contractx.Verifier
	timeout  time.Duration
}

func NewVerifyData(verifier contractx.Verifier, timeout time.Duration) *VerifyData {
	if timeout <= 0 {
		timeout = defaultVerifyTimeout
	}
	return &VerifyData{
		meta: meta{
			name: "verify_data",
			keywords: []string{
				"verificar dados", "verify data", "check data", "dados hubspot",
				"conferir vendas", "analisar dados", "verificar vendas", "check sales",
				"dados do crm", "crm data", "hubspot data", "sales data",
			},
			priority:           75,
			activationCriteria: "User wants to verify or analyze sales data from HubSpot CRM",
			positiveExamples: []string{
				"Verificar dados de vendas",
				"Analisar os dados do HubSpot",
				"Conferir as vendas do CRM",
				"Check sales data accuracy",
				"Verify HubSpot data",
			},
			negativeExamples: []string{
				"What's the weather?",
				"Search for something",
				"Hey bot",
				"Calculate something",
			},
		},
		verifier: verifier,
		timeout:  timeout,
	}
}

func (t *VerifyData) Action(ctx context.Context, query string) (contractx.Response, error) {
	log.Info().Str("query", query).Msg("verify data trigger activated")

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	answer, err := t.verifier.Verify(callCtx, ExtractVerifyContext(query), PrepareVerifyPrompt(query))
	if err != nil {
		return t.failureResponse(err), nil
	}

	return contractx.Response{
		Text:  formatVerifyForVoice(answer),
		Speak: true,
		VoiceSettings: &contractx.VoiceSettings{
			Voice: "alloy",
			Speed: 1.0,
		},
	}, nil
}

func (t *VerifyData) failureResponse(err error) contractx.Response {
	log.Error().Err(err).Msg("data verification failed")
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return speak("A verificação de dados demorou muito para responder. Tente novamente.")
	case errors.Is(err, contractx.ErrUnavailable):
		return speak("Não consegui conectar ao serviço de verificação de dados. Tente novamente.")
	case errors.Is(err, contractx.ErrUpstreamStatus):
		return speak(fmt.Sprintf("Erro ao verificar dados: %v", err))
	default:
		return speak("Desculpe, houve um erro ao verificar os dados. Tente novamente.")
	}
}

var verifyContexts = []keywordGroup{
	{words: []string{"vendas"}, value: "Análise de dados de vendas"},
	{words: []string{"deals"}, value: "Análise de negócios"},
	{words: []string{"pipeline"}, value: "Análise de pipeline de vendas"},
	{words: []string{"receita"}, value: "Análise de receita"},
	{words: []string{"revenue"}, value: "Revenue analysis"},
	{words: []string{"sales"}, value: "Sales analysis"},
}

// ExtractVerifyContext classifies the query into a verification context.
func ExtractVerifyContext(query string) string {
	return firstMatch(query, verifyContexts, "Verificação geral de dados de vendas")
}

// PrepareVerifyPrompt maps the query onto a verification instruction. Unlike
// the market fit path, the generic case embeds the user's question so the
// model can answer it against the deal data.
func PrepareVerifyPrompt(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "incorreto") || strings.Contains(q, "errado"):
		return "Analise os dados e identifique possíveis inconsistências ou erros nos dados apresentados."
	case strings.Contains(q, "resumo") || strings.Contains(q, "summary"):
		return "Forneça um resumo dos dados de vendas atuais."
	case strings.Contains(q, "performance") || strings.Contains(q, "desempenho"):
		return "Analise a performance das vendas baseada nos dados do CRM."
	default:
		return fmt.Sprintf("Analise os dados de vendas e responda à seguinte pergunta: %s", query)
	}
}

func formatVerifyForVoice(answer string) string {
	if runes := []rune(answer); len(runes) > verifyMaxChars+100 {
		answer = string(runes[:verifyMaxChars]) + verifyTruncateNotice
	}
	return verifyVoiceReplacer.Replace(answer)
}
