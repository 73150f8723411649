package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/voxboard/voxboard/assistant/contract"
)

// Executor routes a (tool, args) pair to a handler and normalizes the
// outcome into a ToolResult. Handler failures land in ToolResult.Error;
// the returned error is reserved for dispatch-level problems and stays nil
// for unknown tools and collaborator failures alike.
type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// AnalysisOutput is the agent-facing result of the dashboard analysis tools.
type AnalysisOutput struct {
	Summary          string `json:"summary"`
	Details          string `json:"details"`
	ContactsAnalyzed int    `json:"contacts_analyzed"`
	LLMResponse      string `json:"llm_response"`
}

// VerifyOutput is the agent-facing result of the verify_data tool.
type VerifyOutput struct {
	Result  string `json:"result"`
	Details string `json:"details"`
}

// NewExecutor builds the dispatcher over the analysis and verification
// services. The four convenience tools are fixed-context wrappers around the
// product market fit analysis.
func NewExecutor(analyzer contractx.Analyzer, verifier contractx.Verifier) Executor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolProductMarketFit:
			query, _ := args["query"].(string)
			params, _ := args["parameters"].(map[string]any)
			analysisType := stringParam(params, "analysis_type", "comprehensive")
			contextStr := stringParam(params, "context", "Análise de produto e mercado")
			return runAnalysis(ctx, analyzer, tool, contextStr, refinePromptForAgent(query, analysisType)), nil

		case ToolContactSegments:
			return runAnalysis(ctx, analyzer, tool,
				"Análise de segmentação de contatos",
				refinePromptForAgent("Analyze contact segments", "segments")), nil

		case ToolLeadQualityAnalysis:
			return runAnalysis(ctx, analyzer, tool,
				"Análise de qualidade de leads",
				refinePromptForAgent("Analyze lead quality", "lead_quality")), nil

		case ToolMarketFitAnalysis:
			return runAnalysis(ctx, analyzer, tool,
				"Análise de product market fit",
				refinePromptForAgent("Analyze product market fit", "market_fit")), nil

		case ToolMarketingStrategy:
			return runAnalysis(ctx, analyzer, tool,
				"Estratégia de marketing e vendas",
				refinePromptForAgent("Develop marketing strategy", "strategy")), nil

		case ToolVerifyData:
			contextStr := stringParam(args, "context", "General data verification")
			prompt := stringParam(args, "prompt", "Analyze the sales data")
			return runVerify(ctx, verifier, tool, contextStr, prompt), nil

		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("unknown tool: %s", tool),
			}, nil
		}
	}
}

func runAnalysis(ctx context.Context, analyzer contractx.Analyzer, tool, contextStr, prompt string) contractx.ToolResult {
	data, err := analyzer.DashboardData(ctx, contextStr, prompt)
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}
	}
	return contractx.ToolResult{
		Tool:   tool,
		Result: formatAnalysisOutput(data),
	}
}

func runVerify(ctx context.Context, verifier contractx.Verifier, tool, contextStr, prompt string) contractx.ToolResult {
	answer, err := verifier.Verify(ctx, contextStr, prompt)
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}
	}
	return contractx.ToolResult{
		Tool: tool,
		Result: VerifyOutput{
			Result:  answer,
			Details: "Analysis completed using HubSpot CRM data",
		},
	}
}

// refinePromptForAgent maps the agent's analysis type (or, for comprehensive
// requests, the query content) onto a pre-authored instruction.
func refinePromptForAgent(query, analysisType string) string {
	switch analysisType {
	case "segments":
		return "Identifique e analise os principais segmentos de empresa na nossa base de contatos. Para cada segmento, forneça: características principais, tamanho do mercado, potencial de conversão e estratégias recomendadas."
	case "lead_quality":
		return "Avalie a qualidade dos leads em nossa base de contatos. Identifique os 5 mais promissores, explique os critérios de qualificação e sugira próximos passos para cada um."
	case "market_fit":
		return "Analise o product market fit com base nos dados de contatos e informações do produto. Identifique padrões de ajuste produto-mercado, gaps e oportunidades de crescimento."
	case "strategy":
		return "Com base na análise dos contatos e dados do produto, desenvolva uma estratégia de marketing e vendas. Inclua recomendações específicas para cada segmento principal."
	}

	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "segment"):
		return "Faça uma análise detalhada dos segmentos de mercado presentes na nossa base de contatos."
	case strings.Contains(q, "lead") && strings.Contains(q, "quality"):
		return "Avalie a qualidade dos leads e identifique os mais promissores."
	case strings.Contains(q, "strategy"):
		return "Sugira uma estratégia de marketing baseada nos dados disponíveis."
	case strings.Contains(q, "fit") || strings.Contains(q, "pmf"):
		return "Analise o product market fit com base nos dados de contatos."
	default:
		return "Faça uma análise abrangente dos nossos contatos e identifique insights-chave sobre product market fit, segmentação e oportunidades de crescimento."
	}
}

func formatAnalysisOutput(data contractx.DashboardData) AnalysisOutput {
	count := len(data.Contacts)
	if strings.TrimSpace(data.LLMResponse) == "" {
		return AnalysisOutput{
			Summary:          fmt.Sprintf("Analyzed %d contacts but couldn't generate specific insights.", count),
			Details:          "The analysis completed but no detailed insights were generated. Please try rephrasing your request.",
			ContactsAnalyzed: count,
		}
	}

	// Summary keeps the first three non-empty lines, lightly cleaned.
	var summaryLines []string
	for _, line := range strings.Split(data.LLMResponse, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			summaryLines = append(summaryLines, trimmed)
			if len(summaryLines) >= 3 {
				break
			}
		}
	}
	summary := strings.Join(summaryLines, " ")
	summary = strings.ReplaceAll(summary, "**", "")
	summary = strings.ReplaceAll(summary, "*", "")
	summary = strings.ReplaceAll(summary, "Com base na análise", "Based on the analysis")

	return AnalysisOutput{
		Summary:          summary,
		Details:          fmt.Sprintf("Analysis based on %d contacts from HubSpot and product information from Notion.\n\n%s", count, data.LLMResponse),
		ContactsAnalyzed: count,
		LLMResponse:      data.LLMResponse,
	}
}

func stringParam(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
