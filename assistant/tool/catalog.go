// Package tool exposes the assistant's handlers as schema-described tools
// for an external conversational agent, and dispatches incoming tool calls
// onto the same business services the voice triggers use.
package tool

import (
	"github.com/cloudwego/eino/schema"
)

const (
	ToolProductMarketFit    = "product_market_fit_tool"
	ToolContactSegments     = "get_contact_segments"
	ToolLeadQualityAnalysis = "get_lead_quality_analysis"
	ToolMarketFitAnalysis   = "get_market_fit_analysis"
	ToolMarketingStrategy   = "get_marketing_strategy"
	ToolVerifyData          = "verify_data_tool"
)

// Catalog returns the static tool descriptors advertised to the agent. Built
// once at startup; sessions snapshot it at creation time.
func Catalog() []*schema.ToolInfo {
	optionalParams := map[string]*schema.ParameterInfo{
		"parameters": {
			Type: schema.Object,
			Desc: "Optional parameters for the analysis",
		},
	}

	return []*schema.ToolInfo{
		{
			Name: ToolProductMarketFit,
			Desc: "Analyze product market fit, lead quality, market segments, and business intelligence using HubSpot contacts and Notion product data",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "The user's analysis request or question",
					Required: true,
				},
				"parameters": {
					Type: schema.Object,
					Desc: "Optional parameters for the analysis",
					SubParams: map[string]*schema.ParameterInfo{
						"analysis_type": {
							Type: schema.String,
							Desc: "Type of analysis to perform",
							Enum: []string{"segments", "lead_quality", "market_fit", "strategy", "comprehensive"},
						},
						"context": {
							Type: schema.String,
							Desc: "Context for the analysis (e.g., 'Análise de segmentação de mercado')",
						},
					},
				},
			}),
		},
		{
			Name:        ToolContactSegments,
			Desc:        "Get detailed analysis of contact segments from HubSpot data",
			ParamsOneOf: schema.NewParamsOneOfByParams(optionalParams),
		},
		{
			Name:        ToolLeadQualityAnalysis,
			Desc:        "Analyze lead quality and identify most promising prospects",
			ParamsOneOf: schema.NewParamsOneOfByParams(optionalParams),
		},
		{
			Name:        ToolMarketFitAnalysis,
			Desc:        "Analyze product market fit based on contact data and product information",
			ParamsOneOf: schema.NewParamsOneOfByParams(optionalParams),
		},
		{
			Name:        ToolMarketingStrategy,
			Desc:        "Get marketing strategy recommendations based on contact and product data",
			ParamsOneOf: schema.NewParamsOneOfByParams(optionalParams),
		},
		{
			Name: ToolVerifyData,
			Desc: "Verify and analyze sales data from HubSpot CRM using AI analysis",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"context": {
					Type:     schema.String,
					Desc:     "Context for the data analysis (e.g., 'Sales data analysis', 'Revenue verification')",
					Required: true,
				},
				"prompt": {
					Type:     schema.String,
					Desc:     "Specific question or analysis request about the sales data",
					Required: true,
				},
			}),
		},
	}
}
