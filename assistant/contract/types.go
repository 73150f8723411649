package contract

import "time"

// VoiceSettings carries per-response hints for the speech synthesis channel.
type VoiceSettings struct {
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

// Response is what every trigger action hands back to the voice/chat layer.
// Text is already post-processed for the output channel; raw collaborator
// errors never appear here.
type Response struct {
	Text          string         `json:"text"`
	Speak         bool           `json:"speak"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

// ProcessResult pairs the selected trigger with its response.
type ProcessResult struct {
	Trigger  string   `json:"trigger"`
	Response Response `json:"result"`
}

// ToolResult is the uniform shape every dispatched tool resolves to.
// Exactly one of Result and Error is populated.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ContactSummary is a CRM contact projected down to the dashboard fields.
type ContactSummary struct {
	ID                string `json:"id"`
	Nome              string `json:"nome"`
	SegmentoDaEmpresa string `json:"segmento_da_empresa,omitempty"`
	NumEmployees      string `json:"numemployees,omitempty"`
}

// DashboardData aggregates one full dashboard round trip: CRM contacts,
// product page text, and the completion generated from both.
type DashboardData struct {
	LLMResponse string           `json:"llm_response"`
	Contacts    []ContactSummary `json:"hubspot_contacts"`
	NotionText  string           `json:"notion_page_text"`
}

// SessionMessage is an inbound agent message for a session. Only
// type=="tool_call" carries dispatch semantics; everything else is echoed.
type SessionMessage struct {
	Type      string         `json:"type"`
	ToolName  string         `json:"tool_name,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// SessionReply is the uniform reply to a session message.
type SessionReply struct {
	Success   bool       `json:"success"`
	Type      string     `json:"type"`
	ToolName  string     `json:"tool_name,omitempty"`
	Result    ToolResult `json:"result,omitzero"`
	SessionID string     `json:"session_id,omitempty"`
}

// TriggerInfo is the introspection view of a registered trigger.
type TriggerInfo struct {
	Name               string   `json:"name"`
	Priority           int      `json:"priority"`
	Keywords           []string `json:"keywords"`
	ActivationCriteria string   `json:"criteria"`
}

// SessionList is the list-sessions projection.
type SessionList struct {
	Sessions []string `json:"sessions"`
	Count    int      `json:"count"`
}

// Clock is injected where timestamps matter, so tests can pin time.
type Clock func() time.Time
