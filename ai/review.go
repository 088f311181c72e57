package ai

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/agentfoundry/agent-directory/core"
)

// SubmissionReview is an advisory pre-screen of a newly submitted agent.
// It is logged for moderators; it never changes the stored record.
type SubmissionReview struct {
	Summary     string   `json:"summary"`
	RiskFactors []string `json:"risk_factors"`
	Recommend   bool     `json:"recommend"`
}

// GetSubmissionReview asks the model for a short moderation note on a
// pending agent. Returns the zero value on any failure.
func GetSubmissionReview(agent core.Agent) SubmissionReview {
	payload, err := json.Marshal(agent)
	if err != nil {
		return SubmissionReview{}
	}

	prompt := fmt.Sprintf(`You are a moderator for a public directory of AI agents.
	A new agent has been submitted and is awaiting review. Its full record is:

	%s

	Assess whether this submission looks suitable for a public listing. Consider:
	1. Whether the name and description look legitimate rather than spam
	2. Any links or endpoints that look suspicious
	3. Claims that are misleading or impossible

	You must respond with a valid JSON object in this exact format, with no additional text or formatting:
	{
		"summary": "<one or two sentences for the moderator>",
		"risk_factors": ["<risk1>", "<risk2>", ...],
		"recommend": true|false
	}

	The recommend field must be a boolean, not a string. Use an empty array for
	risk_factors if you see none.`, payload)

	response := GenerateLLMResponse(prompt)
	if response == "" {
		return SubmissionReview{}
	}

	var review SubmissionReview
	if err := json.Unmarshal([]byte(response), &review); err != nil {
		log.Printf("Error parsing submission review: %v", err)
		return SubmissionReview{}
	}

	return review
}
