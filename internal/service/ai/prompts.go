package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"waflens/internal/domain/models"
)

const chatSystemContext = `You are a helpful cloud architecture assistant specializing in the
Well-Architected Framework. Help users understand best practices across Security, Reliability,
Performance Efficiency, Cost Optimization, and Operational Excellence pillars.`

// chatPrompt prefixes the question with the assistant persona and, when
// given, the caller-supplied context.
func chatPrompt(message string, context *string) string {
	var b strings.Builder
	b.WriteString(chatSystemContext)
	b.WriteString("\n\n")
	if context != nil && strings.TrimSpace(*context) != "" {
		fmt.Fprintf(&b, "Context: %s\n\n", *context)
	}
	fmt.Fprintf(&b, "User: %s", message)
	return b.String()
}

// analyzePrompt asks for a scored analysis of one pillar's responses in JSON.
func analyzePrompt(pillar string, responses []models.Response) (string, error) {
	encoded, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode responses: %w", err)
	}

	return fmt.Sprintf(`You are a cloud architecture expert specializing in the Well-Architected Framework.

Analyze the following %s pillar assessment responses and provide:
1. An overall score (0-100)
2. Top 3 prioritized recommendations
3. Quick wins that can be implemented immediately
4. Long-term strategic improvements

Assessment Responses:
%s

Respond in JSON format:
{
    "score": <number>,
    "summary": "<brief summary>",
    "recommendations": [
        {
            "priority": "high|medium|low",
            "title": "<recommendation title>",
            "description": "<detailed description>",
            "effort": "low|medium|high",
            "impact": "low|medium|high"
        }
    ],
    "quick_wins": ["<quick win 1>", "<quick win 2>"],
    "strategic_improvements": ["<improvement 1>", "<improvement 2>"]
}
`, strings.ToUpper(pillar), encoded), nil
}

// remediationPrompt asks for step-by-step guidance to fix one control.
func remediationPrompt(control, currentState, cloudProvider string) string {
	return fmt.Sprintf(`You are a cloud security expert. Generate step-by-step remediation guidance for:

Control: %s
Current State: %s
Cloud Provider: %s

Provide:
1. Step-by-step remediation instructions
2. Relevant CLI commands or IaC snippets
3. Verification steps to confirm the fix
4. Estimated time to implement

Respond in a structured format suitable for a technical audience.
`, control, currentState, strings.ToUpper(cloudProvider))
}
