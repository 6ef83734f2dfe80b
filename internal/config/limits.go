package config

const (
	// MaxRequestBodyBytes caps every JSON request body.
	MaxRequestBodyBytes = 1 << 20

	// MaxResponsesPerAssessment bounds the questionnaire size of one assessment.
	MaxResponsesPerAssessment = 200

	// MaxPillarIDLength matches the longest catalog identifier with headroom.
	MaxPillarIDLength = 64

	// MaxChatMessageLength is the maximum length of a chat question.
	MaxChatMessageLength = 4000

	// MaxChatContextLength is the maximum length of the optional chat context.
	MaxChatContextLength = 16000

	// MaxRemediationFieldLength bounds control and current_state descriptions.
	MaxRemediationFieldLength = 2000

	// MaxScore is the upper bound of an assessment score (lower bound is 0).
	MaxScore = 100
)
