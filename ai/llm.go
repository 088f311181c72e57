package ai

import (
	"context"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Enabled reports whether LLM-backed features are configured.
func Enabled() bool {
	return os.Getenv("OPENAI_API_KEY") != ""
}

// GenerateLLMResponse sends a prompt to the model and returns the raw
// completion text, or "" on any failure.
func GenerateLLMResponse(prompt string) string {
	client := openai.NewClient(os.Getenv("OPENAI_API_KEY"))

	resp, err := client.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		log.Printf("LLM request failed: %v", err)
		return ""
	}
	if len(resp.Choices) == 0 {
		log.Printf("LLM returned no choices")
		return ""
	}

	return resp.Choices[0].Message.Content
}
