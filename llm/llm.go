// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package llm adapts the judge-model providers behind one completion call.
// All judges run at temperature zero so repeated gradings of the same output
// stay comparable.
package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	openai "github.com/sashabaranov/go-openai"

	"github.com/aiqa-platform/evaluation-service/config"
	"github.com/aiqa-platform/evaluation-service/models"
)

// Client dispatches judge completions to the configured providers
type Client struct {
	providers config.ProviderConfig
	http      *retryablehttp.Client
}

// New builds a judge client from provider credentials
func New(providers config.ProviderConfig) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.Logger = nil
	return &Client{providers: providers, http: httpClient}
}

// Complete sends one prompt to the named provider and returns the raw
// response text.
func (c *Client) Complete(ctx context.Context, provider, model, prompt string) (string, error) {
	switch provider {
	case models.ProviderOpenAI:
		return c.completeOpenAI(ctx, model, prompt)
	case models.ProviderAzureOpenAI:
		return c.completeAzureOpenAI(ctx, model, prompt)
	case models.ProviderAnthropic:
		return c.completeAnthropic(ctx, model, prompt)
	case models.ProviderGemini:
		return c.completeGemini(ctx, model, prompt)
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
}

func (c *Client) completeOpenAI(ctx context.Context, model, prompt string) (string, error) {
	if c.providers.OpenAIAPIKey == "" {
		return "", errors.New("OPENAI_API_KEY is not configured")
	}
	client := openai.NewClient(c.providers.OpenAIAPIKey)
	return chatCompletion(ctx, client, model, prompt)
}

func (c *Client) completeAzureOpenAI(ctx context.Context, model, prompt string) (string, error) {
	if c.providers.AzureOpenAIAPIKey == "" || c.providers.AzureOpenAIEndpoint == "" {
		return "", errors.New("Azure OpenAI credentials are not configured")
	}
	cfg := openai.DefaultAzureConfig(c.providers.AzureOpenAIAPIKey, c.providers.AzureOpenAIEndpoint)
	client := openai.NewClientWithConfig(cfg)
	return chatCompletion(ctx, client, model, prompt)
}

func chatCompletion(ctx context.Context, client *openai.Client, model, prompt string) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ExtractScore pulls the first finite number out of a judge response.
// Accepts bare numbers ("7") and embedded forms ("Score: 7/10").
func ExtractScore(text string) (float64, error) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("no numeric score in response %q", truncate(text, 120))
	}
	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("no numeric score in response %q", truncate(text, 120))
	}
	return score, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
