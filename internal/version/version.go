// Package version holds the product identity shown in the About dialog and
// published to the hosted page. Version is overridden at build time with
// -ldflags "-X ai-workbench/internal/version.Version=1.2.3".
package version

var (
	Name    = "AI Workbench"
	Version = "1.0.0"
	Summary = "Query several AI models side by side for comparison and collaborative work."

	// Providers supported by the hosted page, listed in the About dialog.
	Providers = "OpenAI, Anthropic, Google, DeepSeek, Qwen, Zhipu AI, SiliconFlow, Doubao, OpenRouter"

	UpdateOwner = "ai-workbench"
	UpdateRepo  = "ai-workbench"
)
