package code_translator

import (
	"fmt"
	"strings"
)

// Language is a supported programming language identifier with its display label.
type Language struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// supportedLanguages is sorted by label.
var supportedLanguages = []Language{
	{ID: "assembly", Label: "Assembly"},
	{ID: "bash", Label: "Bash"},
	{ID: "c", Label: "C"},
	{ID: "csharp", Label: "C#"},
	{ID: "cpp", Label: "C++"},
	{ID: "clojure", Label: "Clojure"},
	{ID: "dart", Label: "Dart"},
	{ID: "elixir", Label: "Elixir"},
	{ID: "erlang", Label: "Erlang"},
	{ID: "go", Label: "Go"},
	{ID: "groovy", Label: "Groovy"},
	{ID: "haskell", Label: "Haskell"},
	{ID: "java", Label: "Java"},
	{ID: "javascript", Label: "JavaScript"},
	{ID: "julia", Label: "Julia"},
	{ID: "kotlin", Label: "Kotlin"},
	{ID: "lua", Label: "Lua"},
	{ID: "matlab", Label: "MATLAB"},
	{ID: "objective-c", Label: "Objective-C"},
	{ID: "pascal", Label: "Pascal"},
	{ID: "perl", Label: "Perl"},
	{ID: "php", Label: "PHP"},
	{ID: "powershell", Label: "PowerShell"},
	{ID: "python", Label: "Python"},
	{ID: "r", Label: "R"},
	{ID: "ruby", Label: "Ruby"},
	{ID: "rust", Label: "Rust"},
	{ID: "scala", Label: "Scala"},
	{ID: "sql", Label: "SQL"},
	{ID: "swift", Label: "Swift"},
	{ID: "typescript", Label: "TypeScript"},
	{ID: "vbnet", Label: "VB.NET"},
}

var displayNames = func() map[string]string {
	m := make(map[string]string, len(supportedLanguages))
	for _, l := range supportedLanguages {
		m[l.ID] = l.Label
	}
	return m
}()

// SupportedLanguages returns a copy of the supported language table.
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// DisplayName returns the human label for a language id, or the id itself when unknown.
func DisplayName(id string) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return id
}

// BuildVerbosePrompt composes the full instruction used by the non-streaming path.
func BuildVerbosePrompt(req TranslationRequest) string {
	source := DisplayName(req.SourceLanguage)
	target := DisplayName(req.TargetLanguage)

	b := strings.Builder{}
	b.WriteString("You are an expert software developer specializing in code translation between programming languages.\n\n")
	b.WriteString(fmt.Sprintf("TASK: Translate the following %s code to %s.\n\n", source, target))
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("1. Preserve the original logic and functionality exactly\n")
	b.WriteString(fmt.Sprintf("2. Follow %s best practices and conventions\n", target))
	b.WriteString("3. Add appropriate comments explaining complex translations\n")
	b.WriteString("4. Ensure the translated code is syntactically correct and runnable\n")
	b.WriteString("5. Handle language-specific features appropriately (e.g., memory management, type systems)\n")
	b.WriteString("6. Include necessary imports/includes for the target language\n")
	b.WriteString("7. Maintain code structure and readability\n\n")
	b.WriteString(fmt.Sprintf("SOURCE CODE (%s):\n", source))
	writeFence(&b, req.SourceLanguage, req.SourceCode)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Please provide the translated %s code with:\n", target))
	b.WriteString("1. Clean, well-formatted code\n")
	b.WriteString("2. Appropriate comments for complex translations\n")
	b.WriteString("3. Any necessary setup or usage instructions\n")
	b.WriteString("4. Brief explanation of major translation decisions if needed\n\n")
	b.WriteString(fmt.Sprintf("TRANSLATED CODE (%s):", target))
	return b.String()
}

// BuildStreamingPrompt composes the terse instruction used by the streaming path.
func BuildStreamingPrompt(req TranslationRequest) string {
	source := DisplayName(req.SourceLanguage)
	target := DisplayName(req.TargetLanguage)

	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("Translate this %s code to %s. Provide only the translated code without explanations:\n\n", source, target))
	writeFence(&b, req.SourceLanguage, req.SourceCode)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Translated %s code:", target))
	return b.String()
}

func writeFence(b *strings.Builder, lang, code string) {
	b.WriteString("```")
	b.WriteString(lang)
	b.WriteString("\n")
	b.WriteString(code)
	b.WriteString("\n```")
}
