package embedded

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvTemplateKeys(t *testing.T) {
	assert.Equal(t, []string{
		"CLAUDE_CODE_OAUTH_TOKEN",
		"ANTHROPIC_API_KEY",
		"CODEX_API_KEY",
		"GEMINI_API_KEY",
		"MOONSHOT_API_KEY",
	}, EnvTemplateKeys())
}

func TestEnvTemplateHasNoValues(t *testing.T) {
	for _, line := range strings.Split(string(EnvTemplate), "\n") {
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		assert.True(t, strings.HasSuffix(line, "="), "template line %q carries a value", line)
	}
}
