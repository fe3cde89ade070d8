package embedded

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
)

// EnvTemplate is the secrets file written by setup. It lists the keys the
// agents read for headless authentication, with empty values.
//
//go:embed env.template
var EnvTemplate []byte

// EnvTemplateKeys returns the variable names declared in EnvTemplate, in order.
func EnvTemplateKeys() []string {
	var keys []string
	scanner := bufio.NewScanner(bytes.NewReader(EnvTemplate))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if key, _, ok := strings.Cut(line, "="); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
