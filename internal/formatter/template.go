// Package formatter renders one-line order summaries from templates with
// {{variable-name}} placeholders, for status bars and scripts.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateEngine provides template parsing and variable substitution.
type TemplateEngine interface {
	// Parse returns the variables found in the template.
	Parse(template string) ([]string, error)

	// Substitute replaces variables in the template with values from the context.
	Substitute(template string, ctx VariableContext) (string, error)
}

type templateEngine struct {
	variablePattern *regexp.Regexp
	resolver        VariableResolver
}

// NewTemplateEngine creates a new template engine instance.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{
		variablePattern: regexp.MustCompile(`\{\{([a-z0-9-]+)\}\}`),
		resolver:        NewVariableResolver(),
	}
}

// Parse identifies all variables in a template string, without duplicates.
func (te *templateEngine) Parse(template string) ([]string, error) {
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	variables := []string{}
	seen := make(map[string]bool)
	for _, match := range te.variablePattern.FindAllStringSubmatch(template, -1) {
		if name := match[1]; !seen[name] {
			variables = append(variables, name)
			seen[name] = true
		}
	}
	return variables, nil
}

// Substitute replaces all variables in the template with values from the
// context. Unknown variables are an error.
func (te *templateEngine) Substitute(template string, ctx VariableContext) (string, error) {
	if err := ValidateTemplate(template); err != nil {
		return "", err
	}
	var resolveErr error
	out := te.variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		if resolveErr != nil {
			return match
		}
		value, err := te.resolver.Resolve(match[2:len(match)-2], ctx)
		if err != nil {
			resolveErr = err
			return match
		}
		return value
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return out, nil
}

// ValidateTemplate checks that every {{ has a matching }}.
func ValidateTemplate(template string) error {
	openCount := strings.Count(template, "{{")
	closeCount := strings.Count(template, "}}")
	if openCount != closeCount {
		return fmt.Errorf("mismatched variable delimiters: %d opens, %d closes", openCount, closeCount)
	}
	return nil
}
