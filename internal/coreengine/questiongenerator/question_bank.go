package questiongenerator

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RolePlaceholder is substituted with the candidate's role.
const RolePlaceholder = "{role}"

// DefaultRole is used when the caller does not name a role.
const DefaultRole = "candidate"

// DefaultLimit is the number of questions served when no limit is given.
const DefaultLimit = 5

var defaultTemplates = []string{
	"Tell us about your experience as a {role}.",
	"Which tools and technologies do you use as a {role}?",
	"Describe a challenging problem you solved in a {role} role.",
	"How do you keep up with best practices for {role} work?",
	"Why do you want to work as a {role} at our company?",
}

// QuestionBank holds the ordered question templates.
type QuestionBank struct {
	Templates []string `yaml:"templates"`
}

// DefaultBank returns the built-in five-question bank.
func DefaultBank() *QuestionBank {
	return &QuestionBank{Templates: append([]string(nil), defaultTemplates...)}
}

// LoadBank reads a YAML bank of the form:
//
//	templates:
//	  - "Tell us about your experience as a {role}."
func LoadBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank '%s': %w", path, err)
	}
	var bank QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank '%s': %w", path, err)
	}
	if err := bank.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question bank '%s': %w", path, err)
	}
	return &bank, nil
}

func (b *QuestionBank) Validate() error {
	if len(b.Templates) == 0 {
		return errors.New("no templates defined")
	}
	for i, tmpl := range b.Templates {
		if strings.TrimSpace(tmpl) == "" {
			return fmt.Errorf("template %d is empty", i)
		}
		if !strings.Contains(tmpl, RolePlaceholder) {
			return fmt.Errorf("template %d does not contain %s", i, RolePlaceholder)
		}
	}
	return nil
}

// Generate fills the templates for role and returns the first max(1, limit) of them.
func (b *QuestionBank) Generate(role string, limit int) []string {
	role = strings.TrimSpace(role)
	if role == "" {
		role = DefaultRole
	}
	if limit < 1 {
		limit = 1
	}
	if limit > len(b.Templates) {
		limit = len(b.Templates)
	}
	questions := make([]string, 0, limit)
	for _, tmpl := range b.Templates[:limit] {
		questions = append(questions, strings.ReplaceAll(tmpl, RolePlaceholder, role))
	}
	return questions
}
