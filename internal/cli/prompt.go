package cli

import (
	"fmt"

	"github.com/dshills/coral/internal/target"
	"github.com/manifoldco/promptui"
)

func runInteractivePrompt() (string, target.AnalysisType, error) {
	fmt.Println()
	fmt.Println("coral Analysis")
	fmt.Println("==============")
	fmt.Println()

	urlPrompt := promptui.Prompt{
		Label:    "GitHub URL",
		Validate: target.Validate,
	}
	rawURL, err := urlPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("URL input cancelled: %w", err)
	}

	types := []struct {
		Label       string
		Description string
		Value       target.AnalysisType
	}{
		{"Auto", "Detect from the URL", target.TypeAuto},
		{"Repository", "License, README, languages and issue hygiene", target.TypeRepository},
		{"Pull request", "Size, tests, secrets and large files", target.TypePullRequest},
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	typePrompt := promptui.Select{
		Label:     "What should be analyzed?",
		Items:     types,
		Templates: templates,
	}
	idx, _, err := typePrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("type selection cancelled: %w", err)
	}

	fmt.Println()
	return rawURL, types[idx].Value, nil
}
