package gatekeeper

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// TerminalPrompter provides interactive terminal prompting for provider
// fetch grants.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// IsInteractive checks if we're running in an interactive terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// PromptForFetch asks the user whether to fetch a remote provider.
func (p *TerminalPrompter) PromptForFetch(req FetchRequest, risk RiskReport) (granted bool, always bool, err error) {
	if risk.IsBroad() {
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "\033[1;33mSecurity Warning: Risky Provider Fetch\033[0m\n\n")
		fmt.Fprintf(os.Stderr, "  %s\n", req.Description())
		for _, factor := range risk.RiskFactors {
			fmt.Fprintf(os.Stderr, "  Risk (%s): %s\n", factor.Level, factor.Description)
		}
		fmt.Fprintf(os.Stderr, "  Recommendation: pin a digest and require signing in the registry manifest.\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	const (
		OptionYes    = "Yes, fetch for this session"
		OptionAlways = "Always allow this provider (save to config)"
		OptionNo     = "No, deny"
	)

	var selection string

	err = huh.NewSelect[string]().
		Title("Remote Provider Fetch").
		Description(req.Description()).
		Options(
			huh.NewOption(OptionYes, OptionYes),
			huh.NewOption(OptionAlways, OptionAlways),
			huh.NewOption(OptionNo, OptionNo),
		).
		Value(&selection).
		Run()
	if err != nil {
		return false, false, err
	}

	switch selection {
	case OptionYes:
		return true, false, nil
	case OptionAlways:
		return true, true, nil
	default:
		return false, false, nil
	}
}

// FormatNonInteractiveError creates a helpful error message for
// non-interactive mode.
func (p *TerminalPrompter) FormatNonInteractiveError(missing []FetchRequest) error {
	var msg strings.Builder
	msg.WriteString("Registry manifest requires fetching unapproved providers (running in non-interactive mode)\n\n")
	msg.WriteString("Required providers:\n")

	for _, req := range missing {
		msg.WriteString(fmt.Sprintf("  - %s\n", req.Description()))
	}

	msg.WriteString("\nTo approve these fetches:\n")
	msg.WriteString("  1. Run interactively and approve when prompted\n")
	msg.WriteString("  2. Pass the trust-all flag (approves every provider)\n")
	msg.WriteString("  3. Manually edit: ~/.diffrakt/grants.yaml\n")

	return fmt.Errorf("%s", msg.String())
}
