package gatekeeper

import (
	"fmt"
	"log/slog"
	"os"
)

// SecurityLevel controls the gatekeeper's prompting behavior.
type SecurityLevel string

const (
	SecurityStrict     SecurityLevel = "strict"
	SecurityStandard   SecurityLevel = "standard"
	SecurityPermissive SecurityLevel = "permissive"
)

// Gatekeeper decides which remote providers may be fetched: stored
// grants first, then interactive prompting, with persistence of "always"
// answers.
type Gatekeeper struct {
	store         GrantStore
	prompter      Prompter
	securityLevel SecurityLevel
	logger        *slog.Logger
}

// Option configures a Gatekeeper.
type Option func(*Gatekeeper)

// WithStore sets the grant store.
func WithStore(s GrantStore) Option {
	return func(g *Gatekeeper) { g.store = s }
}

// WithPrompter sets the prompter.
func WithPrompter(p Prompter) Option {
	return func(g *Gatekeeper) { g.prompter = p }
}

// WithSecurityLevel sets the security policy level.
func WithSecurityLevel(level SecurityLevel) Option {
	return func(g *Gatekeeper) { g.securityLevel = level }
}

// WithGatekeeperLogger sets the logger.
func WithGatekeeperLogger(logger *slog.Logger) Option {
	return func(g *Gatekeeper) { g.logger = logger }
}

// NewGatekeeper creates a fetch gatekeeper with pluggable store and
// prompter.
func NewGatekeeper(opts ...Option) *Gatekeeper {
	g := &Gatekeeper{
		securityLevel: SecurityStandard,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.store == nil {
		g.store = NewFileGrantStore()
	}
	if g.prompter == nil {
		g.prompter = NewTerminalPrompter()
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Authorize determines which of the requested fetches may proceed. It
// returns the effective grant set, or an error when any request is
// denied.
func (g *Gatekeeper) Authorize(requests []FetchRequest, trustAll bool) (*GrantSet, error) {
	remote := make([]FetchRequest, 0, len(requests))
	for _, req := range requests {
		if !req.Provider.IsBuiltIn() {
			remote = append(remote, req)
		}
	}
	if len(remote) == 0 {
		return &GrantSet{}, nil
	}

	if trustAll {
		g.logger.Warn("auto-granting all provider fetches (trust-all enabled)")
		grants := &GrantSet{}
		for _, req := range remote {
			grants.Add(req.Provider.Repository())
		}
		return grants, nil
	}

	existing, err := g.store.Load()
	if err != nil {
		existing = &GrantSet{}
	}

	var missing []FetchRequest
	for _, req := range remote {
		if !existing.Allows(req.Provider.Repository()) {
			missing = append(missing, req)
		}
	}
	if len(missing) == 0 {
		return existing, nil
	}

	if g.securityLevel != SecurityPermissive && !g.prompter.IsInteractive() {
		return nil, g.prompter.FormatNonInteractiveError(missing)
	}

	newGrants := existing.Clone()
	shouldSave := false

	for _, req := range missing {
		granted, always, err := g.evaluate(req)
		if err != nil {
			return nil, err
		}
		if !granted {
			return nil, fmt.Errorf("provider fetch denied by user: %s", req.Description())
		}
		newGrants.Add(req.Provider.Repository())
		if always {
			shouldSave = true
		}
	}

	if shouldSave {
		if err := g.store.Save(newGrants); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save grants: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Fetch grants saved to %s\n", g.store.ConfigPath())
		}
	}

	return newGrants, nil
}

// evaluate applies the security level policy and prompts if needed.
func (g *Gatekeeper) evaluate(req FetchRequest) (granted bool, always bool, err error) {
	risk := AnalyzeRisk(req)

	if risk.IsBroad() {
		switch g.securityLevel {
		case SecurityStrict:
			g.logger.Error("fetch denied by security policy",
				"level", "strict",
				"provider", req.Description(),
				"risk", risk.Level.String())
			return false, false, fmt.Errorf("fetch denied by strict security policy: %s", req.Description())

		case SecurityPermissive:
			g.logger.Warn("auto-granting risky fetch (permissive mode)",
				"provider", req.Description(),
				"risk", risk.Level.String())
			return true, false, nil
		}
	}

	if g.securityLevel == SecurityPermissive {
		return true, false, nil
	}

	return g.prompter.PromptForFetch(req, risk)
}
