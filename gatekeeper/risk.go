package gatekeeper

import "fmt"

// RiskLevel represents the security risk of fetching a provider.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

func (l RiskLevel) String() string {
	switch l {
	case RiskNone:
		return "none"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// RiskReport contains the risk assessment for one fetch request.
type RiskReport struct {
	RiskFactors []RiskFactor
	Level       RiskLevel
}

// RiskFactor describes a single risk element of a fetch.
type RiskFactor struct {
	Description string
	Rule        string
	Level       RiskLevel
}

// AnalyzeRisk evaluates the risk of fetching a remote provider. An
// unsigned, unpinned artifact can change under the host at any time.
func AnalyzeRisk(req FetchRequest) RiskReport {
	report := RiskReport{Level: RiskNone}

	addFactor := func(level RiskLevel, desc string) {
		report.RiskFactors = append(report.RiskFactors, RiskFactor{
			Level:       level,
			Description: desc,
			Rule:        req.Provider.Repository(),
		})
		if level > report.Level {
			report.Level = level
		}
	}

	if req.Provider.IsBuiltIn() {
		return report
	}

	switch {
	case !req.Signed && !req.Pinned:
		addFactor(RiskCritical, "unsigned artifact with no pinned digest; contents can change between fetches")
	case !req.Signed:
		addFactor(RiskHigh, "artifact carries no verifiable signature")
	case !req.Pinned:
		addFactor(RiskMedium, fmt.Sprintf("no pinned digest for version %q", req.Provider.Version()))
	default:
		addFactor(RiskLow, "remote code execution inside the WASM sandbox")
	}

	return report
}

// IsBroad reports whether the request grants more trust than a pinned,
// signed fetch would.
func (r RiskReport) IsBroad() bool {
	return r.Level >= RiskHigh
}
