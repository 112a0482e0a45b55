package core

// FindingKey names one of the fixed checks the model evaluates for every diff.
type FindingKey string

const (
	FindingNewEndpoint   FindingKey = "new_endpoint"
	FindingVulnerability FindingKey = "vulnerability"
	FindingAuths         FindingKey = "auths"
	FindingSecrets       FindingKey = "secrets"
	FindingPII           FindingKey = "pii"
	FindingNewPackage    FindingKey = "new_package"
	FindingPatch         FindingKey = "patch"
)

// FindingKeys lists every required finding in the order the rubric asks for them.
var FindingKeys = []FindingKey{
	FindingNewEndpoint,
	FindingVulnerability,
	FindingAuths,
	FindingSecrets,
	FindingPII,
	FindingNewPackage,
	FindingPatch,
}

// Finding is the model's verdict for a single check.
type Finding struct {
	Explanation string `json:"explanation"`
	Result      bool   `json:"result"`
}

// ReviewFindings is the structured shape the model is instructed to answer with.
type ReviewFindings struct {
	NewEndpoint   Finding `json:"new_endpoint"`
	Vulnerability Finding `json:"vulnerability"`
	Auths         Finding `json:"auths"`
	Secrets       Finding `json:"secrets"`
	PII           Finding `json:"pii"`
	NewPackage    Finding `json:"new_package"`
	Patch         Finding `json:"patch"`
}

// Get returns the finding stored under key.
func (f *ReviewFindings) Get(key FindingKey) (Finding, bool) {
	switch key {
	case FindingNewEndpoint:
		return f.NewEndpoint, true
	case FindingVulnerability:
		return f.Vulnerability, true
	case FindingAuths:
		return f.Auths, true
	case FindingSecrets:
		return f.Secrets, true
	case FindingPII:
		return f.PII, true
	case FindingNewPackage:
		return f.NewPackage, true
	case FindingPatch:
		return f.Patch, true
	default:
		return Finding{}, false
	}
}

// Flagged returns the keys whose result is true, in rubric order.
func (f *ReviewFindings) Flagged() []FindingKey {
	var flagged []FindingKey
	for _, key := range FindingKeys {
		if finding, _ := f.Get(key); finding.Result {
			flagged = append(flagged, key)
		}
	}
	return flagged
}

// Title returns a human readable label for the finding key.
func (k FindingKey) Title() string {
	switch k {
	case FindingNewEndpoint:
		return "New endpoint"
	case FindingVulnerability:
		return "Vulnerability"
	case FindingAuths:
		return "Authentication / authorization"
	case FindingSecrets:
		return "Hard-coded secrets"
	case FindingPII:
		return "Personal information"
	case FindingNewPackage:
		return "New package"
	case FindingPatch:
		return "Security patch"
	default:
		return string(k)
	}
}
