package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/tidwall/gjson"

	"github.com/sevigo/audit-warden/internal/core"
)

// ParseFindings checks a model reply against the seven-finding contract and
// decodes it. The reply must hold exactly the seven findings. It handles a reply wrapped in a ```json fence. Every offending
// field is reported in a single *core.SchemaViolationError carrying raw.
func ParseFindings(raw string) (*core.ReviewFindings, error) {
	body := stripMarkdownFence(raw)

	if !gjson.Valid(body) {
		return nil, &core.SchemaViolationError{Raw: raw, Err: errors.New("reply is not valid JSON")}
	}
	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return nil, &core.SchemaViolationError{Raw: raw, Err: errors.New("reply is not a JSON object")}
	}

	var errs criterio.FieldErrorsBuilder
	for _, key := range core.FindingKeys {
		field := string(key)
		finding := doc.Get(gjson.Escape(field))
		switch {
		case !finding.Exists():
			errs = errs.Append(field, errors.New("is missing"))
			continue
		case !finding.IsObject():
			errs = errs.Append(field, errors.New("must be an object"))
			continue
		}
		if finding.Get("explanation").Type != gjson.String {
			errs = errs.Append(field+".explanation", errors.New("must be a string"))
		}
		if t := finding.Get("result").Type; t != gjson.True && t != gjson.False {
			errs = errs.Append(field+".result", errors.New("must be a boolean"))
		}
	}
	doc.ForEach(func(key, _ gjson.Result) bool {
		if !slices.Contains(core.FindingKeys, core.FindingKey(key.String())) {
			errs = errs.Append(key.String(), errors.New("is not a known finding"))
		}
		return true
	})
	if err := errs.ToError(); err != nil {
		return nil, &core.SchemaViolationError{Raw: raw, Err: err}
	}

	var findings core.ReviewFindings
	if err := json.Unmarshal([]byte(body), &findings); err != nil {
		return nil, &core.SchemaViolationError{Raw: raw, Err: fmt.Errorf("decode findings: %w", err)}
	}
	return &findings, nil
}

// stripMarkdownFence removes a ```json (or bare ```) fence that some models add
// around their output. Text without an opening fence is returned unchanged.
func stripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return s
	}
	lang := strings.ToLower(strings.TrimSpace(trimmed[3:idx]))
	if lang != "" && lang != "json" {
		return s
	}

	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}
