// Package validation checks inbound project payloads before anything touches
// storage. Rules run in a fixed order and the first failure is returned.
package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/Shuixingchen/web3-compass/models"
)

// Rules holds the limits one entry point enforces.
type Rules struct {
	NameMin                int
	NameMax                int
	DescriptionMin         int
	DescriptionMax         int
	DetailedDescriptionMax int
	TagsMax                int
	// TagLengthMax is skipped when zero.
	TagLengthMax int
	ChainsMax    int
	// StrictURLs requires http(s) and a dotted host.
	StrictURLs bool
}

// APIRules are enforced on every write that reaches the service.
var APIRules = Rules{
	NameMax:                100,
	DescriptionMax:         500,
	DetailedDescriptionMax: 5000,
	TagsMax:                10,
	ChainsMax:              15,
}

// FormRules are the tighter limits of the public submission form.
var FormRules = Rules{
	NameMin:                2,
	NameMax:                50,
	DescriptionMin:         10,
	DescriptionMax:         200,
	DetailedDescriptionMax: 1000,
	TagsMax:                10,
	TagLengthMax:           20,
	ChainsMax:              15,
	StrictURLs:             true,
}

// Validate returns nil or a validation error naming the offending field.
func Validate(in models.ProjectInput, rules Rules) error {
	required := []struct {
		field string
		value string
	}{
		{"name", in.Name},
		{"description", in.Description},
		{"category", in.Category},
		{"subcategory", in.Subcategory},
		{"url", in.URL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errs.NewValidationError(r.field, r.field+" is required")
		}
	}

	if !rules.validURL(in.URL) {
		return errs.NewValidationError("url", "url must be an absolute URL")
	}

	for _, link := range in.OfficialLinks.Entries() {
		if strings.TrimSpace(link.Value) == "" {
			continue
		}
		if !rules.validURL(link.Value) {
			field := "officialLinks." + link.Key
			return errs.NewValidationError(field, link.Key+" link must be an absolute URL")
		}
	}

	if strings.TrimSpace(in.Logo) != "" && !rules.validURL(in.Logo) {
		return errs.NewValidationError("logo", "logo must be an absolute URL")
	}

	if len(in.Chains) == 0 {
		return errs.NewValidationError("chains", "at least one chain is required")
	}
	if len(in.Chains) > rules.ChainsMax {
		return errs.NewValidationError("chains", fmt.Sprintf("at most %d chains are allowed", rules.ChainsMax))
	}

	if len(in.Tags) == 0 {
		return errs.NewValidationError("tags", "at least one tag is required")
	}
	if len(in.Tags) > rules.TagsMax {
		return errs.NewValidationError("tags", fmt.Sprintf("at most %d tags are allowed", rules.TagsMax))
	}
	if rules.TagLengthMax > 0 {
		for _, tag := range in.Tags {
			if utf8.RuneCountInString(tag) > rules.TagLengthMax {
				return errs.NewValidationError("tags", fmt.Sprintf("each tag must be at most %d characters", rules.TagLengthMax))
			}
		}
	}

	if err := checkLength("name", in.Name, rules.NameMin, rules.NameMax); err != nil {
		return err
	}
	if err := checkLength("description", in.Description, rules.DescriptionMin, rules.DescriptionMax); err != nil {
		return err
	}
	if in.DetailedDescription != "" {
		if err := checkLength("detailedDescription", in.DetailedDescription, 0, rules.DetailedDescriptionMax); err != nil {
			return err
		}
	}

	return nil
}

func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	switch {
	case min > 0 && n < min:
		return errs.NewValidationError(field, fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	case n > max:
		if min > 0 {
			return errs.NewValidationError(field, fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
		}
		return errs.NewValidationError(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func (r Rules) validURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	if !r.StrictURLs {
		return true
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	dot := strings.Index(host, ".")
	return dot > 0 && dot < len(host)-1
}
