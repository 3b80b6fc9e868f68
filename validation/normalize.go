package validation

import (
	"html"
	"strings"

	"github.com/Shuixingchen/web3-compass/models"
	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag; project text is rendered as plain text.
var strict = bluemonday.StrictPolicy()

// Normalize trims every field and strips markup from free text. Empty tags and
// chains are dropped.
func Normalize(in models.ProjectInput) models.ProjectInput {
	out := models.ProjectInput{
		Name:                plainText(in.Name),
		Description:         plainText(in.Description),
		DetailedDescription: plainText(in.DetailedDescription),
		Category:            strings.TrimSpace(in.Category),
		Subcategory:         strings.TrimSpace(in.Subcategory),
		URL:                 strings.TrimSpace(in.URL),
		Logo:                strings.TrimSpace(in.Logo),
		Tags:                cleanList(in.Tags),
		Chains:              cleanList(in.Chains),
		OfficialLinks: models.OfficialLinks{
			Website:    strings.TrimSpace(in.OfficialLinks.Website),
			Whitepaper: strings.TrimSpace(in.OfficialLinks.Whitepaper),
			Twitter:    strings.TrimSpace(in.OfficialLinks.Twitter),
			Telegram:   strings.TrimSpace(in.OfficialLinks.Telegram),
			Discord:    strings.TrimSpace(in.OfficialLinks.Discord),
			Github:     strings.TrimSpace(in.OfficialLinks.Github),
			Medium:     strings.TrimSpace(in.OfficialLinks.Medium),
		},
	}
	return out
}

// plainText strips tags, then undoes the entity escaping bluemonday applies so
// "A & B" is stored as typed.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = plainText(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
