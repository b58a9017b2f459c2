package service

import (
	"strings"
	"unicode/utf8"
)

// Placeholder tokens recognized in template bodies.
const (
	PlaceholderCompanyName  = "{발주사명}"
	PlaceholderCampaignName = "{캠페인명}"
)

// RenderTemplate substitutes the company and campaign placeholders into the
// template body. Substitution is literal text replacement, no escaping;
// unmatched placeholders are left verbatim.
func RenderTemplate(content, companyName, campaignName string) string {
	result := strings.ReplaceAll(content, PlaceholderCompanyName, companyName)
	result = strings.ReplaceAll(result, PlaceholderCampaignName, campaignName)
	return result
}

// AppendAdditional appends an optional extra message after a blank line.
// An empty additional message leaves the body untouched.
func AppendAdditional(body, additional string) string {
	if additional == "" {
		return body
	}
	return body + "\n\n" + additional
}

// MessageStats reports the character count (Unicode code points) and the
// UTF-8 byte count of a message. Both are informational; no length limit is
// enforced here, oversized messages surface as provider errors.
func MessageStats(message string) (charCount, byteCount int) {
	return utf8.RuneCountInString(message), len(message)
}
