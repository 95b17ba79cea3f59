package extract

import (
	"regexp"
	"strings"

	"fraudscan/internal/catalog"
)

// Sentinels returned when nothing could be extracted.
const (
	UnknownEntity = "Unknown Entity"
	NoEmail       = "Not Provided"
)

// Loose on purpose. A strict RFC pattern misses the malformed contact
// addresses scam postings tend to carry.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9._-]+`)

// Info is a best-guess identity pulled from free text.
type Info struct {
	CompanyName  string
	ContactEmail string
	RawText      string
}

// ParseInfo extracts a company name and contact email from free text.
// The name is the first known brand found in catalog order, capitalized;
// these are low-precision defaults used only when the caller supplies
// no company name of its own.
func ParseInfo(text string) Info {
	info := Info{
		CompanyName:  UnknownEntity,
		ContactEmail: NoEmail,
		RawText:      text,
	}

	if email := emailPattern.FindString(text); email != "" {
		info.ContactEmail = email
	}

	lower := strings.ToLower(text)
	for _, brand := range catalog.KnownBrands {
		if strings.Contains(lower, brand) {
			info.CompanyName = strings.ToUpper(brand[:1]) + brand[1:]
			break
		}
	}

	return info
}
