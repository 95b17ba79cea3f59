package extract

import "testing"

func TestParseInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		brand string
		email string
	}{
		{
			name:  "empty text returns sentinels",
			text:  "",
			brand: UnknownEntity,
			email: NoEmail,
		},
		{
			name:  "whitespace only returns sentinels",
			text:  "   \n ",
			brand: UnknownEntity,
			email: NoEmail,
		},
		{
			name:  "brand and email detected",
			text:  "Join Zomato today! Contact hr.team@zomato-careers.in for details",
			brand: "Zomato",
			email: "hr.team@zomato-careers.in",
		},
		{
			name:  "first email wins",
			text:  "write to first@example.com or second@example.com",
			brand: UnknownEntity,
			email: "first@example.com",
		},
		{
			name: "catalog order wins over text order",
			// "nvidia" appears earlier in the text but "google" comes
			// first in the brand catalog.
			text:  "nvidia partners with google on this project",
			brand: "Google",
			email: NoEmail,
		},
		{
			name:  "brand is capitalized",
			text:  "hiring at microsoft bangalore",
			brand: "Microsoft",
			email: NoEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := ParseInfo(tt.text)
			if info.CompanyName != tt.brand {
				t.Fatalf("company name: got %q, want %q", info.CompanyName, tt.brand)
			}
			if info.ContactEmail != tt.email {
				t.Fatalf("contact email: got %q, want %q", info.ContactEmail, tt.email)
			}
			if info.RawText != tt.text {
				t.Fatalf("raw text not preserved")
			}
		})
	}
}
