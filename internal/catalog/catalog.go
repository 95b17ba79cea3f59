// Package catalog holds the keyword catalogs used across signal
// extraction and feature building. Keeping them in one place prevents the
// extractor and the feature builder from drifting apart.
package catalog

// Version identifies the catalog revision. The external classifier model
// is trained against a specific revision; bump it when any list changes.
const Version = 3

// ScamKeywords are high-priority fraud indicators matched as substrings.
var ScamKeywords = []string{
	"whatsapp", "telegram", "deposit", "registration fee", "security deposit",
	"investment", "no interview", "otp", "bank details", "send money",
	"processing fee", "hiring charge", "hidden charges", "pay first",
	"crypto", "binance", "gift card", "training fee", "background check fee",
	"easy money", "earn from home", "daily payment", "spot selection",
}

// BehavioralTriggers flag urgency and low-entry-barrier language.
var BehavioralTriggers = []string{
	"urgent hiring", "immediate joining", "no experience required",
	"hired in 24 hours", "direct selection", "no exam", "limited seats",
}

// MoneyTerms are only suspicious without nearby salary context.
var MoneyTerms = []string{"rs", "rupees", "pay", "fee", "amount", "charge"}

// SafeLexicon marks money language as legitimate when found near a money
// term. "pm" (per month) is kept even though it matches inside longer
// words; the classifier was trained with it in place.
var SafeLexicon = []string{
	"stipend", "salary", "package", "offer", "lpa", "pm",
	"benefits", "compensation", "remuneration", "fixed pay",
}

// SensitiveDocs are document-harvesting requests.
var SensitiveDocs = []string{"passport copy", "aadhar scan", "blank cheque", "original docs"}

// KnownBrands is the entity-name detection list, in priority order.
var KnownBrands = []string{
	"google", "nvidia", "microsoft", "amazon", "tcs", "infosys",
	"apple", "meta", "zomato", "flipkart",
}

// KnownLegitEmployers short-circuits the job-board lookup. These
// companies always have live listings, so searching wastes calls.
var KnownLegitEmployers = []string{
	"microsoft", "google", "amazon", "apple", "meta", "nvidia",
	"tcs", "infosys", "wipro", "accenture", "cognizant", "capgemini",
	"ibm", "dell", "hp", "oracle", "salesforce", "adobe", "intuit", "zoom",
}

// JobVocabulary decides whether a search result is job-related.
var JobVocabulary = []string{"job", "career", "hiring", "recruitment", "work from home"}

// Dedicated trigger sets for the boolean features. They overlap with the
// signal catalogs on purpose: the classifier schema expects these exact
// checks, independent of the signal scan.
var (
	UrgencyTerms     = []string{"urgent", "immediate", "hiring now", "apply now"}
	NoInterviewTerms = []string{"no interview", "without interview", "direct selection"}
	QuickMoneyTerms  = []string{"easy money", "earn from home", "daily payment", "quick money", "investment"}
)
