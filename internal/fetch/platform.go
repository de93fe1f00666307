package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known applicant-tracking system hosting a careers page.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformUnknown is a company-hosted or unrecognized careers page
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
	{"ashbyhq.com", PlatformAshby},
}

// DetectPlatform identifies the ATS platform from a careers page URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, h := range platformHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.platform
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns the selectors that locate job content for a platform,
// covering both single-posting pages and listing pages.
func ContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description",
			"#content",
			".opening",
			"section.level-0",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".postings-group",
			".posting",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			"[data-automation-id='jobResults']",
		}
	case PlatformAshby:
		return []string{
			"._descriptionText_",
			".ashby-job-posting-brief-list",
			"main",
		}
	default:
		return CareersSelectors()
	}
}

// CareersSelectors returns generic selectors for company-hosted careers pages.
func CareersSelectors() []string {
	return []string{
		".job-description",
		"#job-description",
		".job-details",
		".careers",
		"#careers",
		".openings",
		".positions",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
		".content",
	}
}

// NoiseSelectors returns elements to drop before text extraction for a platform.
func NoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		".eeo-statement",
		".eeo-section",
		".voluntary-disclosure",
		".legal-disclosure",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", "#usa_self_id_section", ".post-apply")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']", ".WDAF")
	case PlatformAshby:
		return append(common, "._applicationForm_")
	default:
		return common
	}
}
