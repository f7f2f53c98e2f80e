// Package fetch - platform.go provides property portal detection and
// portal-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Portal represents a known Australian property listing portal.
type Portal string

const (
	// PortalREA is realestate.com.au
	PortalREA Portal = "realestate"
	// PortalDomain is domain.com.au
	PortalDomain Portal = "domain"
	// PortalAllhomes is allhomes.com.au
	PortalAllhomes Portal = "allhomes"
	// PortalOnTheHouse is onthehouse.com.au
	PortalOnTheHouse Portal = "onthehouse"
	// PortalUnknown is an unrecognized site
	PortalUnknown Portal = "unknown"
)

// DetectPortal identifies the property portal from a URL.
func DetectPortal(urlStr string) Portal {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PortalUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "realestate.com.au") {
		return PortalREA
	}

	if strings.Contains(host, "domain.com.au") {
		return PortalDomain
	}

	if strings.Contains(host, "allhomes.com.au") {
		return PortalAllhomes
	}

	if strings.Contains(host, "onthehouse.com.au") {
		return PortalOnTheHouse
	}

	return PortalUnknown
}

// IsKnownPortal reports whether the URL belongs to one of the supported
// Australian property portals.
func IsKnownPortal(urlStr string) bool {
	return DetectPortal(urlStr) != PortalUnknown
}

// PortalContentSelectors returns content selectors optimized for a specific portal.
func PortalContentSelectors(portal Portal) []string {
	switch portal {
	case PortalREA:
		return []string{
			".property-info",
			"[data-testid='listing-details']",
			".property-description__content",
			".residential-info",
			"#content",
		}
	case PortalDomain:
		return []string{
			"[data-testid='listing-details']",
			".listing-details__summary",
			".property-description",
			".css-listing-summary",
			"#content",
		}
	case PortalAllhomes:
		return []string{
			".property-overview",
			".property-detail",
			"#property-description",
			".content",
		}
	case PortalOnTheHouse:
		return []string{
			".property-summary",
			".property-attributes",
			".property-history",
			".content",
		}
	default:
		return ListingSelectors()
	}
}

// PortalNoiseSelectors returns noise exclusion selectors for a specific portal.
func PortalNoiseSelectors(portal Portal) []string {
	// Common noise selectors for all portals
	common := []string{
		// Enquiry and contact forms
		"form",
		".enquiry-form",
		".contact-agent",
		".agent-profile",
		"[data-testid='enquiry-form']",

		// Mortgage calculators and finance widgets
		".mortgage-calculator",
		".home-loan-widget",
		".finance-section",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and privacy
		".cookie-banner",
		".cookie-consent",
		".privacy-notice",

		// Similar-property carousels
		".similar-properties",
		".recommended-listings",
	}

	switch portal {
	case PortalREA:
		return append(common,
			".agent-info",
			".branding-bar",
			"[data-testid='suggested-properties']",
		)
	case PortalDomain:
		return append(common,
			".agent-card",
			"[data-testid='listing-card-carousel']",
			".inspection-planner",
		)
	case PortalAllhomes:
		return append(common,
			".agency-branding",
			".nearby-sales",
		)
	case PortalOnTheHouse:
		return append(common,
			".market-insights",
			".suburb-statistics",
		)
	default:
		return common
	}
}
