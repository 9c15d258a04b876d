package share

import "net/url"

const linkedInShareEndpoint = "https://www.linkedin.com/sharing/share-offsite/"

// LinkedInURL returns the web share dialog URL for siteURL. The composed
// post itself goes to the clipboard; LinkedIn only accepts the link.
func LinkedInURL(siteURL string) string {
	if siteURL == "" {
		siteURL = SiteURL
	}
	return linkedInShareEndpoint + "?url=" + url.QueryEscape(siteURL)
}
