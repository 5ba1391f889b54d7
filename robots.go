package sitetext

import "strings"

const sitemapDirective = "sitemap:"

// ParseRobots extracts the values of Sitemap: directives from robots.txt
// content, in line order. The directive name is matched case-insensitively.
// Values are not validated; a malformed URL fails later, when it is fetched.
func ParseRobots(text string) []string {
	var sitemaps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(line), sitemapDirective) {
			continue
		}
		_, value, _ := strings.Cut(line, ":")
		sitemaps = append(sitemaps, strings.TrimSpace(value))
	}
	return sitemaps
}
