// Package sitetext resolves the content URLs a website publishes through
// robots.txt and XML sitemaps, and turns raw HTML pages into plain text.
// Resolved pages can also be embedded and indexed for similarity search.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, sqlite/, gemini/).
package sitetext
