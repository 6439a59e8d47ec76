// Package branding centralizes user-visible product naming.
package branding

// AppName is the public product name used in page titles and copy.
const AppName = "Фудграм"

// FrontendURL is the default public frontend base used for short-link
// redirects when no override is configured.
const FrontendURL = "http://localhost:3000"
