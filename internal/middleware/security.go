// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// stylesheetOnloadHash is the CSP hash of the onload handler the page
// layout uses to apply its preloaded stylesheet. It must change whenever
// that attribute value changes.
const stylesheetOnloadHash = "'sha256-1jAmyYXcRq6zFldLe/GCgIDJBiOONdXjTLgEFMDnDSM='"

// ContentSecurityPolicy returns the policy for public pages. Inline styles
// are allowed for the critical CSS; scripts are limited to the stylesheet
// onload handler. assetOrigins are extra image sources such as the S3 or
// CDN origin.
func ContentSecurityPolicy(assetOrigins ...string) string {
	img := append([]string{"'self'", "data:"}, assetOrigins...)
	directives := []string{
		"default-src 'self'",
		"img-src " + strings.Join(img, " "),
		"style-src 'self' 'unsafe-inline'",
		"script-src 'unsafe-hashes' " + stylesheetOnloadHash,
		"object-src 'none'",
		"base-uri 'self'",
		"frame-ancestors 'self'",
	}
	return strings.Join(directives, "; ")
}

// SecureHeaders returns middleware that adds security-related HTTP headers
// to every response, including a Content-Security-Policy allowing images
// from assetOrigins.
func SecureHeaders(assetOrigins ...string) func(http.Handler) http.Handler {
	csp := ContentSecurityPolicy(assetOrigins...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "interest-cohort=()")
			h.Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r)
		})
	}
}
