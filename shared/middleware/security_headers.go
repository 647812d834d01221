package middleware

import (
	"net/http"
)

// CSP presets. The page loads avatars, emojis and attachments from Discord's
// CDN and its own stylesheet; the API serves JSON only.
const (
	APICSP  = "default-src 'none'; frame-ancestors 'none'"
	PageCSP = "default-src 'self'; img-src 'self' https://cdn.discordapp.com https://media.discordapp.net https:; style-src 'self' 'unsafe-inline'; script-src 'none'; frame-ancestors 'none'"
)

// SecurityHeadersWithCSP adds security headers with custom Content-Security-Policy
// isHTTPS: if true, adds Strict-Transport-Security header
// csp: Content-Security-Policy value (if empty, no CSP header is set)
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()

			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			// Outbound links carry rel="noreferrer" as well; this covers images.
			headers.Set("Referrer-Policy", "no-referrer")
			headers.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}

			// HSTS - only when using HTTPS
			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
