package openblox

import (
	"net/url"
	"strings"
)

const (
	// cloudHost and cloudPathPrefix identify the open-cloud API family. Every
	// other roblox.com host belongs to the classic family. This rule drives
	// both header selection and error-schema selection.
	cloudHost       = "apis.roblox.com"
	cloudPathPrefix = "/cloud"

	headerCookie        = "Cookie"
	headerAPIKey        = "x-api-key"
	headerAuthorization = "Authorization"
	headerCSRFToken     = "x-csrf-token"

	securityCookiePrefix = ".ROBLOSECURITY="
)

// Credentials holds the default authentication material for a client. Cookie
// authenticates classic endpoints, CloudKey authenticates open-cloud
// endpoints, and OAuthToken (when set) is sent as a bearer token. An empty
// field means the credential is not configured.
type Credentials struct {
	Cookie     string
	CloudKey   string
	OAuthToken string
}

// CredentialsOverride replaces individual defaults for a single call. Fields
// are pointers so an explicit empty string ("deliberately send an empty
// credential") is distinguishable from an absent field (fall back to the
// default).
type CredentialsOverride struct {
	Cookie     *string
	CloudKey   *string
	OAuthToken *string
}

// resolvedCredentials tracks, per credential, both the value and whether it
// was supplied at all. An override with an empty string counts as supplied;
// an unconfigured default does not.
type resolvedCredentials struct {
	cookie, cloudKey, oauthToken     string
	hasCookie, hasCloudKey, hasOAuth bool
}

// resolve merges the defaults with a per-call override. Overrides replace the
// corresponding field entirely; absent fields leave the default untouched.
func (c Credentials) resolve(override *CredentialsOverride) resolvedCredentials {
	r := resolvedCredentials{
		cookie:      c.Cookie,
		cloudKey:    c.CloudKey,
		oauthToken:  c.OAuthToken,
		hasCookie:   c.Cookie != "",
		hasCloudKey: c.CloudKey != "",
		hasOAuth:    c.OAuthToken != "",
	}
	if override == nil {
		return r
	}
	if override.Cookie != nil {
		r.cookie = *override.Cookie
		r.hasCookie = true
	}
	if override.CloudKey != nil {
		r.cloudKey = *override.CloudKey
		r.hasCloudKey = true
	}
	if override.OAuthToken != nil {
		r.oauthToken = *override.OAuthToken
		r.hasOAuth = true
	}
	return r
}

// isCloudURL reports whether u targets the open-cloud API family.
func isCloudURL(u *url.URL) bool {
	return u.Host == cloudHost && strings.HasPrefix(u.Path, cloudPathPrefix)
}

// headers returns the credential headers to merge into the outgoing request.
// The target host decides which credential applies. The cookie header value
// always carries the .ROBLOSECURITY= prefix, so a supplied empty cookie still
// sends the header; empty values elsewhere are dropped by the transport.
func (r resolvedCredentials) headers(u *url.URL) map[string]string {
	h := make(map[string]string, 2)
	if isCloudURL(u) {
		if r.hasCloudKey {
			h[headerAPIKey] = r.cloudKey
		}
	} else {
		if r.hasCookie {
			h[headerCookie] = securityCookiePrefix + r.cookie
		}
	}
	if r.hasOAuth && r.oauthToken != "" {
		h[headerAuthorization] = "Bearer " + r.oauthToken
	}
	return h
}
