package openblox

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// robloxParentDomain bounds the hosts the classifier recognizes. Envelopes
// from any other host carry no structured errors.
const robloxParentDomain = "roblox.com"

// classifyErrors parses a non-success envelope's body (and, for the classic
// family, its challenge headers) into structured error details. The schema
// family is keyed by the envelope's host. Unknown hosts and unparseable
// bodies degrade to nil; classification never fails.
func classifyErrors(resp *Response) []ErrorDetail {
	if resp == nil {
		return nil
	}
	u, err := url.Parse(resp.URL)
	if err != nil {
		return nil
	}
	host := u.Host
	if host != robloxParentDomain && !strings.HasSuffix(host, "."+robloxParentDomain) {
		return nil
	}
	if isCloudURL(u) {
		return parseCloudErrors(resp.RawBody)
	}
	return parseClassicErrors(resp.RawBody, resp)
}

// parseClassicErrors handles the legacy schema: a top-level "errors" array of
// {code, message, field} objects, plus challenge metadata surfaced via
// rblx-challenge-* response headers on 403s.
func parseClassicErrors(body []byte, resp *Response) []ErrorDetail {
	var details []ErrorDetail

	if gjson.ValidBytes(body) {
		for _, entry := range gjson.GetBytes(body, "errors").Array() {
			detail := ErrorDetail{
				Code:    entry.Get("code").String(),
				Message: entry.Get("message").String(),
				Field:   entry.Get("field").String(),
			}
			if detail.Code == "" && detail.Message == "" {
				continue
			}
			details = append(details, detail)
		}
	}

	if challenge := resp.Header.Get("Rblx-Challenge-Type"); challenge != "" {
		details = append(details, ErrorDetail{
			Code:    "Challenge",
			Message: "challenge required: " + challenge,
			Field:   resp.Header.Get("Rblx-Challenge-Id"),
		})
	}

	return details
}

// parseCloudErrors handles the open-cloud schema: a single top-level
// {code, message} object, with optional nested "details".
func parseCloudErrors(body []byte) []ErrorDetail {
	if !gjson.ValidBytes(body) {
		return nil
	}

	code := gjson.GetBytes(body, "code")
	message := gjson.GetBytes(body, "message")
	if !code.Exists() && !message.Exists() {
		// Some cloud endpoints still answer with the legacy shape.
		legacy := gjson.GetBytes(body, "errors")
		if !legacy.Exists() {
			return nil
		}
		var details []ErrorDetail
		for _, entry := range legacy.Array() {
			details = append(details, ErrorDetail{
				Code:    entry.Get("code").String(),
				Message: entry.Get("message").String(),
			})
		}
		return details
	}

	details := []ErrorDetail{{
		Code:    code.String(),
		Message: message.String(),
	}}
	for _, entry := range gjson.GetBytes(body, "details").Array() {
		details = append(details, ErrorDetail{
			Code:    entry.Get("reason").String(),
			Message: entry.Get("description").String(),
			Field:   entry.Get("field").String(),
		})
	}
	return details
}
