package app

import (
	"net/url"
	"strings"
)

const preparedBinaryResultParam = "disable_prepared_binary_result"

// NormalizeDBURL adds disable_prepared_binary_result=yes unless the DSN
// already sets it. Both URL and keyword=value DSNs are accepted.
func NormalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		if strings.Contains(raw, "=") && !hasDSNKeyword(raw, preparedBinaryResultParam) {
			return strings.TrimSpace(raw) + " " + preparedBinaryResultParam + "=yes"
		}
		return raw
	}

	query := parsed.Query()
	if query.Get(preparedBinaryResultParam) == "" {
		query.Set(preparedBinaryResultParam, "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// RedactDBURL hides the password so the DSN can be logged.
func RedactDBURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err == nil && parsed != nil && parsed.Scheme != "" {
		return parsed.Redacted()
	}

	tokens := strings.Fields(raw)
	for i, token := range tokens {
		if strings.HasPrefix(token, "password=") {
			tokens[i] = "password=xxxxx"
		}
	}
	return strings.Join(tokens, " ")
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

func hasDSNKeyword(dsn, key string) bool {
	for _, token := range strings.Fields(dsn) {
		if strings.HasPrefix(token, key+"=") {
			return true
		}
	}
	return false
}
