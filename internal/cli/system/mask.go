package system

import "strings"

// MaskPassword hides the password of a URL or key=value connection string.
func MaskPassword(connStr string) string {
	if scheme := strings.Index(connStr, "://"); scheme != -1 {
		rest := connStr[scheme+3:]
		at := strings.LastIndex(rest, "@")
		if at == -1 {
			return connStr
		}
		user, _, hasPassword := strings.Cut(rest[:at], ":")
		if !hasPassword {
			return connStr
		}
		return connStr[:scheme+3] + user + ":****" + rest[at:]
	}

	fields := strings.Fields(connStr)
	for i, field := range fields {
		key, _, ok := strings.Cut(field, "=")
		if ok && strings.EqualFold(key, "password") {
			fields[i] = key + "=****"
		}
	}
	return strings.Join(fields, " ")
}
