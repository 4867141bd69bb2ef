package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
)

const redacted = "[REDACTED]"

var (
	// Keys containing any of these are replaced outright.
	secretKeyParts = []string{"token", "authorization", "password", "secret", "api_key", "apikey", "email"}
	// Caller identities are logged as salted hashes so lines stay correlatable.
	identityKeyParts = []string{"user_id", "created_by", "created_for"}
)

type redactor struct {
	enabled bool
	salt    string
}

var (
	envRedactorOnce sync.Once
	envRedactor     *redactor
)

var getenv = os.Getenv

// redactorFromEnv reads LOG_REDACTION_ENABLED (default on) and LOG_HASH_SALT once per process.
func redactorFromEnv() *redactor {
	envRedactorOnce.Do(func() {
		r := &redactor{enabled: true, salt: strings.TrimSpace(getenv("LOG_HASH_SALT"))}
		switch strings.ToLower(strings.TrimSpace(getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			r.enabled = false
		}
		envRedactor = r
	})
	return envRedactor
}

func (r *redactor) pairs(kv []interface{}) []interface{} {
	if r == nil || !r.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := stringify(kv[i])
		out = append(out, key, r.value(normalizeKey(key), kv[i+1]))
	}
	return out
}

func (r *redactor) value(key string, val interface{}) interface{} {
	if key != "" {
		if containsAny(key, secretKeyParts) {
			return redacted
		}
		if containsAny(key, identityKeyParts) {
			return r.hash(val)
		}
	}
	switch v := val.(type) {
	case map[string]interface{}:
		if v == nil {
			return v
		}
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = r.value(normalizeKey(k), inner)
		}
		return out
	case []interface{}:
		if v == nil {
			return v
		}
		out := make([]interface{}, len(v))
		for i, inner := range v {
			out[i] = r.value("", inner)
		}
		return out
	default:
		return val
	}
}

func (r *redactor) hash(val interface{}) string {
	raw := stringify(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	_, _ = h.Write([]byte(r.salt))
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func containsAny(key string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

func normalizeKey(k string) string { return strings.ToLower(strings.TrimSpace(k)) }

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
