package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"genserve/internal/core"
)

// KeyPrefix namespaces every key this service writes, so a shared store never
// collides with unrelated keys.
const KeyPrefix = "llm:"

// NormalizeParams canonicalizes a parameter set for key derivation: field
// names in lexicographic order, floats in shortest round-trip form. Two
// field-for-field equal parameter sets always produce byte-identical output.
// The result is used only for keying; generation always sees the raw params.
func NormalizeParams(p core.Params) string {
	var b strings.Builder
	b.WriteString(`{"do_sample":`)
	b.WriteString(strconv.FormatBool(p.DoSample))
	b.WriteString(`,"max_new_tokens":`)
	b.WriteString(strconv.Itoa(p.MaxNewTokens))
	b.WriteString(`,"temperature":`)
	b.WriteString(strconv.FormatFloat(p.Temperature, 'g', -1, 64))
	b.WriteString(`,"top_p":`)
	b.WriteString(strconv.FormatFloat(p.TopP, 'g', -1, 64))
	b.WriteString(`}`)
	return b.String()
}

// DeriveKey returns the cache key for a (prompt, parameter-set) pair:
// KeyPrefix plus the hex SHA-256 digest of the prompt joined with the
// normalized parameters. Pure and stable across process restarts.
func DeriveKey(prompt string, p core.Params) string {
	h := sha256.New()
	h.Write([]byte(prompt))
	h.Write([]byte(":"))
	h.Write([]byte(NormalizeParams(p)))
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}
