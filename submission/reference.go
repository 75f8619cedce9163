// Package submission turns a finished questionnaire into a confirmation
// receipt with a reference ID.
package submission

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

const referenceTimeLayout = "20060102150405"

// ReferenceID formats "{company}-{department}-{YYYYMMDDHHMMSS}-{8 hex}".
// The department segment is omitted when empty. The suffix is read from rnd.
func ReferenceID(company, department string, at time.Time, rnd io.Reader) (string, error) {
	var b [4]byte
	if _, err := io.ReadFull(rnd, b[:]); err != nil {
		return "", fmt.Errorf("read reference suffix: %w", err)
	}
	parts := []string{referenceSegment(company)}
	if dept := referenceSegment(department); dept != "" {
		parts = append(parts, dept)
	}
	parts = append(parts, at.Format(referenceTimeLayout), strings.ToUpper(hex.EncodeToString(b[:])))
	return strings.Join(parts, "-"), nil
}

// referenceSegment keeps IDs one token per segment: "Supply Chain" becomes
// "SUPPLY_CHAIN".
func referenceSegment(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '/'
	}), "_")
}
