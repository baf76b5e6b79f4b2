package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSignature = errors.New("invalid event signature")
	ErrSignatureExpired = errors.New("event signature timestamp outside tolerance")
)

// VerifyEventSignature checks a payment event signature header of the form
//
//	t=<unix seconds>,v1=<hex hmac-sha256(secret, t + "." + body)>
//
// against the raw request body. The timestamp must fall within tolerance of
// now, which bounds how long a captured event can be replayed. Comparison is
// constant-time.
func VerifyEventSignature(secret string, header string, body []byte, tolerance time.Duration, now time.Time) error {
	var timestamp int64 = -1
	var signature string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signature = kv[1]
		}
	}

	if timestamp < 0 || signature == "" {
		return ErrInvalidSignature
	}

	eventTime := time.Unix(timestamp, 0)
	if now.Sub(eventTime) > tolerance || eventTime.Sub(now) > tolerance {
		return ErrSignatureExpired
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}

	return nil
}

// SignEventPayload produces the signature header VerifyEventSignature
// accepts. Used by tests and local tooling that simulate the gateway.
func SignEventPayload(secret string, body []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}
