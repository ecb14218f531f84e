package eazypay

import (
	"net/url"
	"strings"
)

// Callback field names as the gateway spells them, spaces included.
const (
	FieldResponseCode    = "Response Code"
	FieldMandatoryFields = "mandatory fields"
	FieldUniqueRefNumber = "Unique Ref Number"
	FieldTotalAmount     = "Total Amount"
	FieldSignature       = "RS"
)

// ResponseCodeSuccess is the sentinel the gateway sends for a successful payment.
const ResponseCodeSuccess = "E000"

// Callback is the parsed form body of a gateway POST. Absent keys read as "".
type Callback map[string]string

// ParseCallback decodes a form-urlencoded callback body into a Callback.
// '+' decodes to space and both keys and values are percent-decoded. Pairs
// that fail to decode are dropped rather than failing the whole parse; the
// signature check downstream rejects anything that decoded incompletely.
func ParseCallback(raw []byte) Callback {
	cb := Callback{}
	for _, pair := range strings.Split(string(raw), "&") {
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			continue
		}
		key, err := url.QueryUnescape(pair[:eq])
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(pair[eq+1:])
		if err != nil {
			continue
		}
		cb[key] = value
	}
	return cb
}

// Reference extracts the order reference: the first pipe-delimited segment of
// the echoed mandatory-fields value.
func (c Callback) Reference() string {
	mf := c[FieldMandatoryFields]
	if mf == "" {
		return ""
	}
	if i := strings.IndexByte(mf, '|'); i >= 0 {
		return mf[:i]
	}
	return mf
}

// TransactionID returns the gateway's own payment identifier.
func (c Callback) TransactionID() string {
	return c[FieldUniqueRefNumber]
}

// Success reports whether the gateway's response code is the success sentinel.
func (c Callback) Success() bool {
	return c[FieldResponseCode] == ResponseCodeSuccess
}
