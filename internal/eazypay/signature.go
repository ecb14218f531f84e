package eazypay

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// signatureFields is the exact ordered list of callback fields covered by the
// RS digest. Order and membership are the gateway's contract; changing either
// breaks verification against real callbacks. Absent fields contribute an
// empty string.
var signatureFields = []string{
	"ID",
	"Response Code",
	"Unique Ref Number",
	"Service Tax Amount",
	"Processing Fee Amount",
	"Total Amount",
	"Transaction Amount",
	"Transaction Date",
	"Interchange Value",
	"TDR",
	"Payment Mode",
	"SubMerchantId",
	"ReferenceNo",
	"TPS",
}

// SignatureHex computes the digest the gateway signs callbacks with: the
// covered fields pipe-joined in contract order, the shared secret appended
// last, SHA-512 hashed and hex encoded.
func SignatureHex(cb Callback, secret string) string {
	parts := make([]string, 0, len(signatureFields)+1)
	for _, f := range signatureFields {
		parts = append(parts, cb[f])
	}
	parts = append(parts, secret)

	sum := sha512.Sum512([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// VerifySignature authenticates a parsed callback against the gateway shared
// secret by recomputing the digest and comparing it byte-for-byte with the RS
// field. A callback missing Total Amount or Response Code fails outright.
func VerifySignature(cb Callback, secret string) bool {
	if cb[FieldTotalAmount] == "" || cb[FieldResponseCode] == "" {
		return false
	}
	expected := SignatureHex(cb, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(cb[FieldSignature])) == 1
}
