package eazypay

import "strings"

// Fixed plaintext values the gateway requires in the outbound request.
const (
	optionalFieldsValue = "UPIVPA"
	paymodeValue        = "9"
)

// PaymentRequest carries the per-order plaintext values for one outbound
// hosted-page redirect.
type PaymentRequest struct {
	ReferenceNo   string
	SubMerchantID string
	Amount        string
	ReturnURL     string
}

// requestFields maps each EazyPG query parameter to the plaintext it carries.
// Parameter names (spaces included), their order and the fixed paymode and
// optional-fields values come from the gateway's integration document.
var requestFields = []struct {
	param     string
	plaintext func(r PaymentRequest) string
}{
	{"mandatory fields", func(r PaymentRequest) string {
		return r.ReferenceNo + "|" + r.SubMerchantID + "|" + r.Amount
	}},
	{"optional fields", func(PaymentRequest) string { return optionalFieldsValue }},
	{"returnurl", func(r PaymentRequest) string { return r.ReturnURL }},
	{"Reference No", func(r PaymentRequest) string { return r.ReferenceNo }},
	{"submerchantid", func(r PaymentRequest) string { return r.SubMerchantID }},
	{"transaction amount", func(r PaymentRequest) string { return r.Amount }},
	{"paymode", func(PaymentRequest) string { return paymodeValue }},
}

// BuildPaymentURL encrypts every contract field with the codec and assembles
// the hosted payment page redirect URL. Only merchantid travels in plaintext.
// Parameter names and base64 values are deliberately not URL-escaped; the
// gateway parses the query string verbatim.
func BuildPaymentURL(codec *Codec, pageURL, merchantID string, req PaymentRequest) string {
	var b strings.Builder
	b.WriteString(pageURL)
	b.WriteString("?merchantid=")
	b.WriteString(merchantID)
	for _, f := range requestFields {
		b.WriteByte('&')
		b.WriteString(f.param)
		b.WriteByte('=')
		b.WriteString(codec.Encrypt(f.plaintext(req)))
	}
	return b.String()
}
