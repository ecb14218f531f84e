package eazypay

import (
	"strings"
	"testing"
)

func TestBuildPaymentURL(t *testing.T) {
	c := newTestCodec(t)

	req := PaymentRequest{
		ReferenceNo:   "ord_h2J9xQ4bTk",
		SubMerchantID: "45",
		Amount:        "1499",
		ReturnURL:     "https://api.example.test/api/v1/payments/verify/",
	}
	got := BuildPaymentURL(c, "https://eazypay.icicibank.com/EazyPG", "499329", req)

	want := "https://eazypay.icicibank.com/EazyPG?merchantid=499329" +
		"&mandatory fields=pJInzP/rgO3xZ8Q3MH+6VsneHMdpUCIRgTEFU5ib7HU=" +
		"&optional fields=c3OMkFSYirJMKxqcKzob9g==" +
		"&returnurl=w4j4qBGcowmqw16tIwkTEQtc8jQNVYPpQlpTLZBxVHy0Owrm6hUONAuyPSvcSI15N3Ii4GGpJMWRzZwn6hY+1A==" +
		"&Reference No=q+UaXZ3R2q/6QnE8JzA/8g==" +
		"&submerchantid=FMtWN1PV+b74FaSzgbppdg==" +
		"&transaction amount=4tLt7VIlGU+T4vIOVcML6Q==" +
		"&paymode=kSywTJ2qq9kf0jDkZ1I1sg=="

	if got != want {
		t.Fatalf("payment URL mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBuildPaymentURL_MandatoryTripleDecryptable(t *testing.T) {
	c := newTestCodec(t)
	req := PaymentRequest{
		ReferenceNo:   "ord_0000000001",
		SubMerchantID: "7",
		Amount:        "250.5",
		ReturnURL:     "http://127.0.0.1:8000/api/v1/payments/verify/",
	}
	u := BuildPaymentURL(c, "https://gw.test/EazyPG", "m1", req)

	// The gateway decrypts "mandatory fields" back to ref|submerchant|amount.
	start := strings.Index(u, "mandatory fields=") + len("mandatory fields=")
	end := strings.Index(u[start:], "&") + start
	plain, err := c.Decrypt(u[start:end])
	if err != nil {
		t.Fatalf("decrypt mandatory fields: %v", err)
	}
	if plain != "ord_0000000001|7|250.5" {
		t.Fatalf("mandatory triple = %q", plain)
	}
}
