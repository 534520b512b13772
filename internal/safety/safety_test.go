package safety

import "testing"

func TestCheckRejectsIdenticalReplacement(t *testing.T) {
	v := Check(Candidate{Label: "PERSON", Original: "John Doe", Replacement: "john doe"}, Config{})
	if v.OK {
		t.Fatal("expected case-insensitive identical replacement to be rejected")
	}
}

func TestCheckRejectsSensitiveValue(t *testing.T) {
	cfg := Config{SensitiveValues: []string{"Alan Smith"}}
	v := Check(Candidate{Label: "PERSON", Original: "John Doe", Replacement: "Alan Smith"}, cfg)
	if v.OK {
		t.Fatal("expected sensitive-list match to be rejected")
	}
}

func TestCheckEmailRequiresAllowedDomain(t *testing.T) {
	bad := Check(Candidate{Label: "EMAIL", Original: "jane@acme.com", Replacement: "abcd@evil.com"}, Config{})
	if bad.OK {
		t.Fatal("expected disallowed domain to be rejected")
	}
	good := Check(Candidate{Label: "EMAIL", Original: "jane@acme.com", Replacement: "abcd@example.com"}, Config{})
	if !good.OK {
		t.Fatalf("expected allowed domain to pass, got %+v", good)
	}
}

func TestCheckPhoneRequires555Family(t *testing.T) {
	bad := Check(Candidate{Label: "PHONE", Original: "415-555-0132", Replacement: "415-234-5678"}, Config{})
	if bad.OK {
		t.Fatal("expected non-555 area code to be rejected")
	}
	good := Check(Candidate{Label: "PHONE", Original: "415-555-0132", Replacement: "555-010-1234"}, Config{})
	if !good.OK {
		t.Fatalf("expected 555 area code to pass, got %+v", good)
	}
}

func TestCheckAccountIDRequiresValidChecksum(t *testing.T) {
	bad := Check(Candidate{Label: "ACCOUNT_ID", Subtype: "cc", Original: "4111111111111111", Replacement: "3000000000000001"}, Config{})
	if bad.OK {
		t.Fatal("expected invalid Luhn checksum to be rejected")
	}
	good := Check(Candidate{Label: "ACCOUNT_ID", Subtype: "cc", Original: "4111111111111111", Replacement: "4012888888881881"}, Config{})
	if !good.OK {
		t.Fatalf("expected valid Luhn checksum to pass, got %+v", good)
	}
}

func TestCheckAccountIDRejectsRealIssuerPrefix(t *testing.T) {
	cfg := Config{IssuerPrefixes: []string{"4012"}}
	v := Check(Candidate{Label: "ACCOUNT_ID", Subtype: "cc", Original: "4111111111111111", Replacement: "4012888888881881"}, cfg)
	if v.OK {
		t.Fatal("expected configured issuer prefix match to be rejected")
	}
}

func TestCheckFirstHalfDigitDifference(t *testing.T) {
	bad := Check(Candidate{Label: "ACCOUNT_ID", Subtype: "ein", Original: "12-3456789", Replacement: "12-3456780"}, Config{})
	if bad.OK {
		t.Fatal("expected no-first-half-difference replacement to be rejected")
	}
	good := Check(Candidate{Label: "ACCOUNT_ID", Subtype: "ein", Original: "12-3456789", Replacement: "99-3456789"}, Config{})
	if !good.OK {
		t.Fatalf("expected first-half-differing replacement to pass, got %+v", good)
	}
}

func TestRetryFallsBackToPlaceholderAfterMaxRetries(t *testing.T) {
	calls := 0
	out, err := Retry("John Doe", "PERSON", "", Config{}, func(retrySalt int) (string, error) {
		calls++
		return "John Doe", nil // always fails (identical to original)
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if !out.Unsafe {
		t.Fatalf("expected Unsafe outcome after exhausting retries, got %+v", out)
	}
	if out.Replacement != "[REDACTED_PERSON]" {
		t.Errorf("expected opaque placeholder, got %q", out.Replacement)
	}
	if calls != MaxRetries+1 {
		t.Errorf("expected %d generate attempts, got %d", MaxRetries+1, calls)
	}
}

func TestRetrySucceedsOnFirstValidCandidate(t *testing.T) {
	out, err := Retry("John Doe", "PERSON", "", Config{}, func(retrySalt int) (string, error) {
		return "Alan Brooks", nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if out.Unsafe {
		t.Fatalf("expected a safe outcome, got %+v", out)
	}
	if out.Retries != 0 {
		t.Errorf("expected 0 retries for a first-try pass, got %d", out.Retries)
	}
}
