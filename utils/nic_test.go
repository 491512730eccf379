package utils

import "testing"

func TestValidateNIC(t *testing.T) {
	valid := []string{"912345678V", "912345678v", "853401795X", "200012345678", " 912345678V "}
	for _, nic := range valid {
		if !ValidateNIC(nic) {
			t.Errorf("expected %q to be valid", nic)
		}
	}

	invalid := []string{"", "12345", "91234567V", "9123456789V", "912345678A", "20001234567", "2000123456789", "91234567BV"}
	for _, nic := range invalid {
		if ValidateNIC(nic) {
			t.Errorf("expected %q to be invalid", nic)
		}
	}
}

func TestNormalizeNIC(t *testing.T) {
	if got := NormalizeNIC(" 912345678v "); got != "912345678V" {
		t.Fatalf("expected 912345678V, got %q", got)
	}
	if got := NormalizeNIC("200012345678"); got != "200012345678" {
		t.Fatalf("new-format NIC must pass through, got %q", got)
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"0771234567", "771234567", "94771234567", "+94 77 123 4567", "077-123-4567"}
	for _, p := range valid {
		if !ValidatePhoneNumber(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}

	invalid := []string{"", "0112345678", "12345", "0871234567", "9411234567"}
	for _, p := range invalid {
		if ValidatePhoneNumber(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	cases := map[string]string{
		"0771234567":      "94771234567",
		"771234567":       "94771234567",
		"94771234567":     "94771234567",
		"+94 77 123 4567": "94771234567",
	}
	for in, want := range cases {
		if got := NormalizePhoneNumber(in); got != want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", in, got, want)
		}
	}
}
