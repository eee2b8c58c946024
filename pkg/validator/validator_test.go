package validator

import "testing"

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"valid address", "0x1234567890abcdef1234567890abcdef12345678", true},
		{"missing prefix", "1234567890abcdef1234567890abcdef12345678", false},
		{"too short", "0x1234", false},
		{"non-hex chars", "0x1234567890abcdef1234567890abcdef1234567g", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAddress(tt.address); got != tt.want {
				t.Errorf("IsValidAddress(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestIsValidTxHash(t *testing.T) {
	valid := "0x" + "ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12"
	if !IsValidTxHash(valid) {
		t.Errorf("IsValidTxHash(%q) = false, want true", valid)
	}
	if IsValidTxHash("0x1234") {
		t.Error("IsValidTxHash accepted a short hash")
	}
	if IsValidTxHash(valid[2:]) {
		t.Error("IsValidTxHash accepted a hash without 0x prefix")
	}
}

func TestIsValidPayloadHash(t *testing.T) {
	bare := "ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12"
	if !IsValidPayloadHash(bare) {
		t.Error("IsValidPayloadHash rejected a bare hex digest")
	}
	if !IsValidPayloadHash("0x" + bare) {
		t.Error("IsValidPayloadHash rejected a 0x-prefixed digest")
	}
	if IsValidPayloadHash("zz" + bare[2:]) {
		t.Error("IsValidPayloadHash accepted non-hex input")
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"simple", "snake-run", true},
		{"with dots", "game.v2", true},
		{"single char", "g", true},
		{"empty", "", false},
		{"leading dash", "-bad", false},
		{"spaces", "bad id", false},
		{"too long", string(make([]byte, 200)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidIdentifier(tt.id); got != tt.want {
				t.Errorf("IsValidIdentifier(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestIsValidPort(t *testing.T) {
	if !IsValidPort("8080") {
		t.Error("IsValidPort rejected 8080")
	}
	if IsValidPort("80") {
		t.Error("IsValidPort accepted a privileged port")
	}
	if IsValidPort("70000") {
		t.Error("IsValidPort accepted an out-of-range port")
	}
}
