package utils

import "testing"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	encrypted, err := Encrypt([]byte("platform-access-token"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == "platform-access-token" {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != "platform-access-token" {
		t.Errorf("round trip = %q", decrypted)
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	other := []byte("ffffffffffffffffffffffffffffffff")

	encrypted, err := Encrypt([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := Decrypt(encrypted, other); err == nil {
		t.Error("expected decryption with wrong key to fail")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	if _, err := Decrypt("not-base64!!", key); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := Decrypt("AAAA", key); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}
