package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString(t *testing.T) {
	// 8 is the stored-photo-name token size, 32 the session token size.
	for _, size := range []int{0, 8, 32} {
		s, err := MakeRandHexString(size)
		if err != nil {
			t.Fatalf("size=%d: unexpected error: %v", size, err)
		}
		if len(s) != size*2 {
			t.Errorf("size=%d: got length %d, want %d", size, len(s), size*2)
		}
		if _, err := hex.DecodeString(s); err != nil {
			t.Errorf("size=%d: not valid hex: %v", size, err)
		}
	}
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	a, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("two 32-byte tokens collided: %q", a)
	}
}
