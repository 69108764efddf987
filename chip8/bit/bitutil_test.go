package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		expected  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x60, 0x05, 0x6005},
	}

	for _, tt := range tests {
		result := Combine(tt.high, tt.low)
		if result != tt.expected {
			t.Errorf("Combine(%X, %X) = %X; want %X", tt.high, tt.low, result, tt.expected)
		}
	}
}

func TestCheckedAdd(t *testing.T) {
	tests := []struct {
		a, b             uint8
		expectedResult   uint8
		expectedOverflow bool
	}{
		{0xFF, 0x01, 0, true},
		{0xFF, 0xFF, 254, true},
		{0x05, 0x03, 8, false},
		{0x80, 0x7F, 0xFF, false},
	}

	for _, tt := range tests {
		result, overflow := CheckedAdd(tt.a, tt.b)
		if result != tt.expectedResult || overflow != tt.expectedOverflow {
			t.Errorf("CheckedAdd(%d, %d) = (%d, %v); want (%d, %v)", tt.a, tt.b, result, overflow, tt.expectedResult, tt.expectedOverflow)
		}
	}
}

func TestCheckedSub(t *testing.T) {
	tests := []struct {
		a, b           uint8
		expectedResult uint8
		expectedBorrow bool
	}{
		{0x00, 0x01, 255, true},
		{0x01, 0x01, 0, false},
		{0x80, 0x00, 128, false},
		{0x10, 0x20, 0xF0, true},
	}

	for _, tt := range tests {
		result, borrow := CheckedSub(tt.a, tt.b)
		if result != tt.expectedResult || borrow != tt.expectedBorrow {
			t.Errorf("CheckedSub(%d, %d) = (%d, %v); want (%d, %v)", tt.a, tt.b, result, borrow, tt.expectedResult, tt.expectedBorrow)
		}
	}
}

func TestNibble(t *testing.T) {
	word := uint16(0xD12F)
	assert.Equal(t, uint8(0xF), Nibble(word, 0))
	assert.Equal(t, uint8(0x2), Nibble(word, 1))
	assert.Equal(t, uint8(0x1), Nibble(word, 2))
	assert.Equal(t, uint8(0xD), Nibble(word, 3))
}

func TestHighLowAddr(t *testing.T) {
	assert.Equal(t, uint8(0xA2), High(0xA2F0))
	assert.Equal(t, uint8(0xF0), Low(0xA2F0))
	assert.Equal(t, uint16(0x2F0), Addr(0xA2F0))
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value   uint8
		h, t, u uint8
	}{
		{0, 0, 0, 0},
		{7, 0, 0, 7},
		{42, 0, 4, 2},
		{123, 1, 2, 3},
		{255, 2, 5, 5},
	}
	for _, tt := range tests {
		h, tens, u := BCD(tt.value)
		assert.Equal(t, []uint8{tt.h, tt.t, tt.u}, []uint8{h, tens, u}, "BCD(%d)", tt.value)
	}
}

func TestIsSetAndFromBool(t *testing.T) {
	assert.True(t, IsSet(7, 0x80))
	assert.False(t, IsSet(0, 0x80))
	assert.Equal(t, uint8(1), FromBool(true))
	assert.Equal(t, uint8(0), FromBool(false))
}
