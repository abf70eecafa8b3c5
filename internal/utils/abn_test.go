package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidABN(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"51824753556", true},
		{"51 824 753 556", true},
		{"53-004-085-616", true},
		{"33051775556", true},
		{"51824753557", false},
		{"12345678901", false},
		{"5182475355", false},
		{"518247535561", false},
		{"01824753556", false},
		{"5182475355a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidABN(tt.in))
		})
	}
}

func TestFormatABN(t *testing.T) {
	assert.Equal(t, "51 824 753 556", FormatABN("51824753556"))
	assert.Equal(t, "51 824 753 556", FormatABN("51-824-753-556"))
	assert.Equal(t, "abc", FormatABN("abc"))
}

func TestNormalizeABN(t *testing.T) {
	assert.Equal(t, "51824753556", NormalizeABN(" 51 824-753\t556 "))
}
