package utils

import (
	"strings"
	"unicode"
)

// abnWeights - веса контрольной суммы ABN (Australian Business Number)
var abnWeights = [11]int{10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

// NormalizeABN убирает пробелы и дефисы: "51 824 753 556" -> "51824753556".
// Любые другие символы оставляются, чтобы IsValidABN их отклонил.
func NormalizeABN(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsValidABNFormat - ровно 11 цифр, первая не ноль
func IsValidABNFormat(abn string) bool {
	if len(abn) != 11 || abn[0] == '0' {
		return false
	}
	for _, r := range abn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidABN проверяет формат и контрольную сумму:
// из первой цифры вычитается 1, взвешенная сумма должна делиться на 89.
func IsValidABN(abn string) bool {
	abn = NormalizeABN(abn)
	if !IsValidABNFormat(abn) {
		return false
	}
	sum := 0
	for i, r := range abn {
		d := int(r - '0')
		if i == 0 {
			d--
		}
		sum += d * abnWeights[i]
	}
	return sum%89 == 0
}

// FormatABN группирует цифры как "51 824 753 556"; невалидный ввод возвращается как есть
func FormatABN(abn string) string {
	n := NormalizeABN(abn)
	if !IsValidABNFormat(n) {
		return abn
	}
	return n[:2] + " " + n[2:5] + " " + n[5:8] + " " + n[8:]
}
