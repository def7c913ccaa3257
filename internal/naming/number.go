// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package naming

import "strconv"

var ones = []string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// NumberWord spells out n as a title-cased identifier ("Eight",
// "TwoHundredFiftyFive"). Values outside 0..999 fall back to "N" followed by
// the digits.
func NumberWord(n int) string {
	if n < 0 || n > 999 {
		return "N" + strconv.Itoa(n)
	}
	if n < 20 {
		return ones[n]
	}

	var s string
	if n >= 100 {
		s = ones[n/100] + "Hundred"
		n %= 100
		if n == 0 {
			return s
		}
	}
	if n < 20 {
		return s + ones[n]
	}
	s += tens[n/10]
	if n%10 != 0 {
		s += ones[n%10]
	}
	return s
}
