package simulator

import "strings"

// rawQueryArgs splits a query string without percent-decoding, which is
// how the firmware's argument parser reads it.
func rawQueryArgs(rawQuery string) map[string]string {
	args := make(map[string]string)
	if rawQuery == "" {
		return args
	}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if _, seen := args[key]; !seen {
			args[key] = value
		}
	}
	return args
}

// atoi parses leading decimal digits like C's atoi. Anything that does not
// start with a digit (after an optional sign) yields 0.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t")
	sign := 1
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<20 {
			break
		}
	}
	return sign * n
}
