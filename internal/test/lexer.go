package test

import (
	"math/rand"
	"strings"
)

// validTokens holds source fragments that scan cleanly, separated by ';'.
const validTokens = "let;x;=;print;if;else;for;in;(;);{;};[;];..;..=;,;true;false;\"a string\";\"a longer string with spaces, commas and digits 0123456789\";\"\";+;-;*;/;!;!=;==;>;>=;<;<=;123;2147483647;0;counter_1;// comment\n;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
