// Package document validates the taxpayer identifiers callers type in.
package document

import (
	"errors"
	"strconv"
	"time"

	"virtual-attendant-be/pkg/text"
)

// Kind is the type of taxpayer identifier.
type Kind string

const (
	KindCPF         Kind = "CPF"
	KindCNPJ        Kind = "CNPJ"
	KindInscription Kind = "INSCRICAO"
)

var (
	ErrNoDigits        = errors.New("no digits in input")
	ErrLength          = errors.New("unexpected number of digits")
	ErrRepeatedDigits  = errors.New("all digits are equal")
	ErrCheckDigit      = errors.New("check digit mismatch")
	ErrYearOutOfRange  = errors.New("year out of range")
	ErrInscriptionSize = errors.New("inscription must have between 6 and 15 digits")
	ErrUnknownKind     = errors.New("unknown document kind")
)

// FirstTaxYear is the oldest exercise the municipal systems keep online.
const FirstTaxYear = 2015

// CPF validates an individual taxpayer number and returns its digits.
func CPF(input string) (string, error) {
	d := text.ExtractDigits(input)
	if err := checkShape(d, 11); err != nil {
		return "", err
	}
	if checkDigit(d[:9], 10) != d[9] || checkDigit(d[:10], 11) != d[10] {
		return "", ErrCheckDigit
	}
	return d, nil
}

// CNPJ validates a company number and returns its digits.
func CNPJ(input string) (string, error) {
	d := text.ExtractDigits(input)
	if err := checkShape(d, 14); err != nil {
		return "", err
	}
	first := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	second := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	if weighted(d[:12], first) != d[12] || weighted(d[:13], second) != d[13] {
		return "", ErrCheckDigit
	}
	return d, nil
}

// Validate checks input as kind.
func Validate(kind Kind, input string) (string, error) {
	switch kind {
	case KindCPF:
		return CPF(input)
	case KindCNPJ:
		return CNPJ(input)
	case KindInscription:
		return Inscription(input)
	}
	return "", ErrUnknownKind
}

// Known reports whether k is one of the supported kinds.
func (k Kind) Known() bool {
	return k == KindCPF || k == KindCNPJ || k == KindInscription
}

// Label is the caller-facing name of kind.
func (k Kind) Label() string {
	switch k {
	case KindInscription:
		return "inscrição imobiliária"
	case "":
		return "documento"
	}
	return string(k)
}

// Inscription validates a real-estate inscription number.
func Inscription(input string) (string, error) {
	d := text.ExtractDigits(input)
	if d == "" {
		return "", ErrNoDigits
	}
	if len(d) < 6 || len(d) > 15 {
		return "", ErrInscriptionSize
	}
	return d, nil
}

// Year validates a tax exercise between FirstTaxYear and the current year.
func Year(input string, now time.Time) (int, error) {
	d := text.ExtractDigits(input)
	if d == "" {
		return 0, ErrNoDigits
	}
	if len(d) != 4 {
		return 0, ErrLength
	}
	y, _ := strconv.Atoi(d)
	if y < FirstTaxYear || y > now.Year() {
		return 0, ErrYearOutOfRange
	}
	return y, nil
}

// Mask renders the identifier with only the last digits visible, for replies and logs.
func Mask(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	b := []byte(digits)
	for i := 0; i < len(b)-4; i++ {
		b[i] = '*'
	}
	return string(b)
}

func checkShape(d string, size int) error {
	if d == "" {
		return ErrNoDigits
	}
	if len(d) != size {
		return ErrLength
	}
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return nil
		}
	}
	return ErrRepeatedDigits
}

// checkDigit is the mod-11 digit for CPF with descending weights from start.
func checkDigit(d string, start int) byte {
	sum := 0
	for i := 0; i < len(d); i++ {
		sum += int(d[i]-'0') * (start - i)
	}
	return mod11(sum)
}

func weighted(d string, weights []int) byte {
	sum := 0
	for i := 0; i < len(d); i++ {
		sum += int(d[i]-'0') * weights[i]
	}
	return mod11(sum)
}

func mod11(sum int) byte {
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}
