package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrPriceEmpty    = errors.New("price is empty")
	ErrPriceFormat   = errors.New("price must be a number with at most two decimals")
	ErrPriceNegative = errors.New("price must not be negative")
)

var priceRe = regexp.MustCompile(`^\d*\.?\d{0,2}$`)

func FormatPrice(cents int) string {
	if cents == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// ParsePrice converts a dollar amount such as "9.99" to cents.
func ParsePrice(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrPriceEmpty
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrPriceNegative
	}
	if !priceRe.MatchString(s) || s == "." {
		return 0, ErrPriceFormat
	}

	dollars, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrPriceFormat
	}

	return int(math.Round(dollars * 100)), nil
}

// FormatDollars renders cents the way price inputs expect them.
func FormatDollars(cents int) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}
