package format

import (
    "fmt"
    "strings"

    "github.com/shopspring/decimal"
)

// Currency formats a major-unit amount for the storefront currencies.
// Example: Currency(decimal.NewFromInt(12345), "INR") => "₹12,345"
func Currency(amount decimal.Decimal, currency string) string {
    currency = strings.ToUpper(currency)
    switch currency {
    case "INR", "":
        return "₹" + amountString(amount)
    case "JPY":
        return "¥" + thousandSep(amount.Round(0).IntPart())
    case "USD":
        if amount.IsNegative() {
            return "-$" + amountString(amount.Neg())
        }
        return "$" + amountString(amount)
    default:
        return fmt.Sprintf("%s %s", currency, amountString(amount))
    }
}

// amountString renders whole amounts without decimals and fractional ones with two.
func amountString(amount decimal.Decimal) string {
    neg := amount.IsNegative()
    if neg { amount = amount.Neg() }
    whole := amount.Truncate(0)
    head := thousandSep(whole.IntPart())
    out := head
    if !amount.Equal(whole) {
        frac := amount.Sub(whole).StringFixed(2)
        // StringFixed yields "0.xx"; a fraction rounding up to a whole unit is rare enough to format directly
        if strings.HasPrefix(frac, "1") {
            out = thousandSep(whole.IntPart()+1) + ".00"
        } else {
            out = head + strings.TrimPrefix(frac, "0")
        }
    }
    if neg { return "-" + out }
    return out
}

func thousandSep(n int64) string {
    s := fmt.Sprintf("%d", n)
    neg := false
    if strings.HasPrefix(s, "-") { neg = true; s = s[1:] }
    out := ""
    for i, c := range s {
        if i != 0 && (len(s)-i)%3 == 0 { out += "," }
        out += string(c)
    }
    if neg { return "-" + out }
    return out
}

// Rating renders a product rating the way cards and the detail view show it.
func Rating(r float64) string {
    return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", r), "0"), ".") + " ⭐"
}
