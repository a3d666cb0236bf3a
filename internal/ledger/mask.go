package ledger

// MaskCard renders a card number as its first and last four digits, e.g.
// 6222021234567890123 becomes 6222...0123. Numbers shorter than eight
// characters are returned as they are.
func MaskCard(card string) string {
	r := []rune(card)
	if len(r) < 8 {
		return card
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}
