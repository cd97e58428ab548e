package order

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const whatsappSendURL = "https://api.whatsapp.com/send"

// Link builds the WhatsApp click-to-chat URL carrying text as the prefilled message.
func Link(phone, countryCode, text string) string {
	return fmt.Sprintf("%s?phone=%s%s&text=%s", whatsappSendURL, countryCode, phone, EscapeComponent(text))
}

// EscapeComponent percent-encodes s the way browsers encode a URI component:
// everything except letters, digits and -_.!~*'() is escaped as UTF-8 bytes.
func EscapeComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// QRCode renders link as a PNG so a desktop shopper can open it on a phone.
func QRCode(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
