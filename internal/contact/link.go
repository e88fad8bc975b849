// Package contact builds the WhatsApp deep-link the storefront hands to the
// browser; constructing the text and link is the whole contract, nothing is
// sent from here.
package contact

import (
	"fmt"
	"net/url"
	"strings"

	"ShriHariStore/internal/catalog"
)

type BusinessInfo struct {
	Name           string `json:"name" yaml:"name"`
	WhatsAppNumber string `json:"whatsappNumber" yaml:"whatsapp_number"`
	Email          string `json:"email" yaml:"email"`
	Address        string `json:"address" yaml:"address"`
}

type Form struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// BuildMessage renders the templated enquiry text, optionally naming a
// product and its price.
func BuildMessage(form Form, product *catalog.Product) string {
	var b strings.Builder

	b.WriteString("Hello! I'm interested in your products.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", form.Name)
	fmt.Fprintf(&b, "Phone: %s\n", form.Phone)
	fmt.Fprintf(&b, "Email: %s\n", form.Email)

	if product != nil {
		fmt.Fprintf(&b, "\nProduct: %s\n", product.Name)
		fmt.Fprintf(&b, "Price: ₹%.0f\n", product.Price)
	}

	fmt.Fprintf(&b, "\nMessage: %s", form.Message)
	return b.String()
}

// BuildWhatsAppLink URL-encodes the message into a wa.me link for the
// business number.
func BuildWhatsAppLink(info BusinessInfo, form Form, product *catalog.Product) string {
	number := strings.TrimPrefix(strings.TrimSpace(info.WhatsAppNumber), "+")
	text := strings.ReplaceAll(url.QueryEscape(BuildMessage(form, product)), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, text)
}
