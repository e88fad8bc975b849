package contact

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShriHariStore/internal/catalog"
)

func testForm() Form {
	return Form{
		Name:    "Priya Sharma",
		Phone:   "+91 98765 43210",
		Email:   "priya@example.com",
		Message: "Is this available in green?",
	}
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage(testForm(), nil)

	assert.True(t, strings.HasPrefix(msg, "Hello! I'm interested in your products.\n\n"))
	assert.Contains(t, msg, "Name: Priya Sharma\n")
	assert.Contains(t, msg, "Phone: +91 98765 43210\n")
	assert.Contains(t, msg, "Email: priya@example.com\n")
	assert.True(t, strings.HasSuffix(msg, "\nMessage: Is this available in green?"))
	assert.NotContains(t, msg, "Product:")
}

func TestBuildMessage_WithProduct(t *testing.T) {
	p := catalog.Product{Name: "Banarasi Saree", Price: 3200}

	msg := BuildMessage(testForm(), &p)
	assert.Contains(t, msg, "\nProduct: Banarasi Saree\n")
	assert.Contains(t, msg, "Price: ₹3200\n")
}

func TestBuildWhatsAppLink(t *testing.T) {
	info := BusinessInfo{WhatsAppNumber: "+918816831181"}

	link := BuildWhatsAppLink(info, testForm(), nil)

	assert.True(t, strings.HasPrefix(link, "https://wa.me/918816831181?text="), link)
	assert.NotContains(t, link, "+918816831181", "leading plus is stripped from the number")

	encoded := strings.TrimPrefix(link, "https://wa.me/918816831181?text=")
	assert.NotContains(t, encoded, " ")
	assert.NotContains(t, encoded, "+", "spaces encode as %20, never +")

	decoded, err := url.QueryUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, BuildMessage(testForm(), nil), decoded)
}
